package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the Wayanad Connect REST API. The session token is read
// from the injected SessionStore on every authenticated call and updated
// whenever the server issues a fresh one.
type Client struct {
	http    *resty.Client
	session SessionStore
}

// New builds a client against baseURL using the given session store.
func New(baseURL string, session SessionStore) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, session: session}
}

// APIError carries a failed response's status and server message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: api error %d: %s", e.StatusCode, e.Message)
}

// Account is the public wire shape of an account.
type Account struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Location    *string `json:"location,omitempty"`
	Role        string  `json:"role"`
}

// Stats are the derived per-account incident counts.
type Stats struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Pending  int `json:"pending"`
}

// Incident is the wire shape of an incident report.
type Incident struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    *string   `json:"location,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Broadcast is the wire shape of a public alert.
type Broadcast struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Location    string    `json:"location"`
	Message     string    `json:"message"`
	IsAuthority bool      `json:"isAuthority"`
	CreatedAt   time.Time `json:"createdAt"`
}

type sessionPayload struct {
	Account
	Token string `json:"token"`
	Stats *Stats `json:"stats"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// RegisterParams contains the registration fields.
type RegisterParams struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// ProfileUpdate carries optional profile fields; nil means leave unchanged.
type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// IncidentDraft contains the fields for a new report.
type IncidentDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Location    *string `json:"location,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// IncidentPatch carries partial fields for an update.
type IncidentPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	Image       *string `json:"image,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// BroadcastDraft contains the fields for a new alert.
type BroadcastDraft struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, params RegisterParams) (Account, error) {
	var payload sessionPayload
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", params, &payload, false); err != nil {
		return Account{}, err
	}
	if err := c.session.SetToken(payload.Token); err != nil {
		return Account{}, err
	}
	return payload.Account, nil
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (Account, Stats, error) {
	body := map[string]string{"email": email, "password": password}

	var payload sessionPayload
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &payload, false); err != nil {
		return Account{}, Stats{}, err
	}
	if err := c.session.SetToken(payload.Token); err != nil {
		return Account{}, Stats{}, err
	}

	stats := Stats{}
	if payload.Stats != nil {
		stats = *payload.Stats
	}
	return payload.Account, stats, nil
}

// Logout drops the persisted session.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me fetches the authenticated account with a fresh stats snapshot.
func (c *Client) Me(ctx context.Context) (Account, Stats, error) {
	var payload sessionPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &payload, true); err != nil {
		return Account{}, Stats{}, err
	}

	stats := Stats{}
	if payload.Stats != nil {
		stats = *payload.Stats
	}
	return payload.Account, stats, nil
}

// UpdateProfile applies the supplied fields and stores the reissued token.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (Account, Stats, error) {
	var payload sessionPayload
	if err := c.do(ctx, http.MethodPut, "/api/v1/auth/profile", update, &payload, true); err != nil {
		return Account{}, Stats{}, err
	}
	if err := c.session.SetToken(payload.Token); err != nil {
		return Account{}, Stats{}, err
	}

	stats := Stats{}
	if payload.Stats != nil {
		stats = *payload.Stats
	}
	return payload.Account, stats, nil
}

// UpdatePassword changes the password through the dedicated endpoint.
func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	var payload messagePayload
	return c.do(ctx, http.MethodPut, "/api/v1/auth/update-password", body, &payload, true)
}

// Incidents lists the caller's reports.
func (c *Client) Incidents(ctx context.Context) ([]Incident, error) {
	var out []Incident
	if err := c.do(ctx, http.MethodGet, "/api/v1/incidents", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Incident fetches one report by id.
func (c *Client) Incident(ctx context.Context, id string) (Incident, error) {
	var out Incident
	if err := c.do(ctx, http.MethodGet, "/api/v1/incidents/"+id, nil, &out, false); err != nil {
		return Incident{}, err
	}
	return out, nil
}

// CreateIncident submits a new report.
func (c *Client) CreateIncident(ctx context.Context, draft IncidentDraft) (Incident, error) {
	var out Incident
	if err := c.do(ctx, http.MethodPost, "/api/v1/incidents", draft, &out, true); err != nil {
		return Incident{}, err
	}
	return out, nil
}

// UpdateIncident applies a partial update.
func (c *Client) UpdateIncident(ctx context.Context, id string, patch IncidentPatch) (Incident, error) {
	var out Incident
	if err := c.do(ctx, http.MethodPatch, "/api/v1/incidents/"+id, patch, &out, false); err != nil {
		return Incident{}, err
	}
	return out, nil
}

// DeleteIncident removes a report.
func (c *Client) DeleteIncident(ctx context.Context, id string) error {
	var payload messagePayload
	return c.do(ctx, http.MethodDelete, "/api/v1/incidents/"+id, nil, &payload, false)
}

// Broadcasts lists all public alerts, newest first.
func (c *Client) Broadcasts(ctx context.Context) ([]Broadcast, error) {
	var out []Broadcast
	if err := c.do(ctx, http.MethodGet, "/api/v1/broadcasts", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBroadcast publishes a new alert.
func (c *Client) CreateBroadcast(ctx context.Context, draft BroadcastDraft) (Broadcast, error) {
	var out Broadcast
	if err := c.do(ctx, http.MethodPost, "/api/v1/broadcasts", draft, &out, true); err != nil {
		return Broadcast{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	apiErr := messagePayload{}
	req.SetError(&apiErr)

	if authed {
		token, err := c.session.Token()
		if err != nil {
			return err
		}
		if token == "" {
			return ErrNoSession
		}
		req.SetAuthToken(token)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Message}
	}
	return nil
}
