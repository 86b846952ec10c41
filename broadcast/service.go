package broadcast

import (
	"context"
	"fmt"
	"strings"

	"wayanadconnect/auth"
)

// Service exposes business-level broadcast operations.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams contains alert fields supplied by callers.
type CreateParams struct {
	Type     string
	Severity Severity
	Location string
	Message  string
}

// Create stores a new alert. Any authenticated account may publish; the
// authority flag is set iff the creator's role is admin or authority.
func (s *Service) Create(ctx context.Context, creatorRole auth.Role, params CreateParams) (Alert, error) {
	if strings.TrimSpace(params.Type) == "" || strings.TrimSpace(params.Message) == "" {
		return Alert{}, fmt.Errorf("broadcast: type and message are required")
	}
	if strings.TrimSpace(params.Location) == "" {
		return Alert{}, fmt.Errorf("broadcast: location is required")
	}
	if !params.Severity.Valid() {
		return Alert{}, fmt.Errorf("broadcast: invalid severity %q", params.Severity)
	}

	return s.repo.Create(ctx, CreateAlertParams{
		Type:        params.Type,
		Severity:    params.Severity,
		Location:    params.Location,
		Message:     params.Message,
		IsAuthority: creatorRole.IsAuthority(),
	})
}

// List returns all alerts, newest first. Reads are public.
func (s *Service) List(ctx context.Context) ([]Alert, error) {
	return s.repo.List(ctx)
}
