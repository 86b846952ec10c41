package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SyncState tracks a locally created incident against the server.
type SyncState string

const (
	SyncPending   SyncState = "pending"
	SyncCommitted SyncState = "committed"
	SyncFailed    SyncState = "failed"
)

// LocalIncident is an incident as the store sees it: the wire fields plus the
// sync tri-state and the local placeholder id used before the server assigns
// a real one.
type LocalIncident struct {
	Incident
	Sync    SyncState
	LocalID string
}

// Store holds the three client-side slices: the authenticated account, the
// incident list, and the broadcast list. It is owned by the composition root
// and passed explicitly; there are no ambient singletons.
type Store struct {
	mu         sync.Mutex
	account    *Account
	stats      Stats
	incidents  []LocalIncident
	broadcasts []Broadcast
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetSession records the authenticated account and its stats snapshot.
func (s *Store) SetSession(account Account, stats Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = &account
	s.stats = stats
}

// Session returns the authenticated account, if any.
func (s *Store) Session() (Account, Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return Account{}, Stats{}, false
	}
	return *s.account, s.stats, true
}

// ClearSession drops the account and the owner-scoped incident slice.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = nil
	s.stats = Stats{}
	s.incidents = nil
}

// SetIncidents replaces the incident slice with server state; everything the
// server returned is committed by definition.
func (s *Store) SetIncidents(incidents []Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.incidents = make([]LocalIncident, 0, len(incidents))
	for _, inc := range incidents {
		s.incidents = append(s.incidents, LocalIncident{Incident: inc, Sync: SyncCommitted})
	}
}

// Incidents returns a copy of the incident slice.
func (s *Store) Incidents() []LocalIncident {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LocalIncident, len(s.incidents))
	copy(out, s.incidents)
	return out
}

// SetBroadcasts replaces the broadcast slice.
func (s *Store) SetBroadcasts(broadcasts []Broadcast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts = make([]Broadcast, len(broadcasts))
	copy(s.broadcasts, broadcasts)
}

// Broadcasts returns a copy of the broadcast slice.
func (s *Store) Broadcasts() []Broadcast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Broadcast, len(s.broadcasts))
	copy(out, s.broadcasts)
	return out
}

// StageIncident inserts an optimistic pending entry with a generated local id
// at the head of the list and returns it.
func (s *Store) StageIncident(draft IncidentDraft) LocalIncident {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := LocalIncident{
		Incident: Incident{
			Title:       draft.Title,
			Description: draft.Description,
			Category:    draft.Category,
			Location:    draft.Location,
			Image:       draft.Image,
			Status:      "Open",
			CreatedAt:   time.Now(),
		},
		Sync:    SyncPending,
		LocalID: uuid.NewString(),
	}
	if s.account != nil {
		local.UserID = s.account.ID
	}

	s.incidents = append([]LocalIncident{local}, s.incidents...)
	return local
}

// CommitIncident reconciles a pending entry with the server-assigned record.
func (s *Store) CommitIncident(localID string, committed Incident) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.incidents {
		if s.incidents[i].LocalID == localID {
			s.incidents[i] = LocalIncident{Incident: committed, Sync: SyncCommitted, LocalID: localID}
			return true
		}
	}
	return false
}

// FailIncident marks a pending entry failed without removing it, so the UI
// can surface the failure and offer a retry or rollback.
func (s *Store) FailIncident(localID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.incidents {
		if s.incidents[i].LocalID == localID {
			s.incidents[i].Sync = SyncFailed
			return true
		}
	}
	return false
}

// DropIncident rolls a failed or pending entry back out of the list.
func (s *Store) DropIncident(localID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.incidents {
		if s.incidents[i].LocalID == localID {
			s.incidents = append(s.incidents[:i], s.incidents[i+1:]...)
			return true
		}
	}
	return false
}

// CreateIncidentOptimistic stages the draft locally, submits it, and
// reconciles the placeholder with the server-assigned record on success or
// marks it failed on error.
func (c *Client) CreateIncidentOptimistic(ctx context.Context, store *Store, draft IncidentDraft) (Incident, error) {
	local := store.StageIncident(draft)

	created, err := c.CreateIncident(ctx, draft)
	if err != nil {
		store.FailIncident(local.LocalID)
		return Incident{}, err
	}

	store.CommitIncident(local.LocalID, created)
	return created, nil
}

// Refresh performs the on-mount fetches: broadcasts always, account and
// incidents only when a session token is present.
func (c *Client) Refresh(ctx context.Context, store *Store) error {
	broadcasts, err := c.Broadcasts(ctx)
	if err != nil {
		return err
	}
	store.SetBroadcasts(broadcasts)

	token, err := c.session.Token()
	if err != nil {
		return err
	}
	if token == "" {
		store.ClearSession()
		return nil
	}

	account, stats, err := c.Me(ctx)
	if err != nil {
		return err
	}
	store.SetSession(account, stats)

	incidents, err := c.Incidents(ctx)
	if err != nil {
		return err
	}
	store.SetIncidents(incidents)
	return nil
}
