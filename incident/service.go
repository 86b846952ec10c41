package incident

import (
	"context"
	"fmt"
	"strings"
)

// Service exposes business-level incident operations.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams contains report fields supplied by callers. The owner is never
// taken from here; it always comes from the authenticated caller.
type CreateParams struct {
	Title       string
	Description string
	Category    string
	Location    *string
	Image       *string
}

// UpdateParams carries partial fields for an update; nil means leave unchanged.
type UpdateParams struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Image       *string
	Status      *Status
}

// Create stores a new report owned by ownerID with status defaulted to Open.
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (Report, error) {
	if ownerID == "" {
		return Report{}, fmt.Errorf("incident: missing owner id")
	}
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Description) == "" {
		return Report{}, fmt.Errorf("incident: title and description are required")
	}
	if strings.TrimSpace(params.Category) == "" {
		return Report{}, fmt.Errorf("incident: category is required")
	}

	return s.repo.Create(ctx, CreateReportParams{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Category:    params.Category,
		Location:    params.Location,
		Image:       params.Image,
		Status:      StatusOpen,
	})
}

// ListForOwner returns the owner's reports, newest first.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]Report, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get fetches one report by id. Reads are not ownership-checked.
func (s *Service) Get(ctx context.Context, id string) (Report, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies only the fields present in params; absent fields are left
// untouched.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (Report, error) {
	if params.Status != nil && !params.Status.Valid() {
		return Report{}, fmt.Errorf("incident: invalid status %q", *params.Status)
	}
	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return Report{}, fmt.Errorf("incident: title cannot be empty")
	}

	return s.repo.Update(ctx, id, UpdateReportParams{
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Location:    params.Location,
		Image:       params.Image,
		Status:      params.Status,
	})
}

// Delete removes a report unconditionally.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// StatsFor recomputes the owner's derived counts on every call.
func (s *Service) StatsFor(ctx context.Context, ownerID string) (Stats, error) {
	total, resolved, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Total:    total,
		Resolved: resolved,
		Pending:  total - resolved,
	}, nil
}
