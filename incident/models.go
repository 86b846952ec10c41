package incident

import "time"

// Status is the lifecycle of a reported incident.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// Report mirrors the incidents table. Image holds a base64 payload when present.
type Report struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	Location    *string
	Image       *string
	Status      Status
	CreatedAt   time.Time
}

// Stats are derived per-owner incident counts; they are recomputed on every
// call, never stored.
type Stats struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Pending  int `json:"pending"`
}
