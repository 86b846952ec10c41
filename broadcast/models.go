package broadcast

import "time"

// Severity grades an alert.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Valid reports whether the severity is one of the known grades.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Alert mirrors the broadcasts table. IsAuthority is derived from the
// creator's role at creation time and never changes afterwards.
type Alert struct {
	ID          string
	Type        string
	Severity    Severity
	Location    string
	Message     string
	IsAuthority bool
	CreatedAt   time.Time
}
