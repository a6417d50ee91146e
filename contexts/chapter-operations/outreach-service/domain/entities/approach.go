package entities

import "time"

type ResponseStatus string

const (
	ResponsePending     ResponseStatus = "pending"
	ResponseAccepted    ResponseStatus = "accepted"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseConditional ResponseStatus = "conditional"
)

// Resolved reports whether the status is a terminal candidate answer.
func (s ResponseStatus) Resolved() bool {
	switch s {
	case ResponseAccepted, ResponseDeclined, ResponseConditional:
		return true
	default:
		return false
	}
}

// Approach is one recorded outreach attempt to a candidate for a position.
// The row is never deleted; a fresh approach supersedes it.
type Approach struct {
	ApproachID  string
	CycleID     string
	PositionID  string
	CandidateID string
	Status      ResponseStatus
	Notes       string
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OutreachStats is a derived aggregate computed on read, never stored.
type OutreachStats struct {
	Total          int
	Pending        int
	Accepted       int
	Declined       int
	Conditional    int
	AcceptanceRate float64
}
