package entities

import "time"

type NominationStatus string

const (
	NominationSubmitted NominationStatus = "submitted"
	NominationApproved  NominationStatus = "approved"
	NominationRejected  NominationStatus = "rejected"
)

// Nomination is a formal candidacy for a position, pending committee review.
// Score is an optional weighted evaluation input from a separate rubric.
type Nomination struct {
	NominationID string
	CycleID      string
	PositionID   string
	CandidateID  string
	ApproachID   string
	Reason       string
	Score        *float64
	Status       NominationStatus
	ReviewedBy   string
	ReviewedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
