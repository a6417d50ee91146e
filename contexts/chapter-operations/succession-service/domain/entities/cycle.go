package entities

import "time"

type CycleStatus string

const (
	CycleStatusDraft     CycleStatus = "draft"
	CycleStatusActive    CycleStatus = "active"
	CycleStatusCompleted CycleStatus = "completed"
	CycleStatusArchived  CycleStatus = "archived"
)

// cycleTransitions is the forward-only lattice for cycle statuses.
// draft -> archived is direct cancellation of a cycle that never ran.
var cycleTransitions = map[CycleStatus][]CycleStatus{
	CycleStatusDraft:     {CycleStatusActive, CycleStatusArchived},
	CycleStatusActive:    {CycleStatusCompleted},
	CycleStatusCompleted: {CycleStatusArchived},
	CycleStatusArchived:  {},
}

func (s CycleStatus) Valid() bool {
	switch s {
	case CycleStatusDraft, CycleStatusActive, CycleStatusCompleted, CycleStatusArchived:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the lattice allows moving to next.
func (s CycleStatus) CanTransitionTo(next CycleStatus) bool {
	for _, allowed := range cycleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cycle is one bounded succession-planning period for a chapter scope.
// VoterIDs is the committee roster eligible to cast ballot votes.
type Cycle struct {
	CycleID   string
	Scope     string
	Name      string
	Year      int
	Status    CycleStatus
	VoterIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Cycle) HasVoter(voterID string) bool {
	for _, id := range c.VoterIDs {
		if id == voterID {
			return true
		}
	}
	return false
}
