package entities

import "time"

type MeetingType string

const (
	MeetingSteeringCommittee MeetingType = "steering_committee"
	MeetingRCReview          MeetingType = "rc_review"
	MeetingFinalSelection    MeetingType = "final_selection"
	MeetingInterview         MeetingType = "interview"
)

func (t MeetingType) Valid() bool {
	switch t {
	case MeetingSteeringCommittee, MeetingRCReview, MeetingFinalSelection, MeetingInterview:
		return true
	default:
		return false
	}
}

// Binding reports whether votes from this meeting type count toward the
// selection outcome. Advisory meeting votes stay visible in tallies but never
// bind.
func (t MeetingType) Binding() bool {
	return t == MeetingFinalSelection
}

type MeetingStatus string

const (
	MeetingScheduled  MeetingStatus = "scheduled"
	MeetingInProgress MeetingStatus = "in_progress"
	MeetingCompleted  MeetingStatus = "completed"
	MeetingCancelled  MeetingStatus = "cancelled"
)

// meetingTransitions is the monotonic lattice: completed and cancelled are
// terminal, and cancellation is only possible before the meeting starts.
var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingScheduled:  {MeetingInProgress, MeetingCancelled},
	MeetingInProgress: {MeetingCompleted},
	MeetingCompleted:  {},
	MeetingCancelled:  {},
}

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingScheduled, MeetingInProgress, MeetingCompleted, MeetingCancelled:
		return true
	default:
		return false
	}
}

func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	for _, allowed := range meetingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Open reports whether ballots may still be cast in this meeting.
func (s MeetingStatus) Open() bool {
	return s == MeetingScheduled || s == MeetingInProgress
}

// Meeting is one committee session inside a cycle. Either Location or
// MeetingLink is set; both empty is rejected at creation.
type Meeting struct {
	MeetingID   string
	CycleID     string
	Type        MeetingType
	Status      MeetingStatus
	MeetingDate time.Time
	Location    string
	MeetingLink string
	Agenda      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
