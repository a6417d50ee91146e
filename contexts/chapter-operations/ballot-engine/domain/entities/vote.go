package entities

import "time"

type VoteChoice string

const (
	VoteYes     VoteChoice = "yes"
	VoteNo      VoteChoice = "no"
	VoteAbstain VoteChoice = "abstain"
)

func (c VoteChoice) Valid() bool {
	switch c {
	case VoteYes, VoteNo, VoteAbstain:
		return true
	default:
		return false
	}
}

// Vote is one committee member's ballot for a nominee in a meeting. The
// identity tuple (MeetingID, VoterID, NomineeID) is unique; a resubmission
// replaces the choice in place and keeps VoteID and CreatedAt.
type Vote struct {
	VoteID     string
	MeetingID  string
	VoterID    string
	NomineeID  string
	PositionID string
	Choice     VoteChoice
	Comments   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VoteResult is the derived per-(position, nominee) aggregation for one
// meeting. It is computed on demand and never stored.
type VoteResult struct {
	MeetingID  string
	PositionID string
	NomineeID  string
	Yes        int
	No         int
	Abstain    int
}

// BallotEntry is one votable line on a meeting's ballot: an approved
// nomination with display fields and the caller's prior vote, if any.
type BallotEntry struct {
	NominationID   string
	PositionID     string
	PositionTitle  string
	HierarchyLevel int
	NomineeID      string
	NomineeName    string
	PriorChoice    VoteChoice
	PriorComments  string
	HasPriorVote   bool
}

// OutcomeEntry ranks one nominee inside a position's selection outcome.
type OutcomeEntry struct {
	NomineeID    string
	NominationID string
	YesVotes     int
	SubmittedAt  time.Time
	Selected     bool
}

// SelectionOutcome is the binding winner determination for a position,
// derived from final_selection meeting tallies.
type SelectionOutcome struct {
	CycleID     string
	PositionID  string
	Openings    int
	UnderFilled bool
	Entries     []OutcomeEntry
}
