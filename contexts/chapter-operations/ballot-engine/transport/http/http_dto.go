package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScheduleMeetingRequest creates a meeting inside an active cycle.
type ScheduleMeetingRequest struct {
	CycleID     string `json:"cycle_id"`
	MeetingType string `json:"meeting_type"`
	MeetingDate string `json:"meeting_date"`
	Location    string `json:"location,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
	Agenda      string `json:"agenda,omitempty"`
}

type TransitionMeetingRequest struct {
	Status string `json:"status"`
}

type UpdateMeetingNotesRequest struct {
	Notes string `json:"notes"`
}

type MeetingResponse struct {
	MeetingID   string `json:"meeting_id"`
	CycleID     string `json:"cycle_id"`
	MeetingType string `json:"meeting_type"`
	Status      string `json:"status"`
	MeetingDate string `json:"meeting_date"`
	Location    string `json:"location,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
	Agenda      string `json:"agenda,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type MeetingListResponse struct {
	Items []MeetingResponse `json:"items"`
}

type CastVoteRequest struct {
	NomineeID string `json:"nominee_id"`
	Choice    string `json:"choice"`
	Comments  string `json:"comments,omitempty"`
}

type VoteResponse struct {
	VoteID     string `json:"vote_id"`
	MeetingID  string `json:"meeting_id"`
	VoterID    string `json:"voter_id"`
	NomineeID  string `json:"nominee_id"`
	PositionID string `json:"position_id"`
	Choice     string `json:"choice"`
	Comments   string `json:"comments,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type BallotEntryResponse struct {
	NominationID   string `json:"nomination_id"`
	PositionID     string `json:"position_id"`
	PositionTitle  string `json:"position_title"`
	HierarchyLevel int    `json:"hierarchy_level"`
	NomineeID      string `json:"nominee_id"`
	NomineeName    string `json:"nominee_name"`
	PriorChoice    string `json:"prior_choice,omitempty"`
	PriorComments  string `json:"prior_comments,omitempty"`
	HasPriorVote   bool   `json:"has_prior_vote"`
}

type BallotResponse struct {
	Meeting MeetingResponse       `json:"meeting"`
	Entries []BallotEntryResponse `json:"entries"`
}

type VoteResultResponse struct {
	MeetingID  string `json:"meeting_id"`
	PositionID string `json:"position_id"`
	NomineeID  string `json:"nominee_id"`
	Yes        int    `json:"yes"`
	No         int    `json:"no"`
	Abstain    int    `json:"abstain"`
}

type MeetingResultsResponse struct {
	Meeting MeetingResponse      `json:"meeting"`
	Results []VoteResultResponse `json:"results"`
}

type OutcomeEntryResponse struct {
	NomineeID    string `json:"nominee_id"`
	NominationID string `json:"nomination_id"`
	YesVotes     int    `json:"yes_votes"`
	Selected     bool   `json:"selected"`
}

type SelectionOutcomeResponse struct {
	CycleID     string                 `json:"cycle_id"`
	PositionID  string                 `json:"position_id"`
	Openings    int                    `json:"openings"`
	UnderFilled bool                   `json:"under_filled"`
	Entries     []OutcomeEntryResponse `json:"entries"`
}

type SelectionOutcomeListResponse struct {
	Items []SelectionOutcomeResponse `json:"items"`
}
