package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitNominationRequest struct {
	CycleID     string   `json:"cycle_id"`
	PositionID  string   `json:"position_id"`
	CandidateID string   `json:"candidate_id"`
	ApproachID  string   `json:"approach_id,omitempty"`
	Reason      string   `json:"reason"`
	Score       *float64 `json:"weighted_score,omitempty"`
}

type ReviewNominationRequest struct {
	Decision string `json:"decision"`
}

type NominationResponse struct {
	NominationID string   `json:"nomination_id"`
	CycleID      string   `json:"cycle_id"`
	PositionID   string   `json:"position_id"`
	CandidateID  string   `json:"candidate_id"`
	ApproachID   string   `json:"approach_id,omitempty"`
	Reason       string   `json:"reason"`
	Score        *float64 `json:"weighted_score,omitempty"`
	Status       string   `json:"status"`
	ReviewedBy   string   `json:"reviewed_by,omitempty"`
	ReviewedAt   string   `json:"reviewed_at,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type NominationListResponse struct {
	Items []NominationResponse `json:"items"`
}
