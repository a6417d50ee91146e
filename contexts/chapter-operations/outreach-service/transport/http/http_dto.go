package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordApproachRequest struct {
	CycleID     string `json:"cycle_id"`
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
	Notes       string `json:"notes,omitempty"`
}

type RecordResponseRequest struct {
	Status string `json:"response_status"`
}

type OverrideResponseRequest struct {
	Status string `json:"response_status"`
}

type ApproachResponse struct {
	ApproachID  string `json:"approach_id"`
	CycleID     string `json:"cycle_id"`
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
	Status      string `json:"response_status"`
	Notes       string `json:"notes,omitempty"`
	RespondedAt string `json:"responded_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ApproachListResponse struct {
	Items []ApproachResponse `json:"items"`
}

type OutreachStatsResponse struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Accepted       int     `json:"accepted"`
	Declined       int     `json:"declined"`
	Conditional    int     `json:"conditional"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}
