package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCycleRequest struct {
	Scope    string   `json:"scope"`
	Name     string   `json:"name"`
	Year     int      `json:"year"`
	Status   string   `json:"status,omitempty"`
	VoterIDs []string `json:"voter_ids,omitempty"`
}

type TransitionCycleRequest struct {
	Status string `json:"status"`
}

type UpdateCommitteeRequest struct {
	VoterIDs []string `json:"voter_ids"`
}

type CycleResponse struct {
	CycleID   string   `json:"cycle_id"`
	Scope     string   `json:"scope"`
	Name      string   `json:"name"`
	Year      int      `json:"year"`
	Status    string   `json:"status"`
	VoterIDs  []string `json:"voter_ids"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type CycleListResponse struct {
	Items []CycleResponse `json:"items"`
}

type CreatePositionRequest struct {
	Title          string `json:"title"`
	HierarchyLevel int    `json:"hierarchy_level"`
	Openings       int    `json:"number_of_openings"`
}

type TogglePositionRequest struct {
	Active bool `json:"is_active"`
}

type PositionResponse struct {
	PositionID     string `json:"position_id"`
	CycleID        string `json:"cycle_id"`
	Title          string `json:"title"`
	HierarchyLevel int    `json:"hierarchy_level"`
	Openings       int    `json:"number_of_openings"`
	Active         bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type PositionListResponse struct {
	Items []PositionResponse `json:"items"`
}
