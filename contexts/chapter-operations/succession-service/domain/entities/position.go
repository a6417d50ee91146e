package entities

import "time"

// Position is an open leadership seat inside a cycle. HierarchyLevel is
// ordinal and used only for display grouping. Deactivating a position keeps
// all history attached to it.
type Position struct {
	PositionID     string
	CycleID        string
	Title          string
	HierarchyLevel int
	Openings       int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
