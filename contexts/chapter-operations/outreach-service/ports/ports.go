package ports

import (
	"context"
	"time"

	"chapterhouse/contexts/chapter-operations/outreach-service/domain/entities"
)

type ApproachRepository interface {
	SaveApproach(ctx context.Context, approach entities.Approach) error
	GetApproach(ctx context.Context, approachID string) (entities.Approach, error)
	ListApproaches(ctx context.Context, filter ApproachFilter) ([]entities.Approach, error)
	// RecordResponse is a guarded write: the row is updated only while its
	// response_status is still pending. Returns false when the response was
	// already recorded by a concurrent request.
	RecordResponse(ctx context.Context, approachID string, status entities.ResponseStatus, respondedAt time.Time) (bool, error)
	// OverrideResponse replaces a resolved response unconditionally; callers
	// hold the administrative gate.
	OverrideResponse(ctx context.Context, approachID string, status entities.ResponseStatus, respondedAt time.Time) error
}

type ApproachFilter struct {
	CycleID    string
	PositionID string
	Status     entities.ResponseStatus
}

// CycleProjection is the read-only slice of succession-service state this
// module needs to validate outreach.
type CycleProjection struct {
	CycleID string
	Scope   string
	Status  string
}

// PositionProjection mirrors the position catalog row outreach validates
// against.
type PositionProjection struct {
	PositionID string
	CycleID    string
	Title      string
	Active     bool
}

type CycleReader interface {
	GetCycle(ctx context.Context, cycleID string) (CycleProjection, error)
}

type PositionReader interface {
	GetPosition(ctx context.Context, positionID string) (PositionProjection, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
