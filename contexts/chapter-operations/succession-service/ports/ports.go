package ports

import (
	"context"
	"time"

	"chapterhouse/contexts/chapter-operations/succession-service/domain/entities"
)

type CycleRepository interface {
	CreateCycle(ctx context.Context, cycle entities.Cycle) error
	GetCycle(ctx context.Context, cycleID string) (entities.Cycle, error)
	GetActiveCycle(ctx context.Context, scope string) (entities.Cycle, bool, error)
	ListCycles(ctx context.Context, scope string) ([]entities.Cycle, error)
	// TransitionCycleStatus performs a guarded write: the status column is
	// updated only where it still equals from. Returns false when another
	// transition won the race or the cycle is missing.
	TransitionCycleStatus(ctx context.Context, cycleID string, from, to entities.CycleStatus) (bool, error)
	UpdateCommittee(ctx context.Context, cycleID string, voterIDs []string) error
}

type PositionRepository interface {
	CreatePosition(ctx context.Context, position entities.Position) error
	GetPosition(ctx context.Context, positionID string) (entities.Position, error)
	// ListPositions returns positions ordered by hierarchy level ascending,
	// then title.
	ListPositions(ctx context.Context, cycleID string) ([]entities.Position, error)
	SetPositionActive(ctx context.Context, positionID string, active bool) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
