package ports

import (
	"context"
	"time"

	"chapterhouse/contexts/chapter-operations/nomination-service/domain/entities"
)

type NominationRepository interface {
	SaveNomination(ctx context.Context, nomination entities.Nomination) error
	GetNomination(ctx context.Context, nominationID string) (entities.Nomination, error)
	ListNominations(ctx context.Context, filter NominationFilter) ([]entities.Nomination, error)
	// Review is a guarded write: the row is updated only while its status is
	// still submitted. Returns false when another reviewer won the race.
	Review(ctx context.Context, nominationID string, status entities.NominationStatus, reviewedBy string, reviewedAt time.Time) (bool, error)
}

type NominationFilter struct {
	CycleID    string
	PositionID string
	Status     entities.NominationStatus
}

type CycleProjection struct {
	CycleID string
	Scope   string
	Status  string
}

type PositionProjection struct {
	PositionID string
	CycleID    string
	Title      string
	Active     bool
}

// ApproachProjection lets a nomination verify its claimed origin.
type ApproachProjection struct {
	ApproachID  string
	CycleID     string
	PositionID  string
	CandidateID string
	Status      string
}

type CycleReader interface {
	GetCycle(ctx context.Context, cycleID string) (CycleProjection, error)
}

type PositionReader interface {
	GetPosition(ctx context.Context, positionID string) (PositionProjection, error)
}

type ApproachReader interface {
	GetApproach(ctx context.Context, approachID string) (ApproachProjection, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
