package commands

import (
	"context"
	"log/slog"
	"strings"

	application "chapterhouse/contexts/chapter-operations/outreach-service/application"
	"chapterhouse/contexts/chapter-operations/outreach-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/outreach-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/outreach-service/ports"
)

type RecordApproachCommand struct {
	CycleID     string
	PositionID  string
	CandidateID string
	Notes       string
}

type RecordResponseCommand struct {
	ApproachID string
	Status     entities.ResponseStatus
}

// OverrideResponseCommand is the administrative correction path. ActorID is
// the administrator on record; the normal response flow stays write-once.
type OverrideResponseCommand struct {
	ApproachID string
	Status     entities.ResponseStatus
	ActorID    string
}

type ApproachUseCase struct {
	Approaches ports.ApproachRepository
	Cycles     ports.CycleReader
	Positions  ports.PositionReader
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// RecordApproach opens outreach to a candidate. The cycle must be active and
// the position active; otherwise the target is not addressable.
func (uc ApproachUseCase) RecordApproach(ctx context.Context, cmd RecordApproachCommand) (entities.Approach, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.CandidateID) == "" {
		return entities.Approach{}, domainerrors.ErrInvalidApproachInput
	}

	cycle, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cmd.CycleID))
	if err != nil {
		return entities.Approach{}, err
	}
	if !strings.EqualFold(cycle.Status, "active") {
		return entities.Approach{}, domainerrors.ErrCycleNotFound
	}
	position, err := uc.Positions.GetPosition(ctx, strings.TrimSpace(cmd.PositionID))
	if err != nil {
		return entities.Approach{}, err
	}
	if position.CycleID != cycle.CycleID || !position.Active {
		return entities.Approach{}, domainerrors.ErrPositionNotFound
	}

	now := uc.Clock.Now().UTC()
	approachID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Approach{}, err
	}
	approach := entities.Approach{
		ApproachID:  approachID,
		CycleID:     cycle.CycleID,
		PositionID:  position.PositionID,
		CandidateID: strings.TrimSpace(cmd.CandidateID),
		Status:      entities.ResponsePending,
		Notes:       strings.TrimSpace(cmd.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Approaches.SaveApproach(ctx, approach); err != nil {
		return entities.Approach{}, err
	}
	logger.Info("approach recorded",
		"event", "outreach_approach_recorded",
		"module", "chapter-operations/outreach-service",
		"layer", "application",
		"approach_id", approach.ApproachID,
		"cycle_id", approach.CycleID,
		"position_id", approach.PositionID,
		"candidate_id", approach.CandidateID,
	)
	return approach, nil
}

// RecordResponse captures the candidate's answer exactly once. The repository
// write is guarded on pending status so two concurrent responses cannot both
// land; the loser surfaces the already-recorded error.
func (uc ApproachUseCase) RecordResponse(ctx context.Context, cmd RecordResponseCommand) (entities.Approach, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Status.Resolved() {
		return entities.Approach{}, domainerrors.ErrInvalidApproachInput
	}
	approach, err := uc.Approaches.GetApproach(ctx, strings.TrimSpace(cmd.ApproachID))
	if err != nil {
		return entities.Approach{}, err
	}
	if approach.Status != entities.ResponsePending {
		return entities.Approach{}, domainerrors.ErrResponseAlreadySet
	}

	now := uc.Clock.Now().UTC()
	recorded, err := uc.Approaches.RecordResponse(ctx, approach.ApproachID, cmd.Status, now)
	if err != nil {
		return entities.Approach{}, err
	}
	if !recorded {
		return entities.Approach{}, domainerrors.ErrResponseAlreadySet
	}

	approach.Status = cmd.Status
	approach.RespondedAt = &now
	approach.UpdatedAt = now
	logger.Info("approach response recorded",
		"event", "outreach_response_recorded",
		"module", "chapter-operations/outreach-service",
		"layer", "application",
		"approach_id", approach.ApproachID,
		"response_status", string(approach.Status),
	)
	return approach, nil
}

// OverrideResponse corrects a resolved response on administrative authority.
func (uc ApproachUseCase) OverrideResponse(ctx context.Context, cmd OverrideResponseCommand) (entities.Approach, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Status.Resolved() || strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Approach{}, domainerrors.ErrInvalidApproachInput
	}
	approach, err := uc.Approaches.GetApproach(ctx, strings.TrimSpace(cmd.ApproachID))
	if err != nil {
		return entities.Approach{}, err
	}

	now := uc.Clock.Now().UTC()
	prior := approach.Status
	if err := uc.Approaches.OverrideResponse(ctx, approach.ApproachID, cmd.Status, now); err != nil {
		return entities.Approach{}, err
	}
	approach.Status = cmd.Status
	approach.RespondedAt = &now
	approach.UpdatedAt = now
	logger.Info("approach response overridden",
		"event", "outreach_response_overridden",
		"module", "chapter-operations/outreach-service",
		"layer", "application",
		"approach_id", approach.ApproachID,
		"prior_status", string(prior),
		"response_status", string(approach.Status),
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return approach, nil
}
