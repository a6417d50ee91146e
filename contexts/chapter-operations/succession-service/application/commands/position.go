package commands

import (
	"context"
	"log/slog"
	"strings"

	application "chapterhouse/contexts/chapter-operations/succession-service/application"
	"chapterhouse/contexts/chapter-operations/succession-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/succession-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/succession-service/ports"
)

type CreatePositionCommand struct {
	CycleID        string
	Title          string
	HierarchyLevel int
	Openings       int
}

type TogglePositionCommand struct {
	PositionID string
	Active     bool
}

type PositionUseCase struct {
	Cycles    ports.CycleRepository
	Positions ports.PositionRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc PositionUseCase) CreatePosition(ctx context.Context, cmd CreatePositionCommand) (entities.Position, error) {
	logger := application.ResolveLogger(uc.Logger)
	title := strings.TrimSpace(cmd.Title)
	if title == "" || cmd.Openings < 1 || cmd.HierarchyLevel < 0 {
		return entities.Position{}, domainerrors.ErrInvalidPositionInput
	}
	cycle, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cmd.CycleID))
	if err != nil {
		return entities.Position{}, err
	}
	if cycle.Status == entities.CycleStatusCompleted || cycle.Status == entities.CycleStatusArchived {
		return entities.Position{}, domainerrors.ErrCycleNotEditable
	}

	now := uc.Clock.Now().UTC()
	positionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Position{}, err
	}
	position := entities.Position{
		PositionID:     positionID,
		CycleID:        cycle.CycleID,
		Title:          title,
		HierarchyLevel: cmd.HierarchyLevel,
		Openings:       cmd.Openings,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.Positions.CreatePosition(ctx, position); err != nil {
		return entities.Position{}, err
	}
	logger.Info("position created",
		"event", "succession_position_created",
		"module", "chapter-operations/succession-service",
		"layer", "application",
		"position_id", position.PositionID,
		"cycle_id", position.CycleID,
		"openings", position.Openings,
	)
	return position, nil
}

// TogglePosition is idempotent: setting the flag to its current value is a
// no-op success. Existing approaches, nominations, and votes are untouched.
func (uc PositionUseCase) TogglePosition(ctx context.Context, cmd TogglePositionCommand) (entities.Position, error) {
	logger := application.ResolveLogger(uc.Logger)
	position, err := uc.Positions.GetPosition(ctx, strings.TrimSpace(cmd.PositionID))
	if err != nil {
		return entities.Position{}, err
	}
	if position.Active == cmd.Active {
		return position, nil
	}
	if err := uc.Positions.SetPositionActive(ctx, position.PositionID, cmd.Active); err != nil {
		return entities.Position{}, err
	}
	position.Active = cmd.Active
	position.UpdatedAt = uc.Clock.Now().UTC()
	logger.Info("position active flag changed",
		"event", "succession_position_toggled",
		"module", "chapter-operations/succession-service",
		"layer", "application",
		"position_id", position.PositionID,
		"active", position.Active,
	)
	return position, nil
}
