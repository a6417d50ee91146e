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

// CreateCycleCommand is the write-model input for opening a succession cycle.
type CreateCycleCommand struct {
	Scope    string
	Name     string
	Year     int
	Status   entities.CycleStatus
	VoterIDs []string
}

// TransitionCycleCommand moves a cycle along the status lattice.
type TransitionCycleCommand struct {
	CycleID  string
	ToStatus entities.CycleStatus
}

// UpdateCommitteeCommand replaces the cycle's eligible voter roster.
type UpdateCommitteeCommand struct {
	CycleID  string
	VoterIDs []string
}

type CycleUseCase struct {
	Cycles ports.CycleRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreateCycle opens a cycle for a chapter scope. At most one cycle per scope
// may be active; a create request that asks for active status while another
// active cycle exists is rejected. The partial unique index on
// (scope) WHERE status = 'active' backs the same invariant in storage.
func (uc CycleUseCase) CreateCycle(ctx context.Context, cmd CreateCycleCommand) (entities.Cycle, error) {
	logger := application.ResolveLogger(uc.Logger)
	scope := strings.TrimSpace(cmd.Scope)
	name := strings.TrimSpace(cmd.Name)
	if scope == "" || name == "" || cmd.Year <= 0 {
		return entities.Cycle{}, domainerrors.ErrInvalidCycleInput
	}
	status := cmd.Status
	if status == "" {
		status = entities.CycleStatusDraft
	}
	if status != entities.CycleStatusDraft && status != entities.CycleStatusActive {
		return entities.Cycle{}, domainerrors.ErrInvalidCycleInput
	}

	if status == entities.CycleStatusActive {
		if _, found, err := uc.Cycles.GetActiveCycle(ctx, scope); err != nil {
			return entities.Cycle{}, err
		} else if found {
			return entities.Cycle{}, domainerrors.ErrActiveCycleExists
		}
	}

	now := uc.Clock.Now().UTC()
	cycleID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Cycle{}, err
	}
	cycle := entities.Cycle{
		CycleID:   cycleID,
		Scope:     scope,
		Name:      name,
		Year:      cmd.Year,
		Status:    status,
		VoterIDs:  normalizeVoterIDs(cmd.VoterIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Cycles.CreateCycle(ctx, cycle); err != nil {
		return entities.Cycle{}, err
	}
	logger.Info("succession cycle created",
		"event", "succession_cycle_created",
		"module", "chapter-operations/succession-service",
		"layer", "application",
		"cycle_id", cycle.CycleID,
		"scope", cycle.Scope,
		"status", string(cycle.Status),
	)
	return cycle, nil
}

// TransitionCycle enforces the forward-only lattice and guards against
// concurrent transitions with a compare-and-set repository write.
func (uc CycleUseCase) TransitionCycle(ctx context.Context, cmd TransitionCycleCommand) (entities.Cycle, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.ToStatus.Valid() {
		return entities.Cycle{}, domainerrors.ErrInvalidCycleTransition
	}
	cycle, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cmd.CycleID))
	if err != nil {
		return entities.Cycle{}, err
	}
	if !cycle.Status.CanTransitionTo(cmd.ToStatus) {
		return entities.Cycle{}, domainerrors.ErrInvalidCycleTransition
	}
	if cmd.ToStatus == entities.CycleStatusActive {
		if active, found, err := uc.Cycles.GetActiveCycle(ctx, cycle.Scope); err != nil {
			return entities.Cycle{}, err
		} else if found && active.CycleID != cycle.CycleID {
			return entities.Cycle{}, domainerrors.ErrActiveCycleExists
		}
	}

	moved, err := uc.Cycles.TransitionCycleStatus(ctx, cycle.CycleID, cycle.Status, cmd.ToStatus)
	if err != nil {
		return entities.Cycle{}, err
	}
	if !moved {
		// A concurrent request already moved the cycle off the status we read.
		return entities.Cycle{}, domainerrors.ErrInvalidCycleTransition
	}

	from := cycle.Status
	cycle.Status = cmd.ToStatus
	cycle.UpdatedAt = uc.Clock.Now().UTC()
	logger.Info("succession cycle status changed",
		"event", "succession_cycle_status_changed",
		"module", "chapter-operations/succession-service",
		"layer", "application",
		"cycle_id", cycle.CycleID,
		"from_status", string(from),
		"to_status", string(cycle.Status),
	)
	return cycle, nil
}

// UpdateCommittee replaces the voter roster. Rosters are frozen once a cycle
// reaches completed/archived so recorded votes keep their eligibility context.
func (uc CycleUseCase) UpdateCommittee(ctx context.Context, cmd UpdateCommitteeCommand) (entities.Cycle, error) {
	logger := application.ResolveLogger(uc.Logger)
	cycle, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cmd.CycleID))
	if err != nil {
		return entities.Cycle{}, err
	}
	if cycle.Status != entities.CycleStatusDraft && cycle.Status != entities.CycleStatusActive {
		return entities.Cycle{}, domainerrors.ErrCycleNotEditable
	}
	voterIDs := normalizeVoterIDs(cmd.VoterIDs)
	if err := uc.Cycles.UpdateCommittee(ctx, cycle.CycleID, voterIDs); err != nil {
		return entities.Cycle{}, err
	}
	cycle.VoterIDs = voterIDs
	cycle.UpdatedAt = uc.Clock.Now().UTC()
	logger.Info("succession committee updated",
		"event", "succession_committee_updated",
		"module", "chapter-operations/succession-service",
		"layer", "application",
		"cycle_id", cycle.CycleID,
		"voter_count", len(voterIDs),
	)
	return cycle, nil
}

func normalizeVoterIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
