package queries

import (
	"context"
	"strings"

	"chapterhouse/contexts/chapter-operations/succession-service/domain/entities"
	"chapterhouse/contexts/chapter-operations/succession-service/ports"
)

type CatalogUseCase struct {
	Cycles    ports.CycleRepository
	Positions ports.PositionRepository
}

func (uc CatalogUseCase) GetCycle(ctx context.Context, cycleID string) (entities.Cycle, error) {
	return uc.Cycles.GetCycle(ctx, strings.TrimSpace(cycleID))
}

// GetActiveCycle is a pure read; absence is not an error.
func (uc CatalogUseCase) GetActiveCycle(ctx context.Context, scope string) (entities.Cycle, bool, error) {
	return uc.Cycles.GetActiveCycle(ctx, strings.TrimSpace(scope))
}

func (uc CatalogUseCase) ListCycles(ctx context.Context, scope string) ([]entities.Cycle, error) {
	return uc.Cycles.ListCycles(ctx, strings.TrimSpace(scope))
}

func (uc CatalogUseCase) ListPositions(ctx context.Context, cycleID string) ([]entities.Position, error) {
	if _, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cycleID)); err != nil {
		return nil, err
	}
	return uc.Positions.ListPositions(ctx, strings.TrimSpace(cycleID))
}
