package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"chapterhouse/contexts/chapter-operations/succession-service/application/commands"
	"chapterhouse/contexts/chapter-operations/succession-service/application/queries"
	"chapterhouse/contexts/chapter-operations/succession-service/domain/entities"
	httptransport "chapterhouse/contexts/chapter-operations/succession-service/transport/http"
)

type Handler struct {
	Cycles    commands.CycleUseCase
	Positions commands.PositionUseCase
	Catalog   queries.CatalogUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateCycleHandler(ctx context.Context, req httptransport.CreateCycleRequest) (httptransport.CycleResponse, error) {
	cycle, err := h.Cycles.CreateCycle(ctx, commands.CreateCycleCommand{
		Scope:    req.Scope,
		Name:     req.Name,
		Year:     req.Year,
		Status:   entities.CycleStatus(req.Status),
		VoterIDs: req.VoterIDs,
	})
	if err != nil {
		return httptransport.CycleResponse{}, err
	}
	return mapCycle(cycle), nil
}

func (h Handler) TransitionCycleHandler(ctx context.Context, cycleID string, req httptransport.TransitionCycleRequest) (httptransport.CycleResponse, error) {
	cycle, err := h.Cycles.TransitionCycle(ctx, commands.TransitionCycleCommand{
		CycleID:  cycleID,
		ToStatus: entities.CycleStatus(req.Status),
	})
	if err != nil {
		return httptransport.CycleResponse{}, err
	}
	return mapCycle(cycle), nil
}

func (h Handler) UpdateCommitteeHandler(ctx context.Context, cycleID string, req httptransport.UpdateCommitteeRequest) (httptransport.CycleResponse, error) {
	cycle, err := h.Cycles.UpdateCommittee(ctx, commands.UpdateCommitteeCommand{
		CycleID:  cycleID,
		VoterIDs: req.VoterIDs,
	})
	if err != nil {
		return httptransport.CycleResponse{}, err
	}
	return mapCycle(cycle), nil
}

func (h Handler) GetCycleHandler(ctx context.Context, cycleID string) (httptransport.CycleResponse, error) {
	cycle, err := h.Catalog.GetCycle(ctx, cycleID)
	if err != nil {
		return httptransport.CycleResponse{}, err
	}
	return mapCycle(cycle), nil
}

// GetActiveCycleHandler returns found=false without error when no cycle is
// active in the scope; absence is a normal read result.
func (h Handler) GetActiveCycleHandler(ctx context.Context, scope string) (httptransport.CycleResponse, bool, error) {
	cycle, found, err := h.Catalog.GetActiveCycle(ctx, scope)
	if err != nil || !found {
		return httptransport.CycleResponse{}, found, err
	}
	return mapCycle(cycle), true, nil
}

func (h Handler) ListCyclesHandler(ctx context.Context, scope string) (httptransport.CycleListResponse, error) {
	cycles, err := h.Catalog.ListCycles(ctx, scope)
	if err != nil {
		return httptransport.CycleListResponse{}, err
	}
	items := make([]httptransport.CycleResponse, 0, len(cycles))
	for _, cycle := range cycles {
		items = append(items, mapCycle(cycle))
	}
	return httptransport.CycleListResponse{Items: items}, nil
}

func (h Handler) CreatePositionHandler(ctx context.Context, cycleID string, req httptransport.CreatePositionRequest) (httptransport.PositionResponse, error) {
	position, err := h.Positions.CreatePosition(ctx, commands.CreatePositionCommand{
		CycleID:        cycleID,
		Title:          req.Title,
		HierarchyLevel: req.HierarchyLevel,
		Openings:       req.Openings,
	})
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return mapPosition(position), nil
}

func (h Handler) TogglePositionHandler(ctx context.Context, positionID string, req httptransport.TogglePositionRequest) (httptransport.PositionResponse, error) {
	position, err := h.Positions.TogglePosition(ctx, commands.TogglePositionCommand{
		PositionID: positionID,
		Active:     req.Active,
	})
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return mapPosition(position), nil
}

func (h Handler) ListPositionsHandler(ctx context.Context, cycleID string) (httptransport.PositionListResponse, error) {
	positions, err := h.Catalog.ListPositions(ctx, cycleID)
	if err != nil {
		return httptransport.PositionListResponse{}, err
	}
	items := make([]httptransport.PositionResponse, 0, len(positions))
	for _, position := range positions {
		items = append(items, mapPosition(position))
	}
	return httptransport.PositionListResponse{Items: items}, nil
}

func mapCycle(cycle entities.Cycle) httptransport.CycleResponse {
	return httptransport.CycleResponse{
		CycleID:   cycle.CycleID,
		Scope:     cycle.Scope,
		Name:      cycle.Name,
		Year:      cycle.Year,
		Status:    string(cycle.Status),
		VoterIDs:  cycle.VoterIDs,
		CreatedAt: cycle.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cycle.UpdatedAt.Format(time.RFC3339),
	}
}

func mapPosition(position entities.Position) httptransport.PositionResponse {
	return httptransport.PositionResponse{
		PositionID:     position.PositionID,
		CycleID:        position.CycleID,
		Title:          position.Title,
		HierarchyLevel: position.HierarchyLevel,
		Openings:       position.Openings,
		Active:         position.Active,
		CreatedAt:      position.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      position.UpdatedAt.Format(time.RFC3339),
	}
}
