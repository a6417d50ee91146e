package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"chapterhouse/contexts/chapter-operations/outreach-service/application/commands"
	"chapterhouse/contexts/chapter-operations/outreach-service/application/queries"
	"chapterhouse/contexts/chapter-operations/outreach-service/domain/entities"
	"chapterhouse/contexts/chapter-operations/outreach-service/ports"
	httptransport "chapterhouse/contexts/chapter-operations/outreach-service/transport/http"
)

type Handler struct {
	Approaches commands.ApproachUseCase
	Listings   queries.ApproachListUseCase
	Logger     *slog.Logger
}

func (h Handler) RecordApproachHandler(ctx context.Context, req httptransport.RecordApproachRequest) (httptransport.ApproachResponse, error) {
	approach, err := h.Approaches.RecordApproach(ctx, commands.RecordApproachCommand{
		CycleID:     req.CycleID,
		PositionID:  req.PositionID,
		CandidateID: req.CandidateID,
		Notes:       req.Notes,
	})
	if err != nil {
		return httptransport.ApproachResponse{}, err
	}
	return mapApproach(approach), nil
}

func (h Handler) RecordResponseHandler(ctx context.Context, approachID string, req httptransport.RecordResponseRequest) (httptransport.ApproachResponse, error) {
	approach, err := h.Approaches.RecordResponse(ctx, commands.RecordResponseCommand{
		ApproachID: approachID,
		Status:     entities.ResponseStatus(req.Status),
	})
	if err != nil {
		return httptransport.ApproachResponse{}, err
	}
	return mapApproach(approach), nil
}

func (h Handler) OverrideResponseHandler(ctx context.Context, approachID string, actorID string, req httptransport.OverrideResponseRequest) (httptransport.ApproachResponse, error) {
	approach, err := h.Approaches.OverrideResponse(ctx, commands.OverrideResponseCommand{
		ApproachID: approachID,
		Status:     entities.ResponseStatus(req.Status),
		ActorID:    actorID,
	})
	if err != nil {
		return httptransport.ApproachResponse{}, err
	}
	return mapApproach(approach), nil
}

func (h Handler) ListApproachesHandler(ctx context.Context, cycleID, positionID, status string) (httptransport.ApproachListResponse, error) {
	approaches, err := h.Listings.ListApproaches(ctx, ports.ApproachFilter{
		CycleID:    cycleID,
		PositionID: positionID,
		Status:     entities.ResponseStatus(status),
	})
	if err != nil {
		return httptransport.ApproachListResponse{}, err
	}
	items := make([]httptransport.ApproachResponse, 0, len(approaches))
	for _, approach := range approaches {
		items = append(items, mapApproach(approach))
	}
	return httptransport.ApproachListResponse{Items: items}, nil
}

func (h Handler) StatsHandler(ctx context.Context, cycleID, positionID string) (httptransport.OutreachStatsResponse, error) {
	stats, err := h.Listings.Stats(ctx, cycleID, positionID)
	if err != nil {
		return httptransport.OutreachStatsResponse{}, err
	}
	return httptransport.OutreachStatsResponse{
		Total:          stats.Total,
		Pending:        stats.Pending,
		Accepted:       stats.Accepted,
		Declined:       stats.Declined,
		Conditional:    stats.Conditional,
		AcceptanceRate: stats.AcceptanceRate,
	}, nil
}

func mapApproach(approach entities.Approach) httptransport.ApproachResponse {
	resp := httptransport.ApproachResponse{
		ApproachID:  approach.ApproachID,
		CycleID:     approach.CycleID,
		PositionID:  approach.PositionID,
		CandidateID: approach.CandidateID,
		Status:      string(approach.Status),
		Notes:       approach.Notes,
		CreatedAt:   approach.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   approach.UpdatedAt.Format(time.RFC3339),
	}
	if approach.RespondedAt != nil {
		resp.RespondedAt = approach.RespondedAt.Format(time.RFC3339)
	}
	return resp
}
