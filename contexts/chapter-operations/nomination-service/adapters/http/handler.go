package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"chapterhouse/contexts/chapter-operations/nomination-service/application/commands"
	"chapterhouse/contexts/chapter-operations/nomination-service/application/queries"
	"chapterhouse/contexts/chapter-operations/nomination-service/domain/entities"
	"chapterhouse/contexts/chapter-operations/nomination-service/ports"
	httptransport "chapterhouse/contexts/chapter-operations/nomination-service/transport/http"
)

type Handler struct {
	Nominations commands.NominationUseCase
	Listings    queries.NominationListUseCase
	Logger      *slog.Logger
}

func (h Handler) SubmitNominationHandler(ctx context.Context, req httptransport.SubmitNominationRequest) (httptransport.NominationResponse, error) {
	nomination, err := h.Nominations.SubmitNomination(ctx, commands.SubmitNominationCommand{
		CycleID:     req.CycleID,
		PositionID:  req.PositionID,
		CandidateID: req.CandidateID,
		ApproachID:  req.ApproachID,
		Reason:      req.Reason,
		Score:       req.Score,
	})
	if err != nil {
		return httptransport.NominationResponse{}, err
	}
	return mapNomination(nomination), nil
}

func (h Handler) ReviewNominationHandler(ctx context.Context, nominationID string, reviewerID string, req httptransport.ReviewNominationRequest) (httptransport.NominationResponse, error) {
	nomination, err := h.Nominations.ReviewNomination(ctx, commands.ReviewNominationCommand{
		NominationID: nominationID,
		Decision:     commands.ReviewDecision(req.Decision),
		ReviewerID:   reviewerID,
	})
	if err != nil {
		return httptransport.NominationResponse{}, err
	}
	return mapNomination(nomination), nil
}

func (h Handler) ListNominationsHandler(ctx context.Context, cycleID, positionID, status string) (httptransport.NominationListResponse, error) {
	nominations, err := h.Listings.ListNominations(ctx, ports.NominationFilter{
		CycleID:    cycleID,
		PositionID: positionID,
		Status:     entities.NominationStatus(status),
	})
	if err != nil {
		return httptransport.NominationListResponse{}, err
	}
	return mapNominationList(nominations), nil
}

func (h Handler) ListApprovedHandler(ctx context.Context, cycleID string) (httptransport.NominationListResponse, error) {
	nominations, err := h.Listings.ListApproved(ctx, cycleID)
	if err != nil {
		return httptransport.NominationListResponse{}, err
	}
	return mapNominationList(nominations), nil
}

func mapNominationList(nominations []entities.Nomination) httptransport.NominationListResponse {
	items := make([]httptransport.NominationResponse, 0, len(nominations))
	for _, nomination := range nominations {
		items = append(items, mapNomination(nomination))
	}
	return httptransport.NominationListResponse{Items: items}
}

func mapNomination(nomination entities.Nomination) httptransport.NominationResponse {
	resp := httptransport.NominationResponse{
		NominationID: nomination.NominationID,
		CycleID:      nomination.CycleID,
		PositionID:   nomination.PositionID,
		CandidateID:  nomination.CandidateID,
		ApproachID:   nomination.ApproachID,
		Reason:       nomination.Reason,
		Score:        nomination.Score,
		Status:       string(nomination.Status),
		ReviewedBy:   nomination.ReviewedBy,
		CreatedAt:    nomination.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    nomination.UpdatedAt.Format(time.RFC3339),
	}
	if nomination.ReviewedAt != nil {
		resp.ReviewedAt = nomination.ReviewedAt.Format(time.RFC3339)
	}
	return resp
}
