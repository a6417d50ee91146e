package commands

import (
	"context"
	"log/slog"
	"strings"

	application "chapterhouse/contexts/chapter-operations/nomination-service/application"
	"chapterhouse/contexts/chapter-operations/nomination-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/nomination-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/nomination-service/ports"
)

type SubmitNominationCommand struct {
	CycleID     string
	PositionID  string
	CandidateID string
	ApproachID  string
	Reason      string
	Score       *float64
}

type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

type ReviewNominationCommand struct {
	NominationID string
	Decision     ReviewDecision
	ReviewerID   string
}

type NominationUseCase struct {
	Nominations ports.NominationRepository
	Cycles      ports.CycleReader
	Positions   ports.PositionReader
	Approaches  ports.ApproachReader
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

// SubmitNomination creates a candidacy in submitted status. When the
// nomination claims an originating approach, that approach must belong to the
// same cycle, position, and candidate.
func (uc NominationUseCase) SubmitNomination(ctx context.Context, cmd SubmitNominationCommand) (entities.Nomination, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.CandidateID) == "" || strings.TrimSpace(cmd.Reason) == "" {
		return entities.Nomination{}, domainerrors.ErrInvalidNominationInput
	}
	if cmd.Score != nil && (*cmd.Score < 0 || *cmd.Score > 100) {
		return entities.Nomination{}, domainerrors.ErrInvalidNominationInput
	}

	cycle, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cmd.CycleID))
	if err != nil {
		return entities.Nomination{}, err
	}
	if !strings.EqualFold(cycle.Status, "active") {
		return entities.Nomination{}, domainerrors.ErrCycleNotFound
	}
	position, err := uc.Positions.GetPosition(ctx, strings.TrimSpace(cmd.PositionID))
	if err != nil {
		return entities.Nomination{}, err
	}
	if position.CycleID != cycle.CycleID || !position.Active {
		return entities.Nomination{}, domainerrors.ErrPositionNotFound
	}

	approachID := strings.TrimSpace(cmd.ApproachID)
	if approachID != "" {
		approach, err := uc.Approaches.GetApproach(ctx, approachID)
		if err != nil {
			return entities.Nomination{}, err
		}
		if approach.CycleID != cycle.CycleID ||
			approach.PositionID != position.PositionID ||
			approach.CandidateID != strings.TrimSpace(cmd.CandidateID) {
			return entities.Nomination{}, domainerrors.ErrApproachMismatch
		}
	}

	now := uc.Clock.Now().UTC()
	nominationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Nomination{}, err
	}
	nomination := entities.Nomination{
		NominationID: nominationID,
		CycleID:      cycle.CycleID,
		PositionID:   position.PositionID,
		CandidateID:  strings.TrimSpace(cmd.CandidateID),
		ApproachID:   approachID,
		Reason:       strings.TrimSpace(cmd.Reason),
		Score:        cmd.Score,
		Status:       entities.NominationSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Nominations.SaveNomination(ctx, nomination); err != nil {
		return entities.Nomination{}, err
	}
	logger.Info("nomination submitted",
		"event", "nomination_submitted",
		"module", "chapter-operations/nomination-service",
		"layer", "application",
		"nomination_id", nomination.NominationID,
		"cycle_id", nomination.CycleID,
		"position_id", nomination.PositionID,
		"candidate_id", nomination.CandidateID,
	)
	return nomination, nil
}

// ReviewNomination moves a submitted nomination to approved or rejected. The
// repository write is guarded on submitted status so concurrent reviews
// cannot both apply.
func (uc NominationUseCase) ReviewNomination(ctx context.Context, cmd ReviewNominationCommand) (entities.Nomination, error) {
	logger := application.ResolveLogger(uc.Logger)
	var target entities.NominationStatus
	switch cmd.Decision {
	case DecisionApprove:
		target = entities.NominationApproved
	case DecisionReject:
		target = entities.NominationRejected
	default:
		return entities.Nomination{}, domainerrors.ErrInvalidNominationInput
	}
	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	if reviewerID == "" {
		return entities.Nomination{}, domainerrors.ErrInvalidNominationInput
	}

	nomination, err := uc.Nominations.GetNomination(ctx, strings.TrimSpace(cmd.NominationID))
	if err != nil {
		return entities.Nomination{}, err
	}
	if nomination.Status != entities.NominationSubmitted {
		return entities.Nomination{}, domainerrors.ErrAlreadyReviewed
	}

	now := uc.Clock.Now().UTC()
	reviewed, err := uc.Nominations.Review(ctx, nomination.NominationID, target, reviewerID, now)
	if err != nil {
		return entities.Nomination{}, err
	}
	if !reviewed {
		return entities.Nomination{}, domainerrors.ErrAlreadyReviewed
	}

	nomination.Status = target
	nomination.ReviewedBy = reviewerID
	nomination.ReviewedAt = &now
	nomination.UpdatedAt = now
	logger.Info("nomination reviewed",
		"event", "nomination_reviewed",
		"module", "chapter-operations/nomination-service",
		"layer", "application",
		"nomination_id", nomination.NominationID,
		"decision", string(cmd.Decision),
		"reviewer_id", reviewerID,
	)
	return nomination, nil
}
