package nominationservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	nominationservice "chapterhouse/contexts/chapter-operations/nomination-service"
	domainerrors "chapterhouse/contexts/chapter-operations/nomination-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/nomination-service/ports"
	httptransport "chapterhouse/contexts/chapter-operations/nomination-service/transport/http"
)

func seedNominationModule() nominationservice.Module {
	module := nominationservice.NewInMemoryModule(nil)
	module.Store.SetCycle(ports.CycleProjection{
		CycleID: "cycle-1",
		Scope:   "chapter-atlanta",
		Status:  "active",
	})
	module.Store.SetPosition(ports.PositionProjection{
		PositionID: "position-1",
		CycleID:    "cycle-1",
		Title:      "President",
		Active:     true,
	})
	return module
}

func TestSubmitNominationStartsSubmitted(t *testing.T) {
	module := seedNominationModule()
	ctx := context.Background()

	score := 85.0
	nomination, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
		Reason:      "led the mentorship program for two years",
		Score:       &score,
	})
	require.NoError(t, err)
	require.Equal(t, "submitted", nomination.Status)
	require.NotEmpty(t, nomination.NominationID)
}

func TestSubmitNominationValidatesScoreBounds(t *testing.T) {
	module := seedNominationModule()
	ctx := context.Background()

	for _, score := range []float64{-1, 100.5} {
		value := score
		_, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
			CycleID:     "cycle-1",
			PositionID:  "position-1",
			CandidateID: "member-10",
			Reason:      "strong record",
			Score:       &value,
		})
		require.ErrorIs(t, err, domainerrors.ErrInvalidNominationInput)
	}
}

func TestSubmitNominationChecksApproachOrigin(t *testing.T) {
	module := seedNominationModule()
	ctx := context.Background()

	module.Store.SetApproach(ports.ApproachProjection{
		ApproachID:  "approach-1",
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
		Status:      "accepted",
	})

	// Matching origin is accepted.
	_, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
		ApproachID:  "approach-1",
		Reason:      "accepted our approach in March",
	})
	require.NoError(t, err)

	// Same approach claimed for a different candidate is rejected.
	_, err = module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-99",
		ApproachID:  "approach-1",
		Reason:      "tries to reuse another member's approach",
	})
	require.ErrorIs(t, err, domainerrors.ErrApproachMismatch)
}

func TestSubmitNominationRequiresActiveCycle(t *testing.T) {
	module := seedNominationModule()
	ctx := context.Background()

	module.Store.SetCycle(ports.CycleProjection{
		CycleID: "cycle-done",
		Scope:   "chapter-atlanta",
		Status:  "completed",
	})
	_, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-done",
		PositionID:  "position-1",
		CandidateID: "member-10",
		Reason:      "late entry",
	})
	require.ErrorIs(t, err, domainerrors.ErrCycleNotFound)
}

func TestReviewIsSingleShot(t *testing.T) {
	module := seedNominationModule()
	ctx := context.Background()

	nomination, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
		Reason:      "strong record",
	})
	require.NoError(t, err)

	approved, err := module.Handler.ReviewNominationHandler(ctx, nomination.NominationID, "reviewer-1", httptransport.ReviewNominationRequest{
		Decision: "approve",
	})
	require.NoError(t, err)
	require.Equal(t, "approved", approved.Status)
	require.Equal(t, "reviewer-1", approved.ReviewedBy)
	require.NotEmpty(t, approved.ReviewedAt)

	_, err = module.Handler.ReviewNominationHandler(ctx, nomination.NominationID, "reviewer-2", httptransport.ReviewNominationRequest{
		Decision: "reject",
	})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyReviewed)
}

func TestReviewRejectsUnknownDecision(t *testing.T) {
	module := seedNominationModule()
	ctx := context.Background()

	nomination, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
		Reason:      "strong record",
	})
	require.NoError(t, err)

	_, err = module.Handler.ReviewNominationHandler(ctx, nomination.NominationID, "reviewer-1", httptransport.ReviewNominationRequest{
		Decision: "defer",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidNominationInput)
}

func TestListApprovedReturnsOnlyApproved(t *testing.T) {
	module := seedNominationModule()
	ctx := context.Background()

	first, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
		Reason:      "strong record",
	})
	require.NoError(t, err)
	second, err := module.Handler.SubmitNominationHandler(ctx, httptransport.SubmitNominationRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-11",
		Reason:      "also a strong record",
	})
	require.NoError(t, err)

	_, err = module.Handler.ReviewNominationHandler(ctx, first.NominationID, "reviewer-1", httptransport.ReviewNominationRequest{Decision: "approve"})
	require.NoError(t, err)
	_, err = module.Handler.ReviewNominationHandler(ctx, second.NominationID, "reviewer-1", httptransport.ReviewNominationRequest{Decision: "reject"})
	require.NoError(t, err)

	approved, err := module.Handler.ListApprovedHandler(ctx, "cycle-1")
	require.NoError(t, err)
	require.Len(t, approved.Items, 1)
	require.Equal(t, "member-10", approved.Items[0].CandidateID)
}
