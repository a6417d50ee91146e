package outreachservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	outreachservice "chapterhouse/contexts/chapter-operations/outreach-service"
	domainerrors "chapterhouse/contexts/chapter-operations/outreach-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/outreach-service/ports"
	httptransport "chapterhouse/contexts/chapter-operations/outreach-service/transport/http"
)

func seedOutreachModule() outreachservice.Module {
	module := outreachservice.NewInMemoryModule(nil)
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

func TestRecordApproachRequiresActiveCycleAndPosition(t *testing.T) {
	module := seedOutreachModule()
	ctx := context.Background()

	approach, err := module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
		Notes:       "spoke after the spring meeting",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", approach.Status)

	module.Store.SetCycle(ports.CycleProjection{
		CycleID: "cycle-2",
		Scope:   "chapter-atlanta",
		Status:  "draft",
	})
	_, err = module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
		CycleID:     "cycle-2",
		PositionID:  "position-1",
		CandidateID: "member-11",
	})
	require.ErrorIs(t, err, domainerrors.ErrCycleNotFound)

	module.Store.SetPosition(ports.PositionProjection{
		PositionID: "position-2",
		CycleID:    "cycle-1",
		Title:      "Secretary",
		Active:     false,
	})
	_, err = module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-2",
		CandidateID: "member-11",
	})
	require.ErrorIs(t, err, domainerrors.ErrPositionNotFound)
}

func TestResponseIsWriteOnceUntilOverridden(t *testing.T) {
	module := seedOutreachModule()
	ctx := context.Background()

	approach, err := module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
	})
	require.NoError(t, err)

	declined, err := module.Handler.RecordResponseHandler(ctx, approach.ApproachID, httptransport.RecordResponseRequest{
		Status: "declined",
	})
	require.NoError(t, err)
	require.Equal(t, "declined", declined.Status)
	require.NotEmpty(t, declined.RespondedAt)

	// The candidate changes their mind, but the plain response path is
	// write-once.
	_, err = module.Handler.RecordResponseHandler(ctx, approach.ApproachID, httptransport.RecordResponseRequest{
		Status: "accepted",
	})
	require.ErrorIs(t, err, domainerrors.ErrResponseAlreadySet)

	// An administrator can correct the record.
	overridden, err := module.Handler.OverrideResponseHandler(ctx, approach.ApproachID, "admin-1", httptransport.OverrideResponseRequest{
		Status: "accepted",
	})
	require.NoError(t, err)
	require.Equal(t, "accepted", overridden.Status)
}

func TestRecordResponseRejectsPendingAsTarget(t *testing.T) {
	module := seedOutreachModule()
	ctx := context.Background()

	approach, err := module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
	})
	require.NoError(t, err)

	_, err = module.Handler.RecordResponseHandler(ctx, approach.ApproachID, httptransport.RecordResponseRequest{
		Status: "pending",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidApproachInput)
}

func TestOutreachStatsComputedOnRead(t *testing.T) {
	module := seedOutreachModule()
	ctx := context.Background()

	responses := []string{"accepted", "accepted", "declined", "conditional", ""}
	for i, status := range responses {
		approach, err := module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
			CycleID:     "cycle-1",
			PositionID:  "position-1",
			CandidateID: "member-" + string(rune('a'+i)),
		})
		require.NoError(t, err)
		if status == "" {
			continue
		}
		_, err = module.Handler.RecordResponseHandler(ctx, approach.ApproachID, httptransport.RecordResponseRequest{
			Status: status,
		})
		require.NoError(t, err)
	}

	stats, err := module.Handler.StatsHandler(ctx, "cycle-1", "")
	require.NoError(t, err)
	require.Equal(t, 5, stats.Total)
	require.Equal(t, 1, stats.Pending)
	require.Equal(t, 2, stats.Accepted)
	require.Equal(t, 1, stats.Declined)
	require.Equal(t, 1, stats.Conditional)
	require.InDelta(t, 0.4, stats.AcceptanceRate, 1e-9)
}

func TestListApproachesFiltersByStatus(t *testing.T) {
	module := seedOutreachModule()
	ctx := context.Background()

	first, err := module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-10",
	})
	require.NoError(t, err)
	_, err = module.Handler.RecordApproachHandler(ctx, httptransport.RecordApproachRequest{
		CycleID:     "cycle-1",
		PositionID:  "position-1",
		CandidateID: "member-11",
	})
	require.NoError(t, err)
	_, err = module.Handler.RecordResponseHandler(ctx, first.ApproachID, httptransport.RecordResponseRequest{
		Status: "accepted",
	})
	require.NoError(t, err)

	accepted, err := module.Handler.ListApproachesHandler(ctx, "cycle-1", "", "accepted")
	require.NoError(t, err)
	require.Len(t, accepted.Items, 1)
	require.Equal(t, "member-10", accepted.Items[0].CandidateID)

	all, err := module.Handler.ListApproachesHandler(ctx, "cycle-1", "", "")
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
}
