package successionservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	successionservice "chapterhouse/contexts/chapter-operations/succession-service"
	"chapterhouse/contexts/chapter-operations/succession-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/succession-service/domain/errors"
	httptransport "chapterhouse/contexts/chapter-operations/succession-service/transport/http"
)

func TestCycleLifecycleFollowsLattice(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	module.Store.SetNow(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	cycle, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope: "chapter-atlanta",
		Name:  "2026 Officer Selection",
		Year:  2026,
	})
	require.NoError(t, err)
	require.Equal(t, "draft", cycle.Status)

	for _, next := range []string{"active", "completed", "archived"} {
		cycle, err = module.Handler.TransitionCycleHandler(ctx, cycle.CycleID, httptransport.TransitionCycleRequest{Status: next})
		require.NoError(t, err)
		require.Equal(t, next, cycle.Status)
	}

	_, err = module.Handler.TransitionCycleHandler(ctx, cycle.CycleID, httptransport.TransitionCycleRequest{Status: "active"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCycleTransition)
}

func TestDraftCycleCanBeArchivedDirectly(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	cycle, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope: "chapter-austin",
		Name:  "Abandoned Draft",
		Year:  2026,
	})
	require.NoError(t, err)

	archived, err := module.Handler.TransitionCycleHandler(ctx, cycle.CycleID, httptransport.TransitionCycleRequest{Status: "archived"})
	require.NoError(t, err)
	require.Equal(t, "archived", archived.Status)
}

func TestSingleActiveCyclePerScope(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	_, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope:  "chapter-denver",
		Name:   "2026 Selection",
		Year:   2026,
		Status: "active",
	})
	require.NoError(t, err)

	_, err = module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope:  "chapter-denver",
		Name:   "Parallel Selection",
		Year:   2026,
		Status: "active",
	})
	require.ErrorIs(t, err, domainerrors.ErrActiveCycleExists)

	// A different scope is unaffected.
	_, err = module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope:  "chapter-boise",
		Name:   "2026 Selection",
		Year:   2026,
		Status: "active",
	})
	require.NoError(t, err)

	// A draft in the same scope is also fine.
	draft, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope: "chapter-denver",
		Name:  "2027 Planning",
		Year:  2027,
	})
	require.NoError(t, err)

	// Activating the draft while the first cycle is still active is blocked.
	_, err = module.Handler.TransitionCycleHandler(ctx, draft.CycleID, httptransport.TransitionCycleRequest{Status: "active"})
	require.ErrorIs(t, err, domainerrors.ErrActiveCycleExists)
}

func TestGetActiveCycleAbsenceIsNotAnError(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	_, found, err := module.Handler.GetActiveCycleHandler(ctx, "chapter-nowhere")
	require.NoError(t, err)
	require.False(t, found)
}

func TestCommitteeRosterEditsAndDeduplication(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	cycle, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope:    "chapter-reno",
		Name:     "2026 Selection",
		Year:     2026,
		VoterIDs: []string{"member-1", "member-1", " member-2 "},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"member-1", "member-2"}, cycle.VoterIDs)

	cycle, err = module.Handler.UpdateCommitteeHandler(ctx, cycle.CycleID, httptransport.UpdateCommitteeRequest{
		VoterIDs: []string{"member-3", "member-4", "member-3"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"member-3", "member-4"}, cycle.VoterIDs)

	cycle, err = module.Handler.TransitionCycleHandler(ctx, cycle.CycleID, httptransport.TransitionCycleRequest{Status: "active"})
	require.NoError(t, err)
	_, err = module.Handler.TransitionCycleHandler(ctx, cycle.CycleID, httptransport.TransitionCycleRequest{Status: "completed"})
	require.NoError(t, err)

	_, err = module.Handler.UpdateCommitteeHandler(ctx, cycle.CycleID, httptransport.UpdateCommitteeRequest{
		VoterIDs: []string{"member-5"},
	})
	require.ErrorIs(t, err, domainerrors.ErrCycleNotEditable)
}

func TestCreatePositionValidation(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	cycle, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope: "chapter-omaha",
		Name:  "2026 Selection",
		Year:  2026,
	})
	require.NoError(t, err)

	_, err = module.Handler.CreatePositionHandler(ctx, cycle.CycleID, httptransport.CreatePositionRequest{
		Title:          "President",
		HierarchyLevel: 1,
		Openings:       0,
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidPositionInput)

	position, err := module.Handler.CreatePositionHandler(ctx, cycle.CycleID, httptransport.CreatePositionRequest{
		Title:          "President",
		HierarchyLevel: 1,
		Openings:       1,
	})
	require.NoError(t, err)
	require.True(t, position.Active)
}

func TestListPositionsOrderedByHierarchy(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	cycle, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope: "chapter-tulsa",
		Name:  "2026 Selection",
		Year:  2026,
	})
	require.NoError(t, err)

	for _, spec := range []struct {
		title string
		level int
	}{
		{"Treasurer", 3},
		{"President", 1},
		{"Vice President", 2},
	} {
		_, err = module.Handler.CreatePositionHandler(ctx, cycle.CycleID, httptransport.CreatePositionRequest{
			Title:          spec.title,
			HierarchyLevel: spec.level,
			Openings:       1,
		})
		require.NoError(t, err)
	}

	listed, err := module.Handler.ListPositionsHandler(ctx, cycle.CycleID)
	require.NoError(t, err)
	require.Len(t, listed.Items, 3)
	require.Equal(t, "President", listed.Items[0].Title)
	require.Equal(t, "Vice President", listed.Items[1].Title)
	require.Equal(t, "Treasurer", listed.Items[2].Title)
}

func TestTogglePositionIsIdempotent(t *testing.T) {
	module := successionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	cycle, err := module.Handler.CreateCycleHandler(ctx, httptransport.CreateCycleRequest{
		Scope: "chapter-fargo",
		Name:  "2026 Selection",
		Year:  2026,
	})
	require.NoError(t, err)
	position, err := module.Handler.CreatePositionHandler(ctx, cycle.CycleID, httptransport.CreatePositionRequest{
		Title:          "Secretary",
		HierarchyLevel: 4,
		Openings:       1,
	})
	require.NoError(t, err)

	deactivated, err := module.Handler.TogglePositionHandler(ctx, position.PositionID, httptransport.TogglePositionRequest{Active: false})
	require.NoError(t, err)
	require.False(t, deactivated.Active)

	again, err := module.Handler.TogglePositionHandler(ctx, position.PositionID, httptransport.TogglePositionRequest{Active: false})
	require.NoError(t, err)
	require.False(t, again.Active)
}

func TestCycleStatusLatticeTable(t *testing.T) {
	cases := []struct {
		from    entities.CycleStatus
		to      entities.CycleStatus
		allowed bool
	}{
		{entities.CycleStatusDraft, entities.CycleStatusActive, true},
		{entities.CycleStatusDraft, entities.CycleStatusArchived, true},
		{entities.CycleStatusDraft, entities.CycleStatusCompleted, false},
		{entities.CycleStatusActive, entities.CycleStatusCompleted, true},
		{entities.CycleStatusActive, entities.CycleStatusDraft, false},
		{entities.CycleStatusCompleted, entities.CycleStatusArchived, true},
		{entities.CycleStatusCompleted, entities.CycleStatusActive, false},
		{entities.CycleStatusArchived, entities.CycleStatusDraft, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
