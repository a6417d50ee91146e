package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chapterhouse/contexts/chapter-operations/ballot-engine/adapters/memory"
	"chapterhouse/contexts/chapter-operations/ballot-engine/application/commands"
	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

// staleReadVotes reports "no prior vote" on its first read and delegates
// afterwards, reproducing the window where two first votes for the same
// identity tuple race and one insert lands on the other's row.
type staleReadVotes struct {
	ports.VoteRepository
	reads int
}

func (r *staleReadVotes) GetVote(ctx context.Context, meetingID, voterID, nomineeID string) (entities.Vote, bool, error) {
	r.reads++
	if r.reads == 1 {
		return entities.Vote{}, false, nil
	}
	return r.VoteRepository.GetVote(ctx, meetingID, voterID, nomineeID)
}

func TestCastVoteInsertRaceReturnsStoredRow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SetCycle(ports.CycleProjection{
		CycleID:  "cycle-1",
		Scope:    "chapter-atlanta",
		Status:   "active",
		VoterIDs: []string{"voter-1"},
	})
	store.SetPosition(ports.PositionProjection{
		PositionID:     "position-president",
		CycleID:        "cycle-1",
		Title:          "President",
		HierarchyLevel: 1,
		Openings:       1,
		Active:         true,
	})
	store.SetNomination(ports.NominationProjection{
		NominationID: "nomination-ann",
		CycleID:      "cycle-1",
		PositionID:   "position-president",
		NomineeID:    "member-ann",
		Status:       "approved",
		SubmittedAt:  time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	})

	meetings := commands.MeetingUseCase{Meetings: store, Cycles: store, Clock: store, IDGen: store}
	meeting, err := meetings.ScheduleMeeting(ctx, commands.ScheduleMeetingCommand{
		CycleID:     "cycle-1",
		Type:        entities.MeetingFinalSelection,
		MeetingDate: time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC),
		Location:    "chapter house library",
	})
	require.NoError(t, err)

	// The concurrent winner's row already exists.
	winner := commands.VoteUseCase{
		Meetings: store, Votes: store, Cycles: store, Nominations: store,
		Outbox: store, Clock: store, IDGen: store,
	}
	existing, err := winner.CastVote(ctx, commands.CastVoteCommand{
		MeetingID: meeting.MeetingID,
		VoterID:   "voter-1",
		NomineeID: "member-ann",
		Choice:    entities.VoteYes,
	})
	require.NoError(t, err)

	// The loser read before the winner committed, so its prior check came
	// back empty.
	loser := commands.VoteUseCase{
		Meetings: store, Votes: &staleReadVotes{VoteRepository: store}, Cycles: store,
		Nominations: store, Outbox: store, Clock: store, IDGen: store,
	}
	vote, err := loser.CastVote(ctx, commands.CastVoteCommand{
		MeetingID: meeting.MeetingID,
		VoterID:   "voter-1",
		NomineeID: "member-ann",
		Choice:    entities.VoteNo,
	})
	require.NoError(t, err)

	// The response reflects the stored row, not the id that lost the insert.
	require.Equal(t, existing.VoteID, vote.VoteID)
	require.Equal(t, existing.CreatedAt, vote.CreatedAt)
	require.Equal(t, entities.VoteNo, vote.Choice)

	stored, found, err := store.GetVote(ctx, meeting.MeetingID, "voter-1", "member-ann")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, existing.VoteID, stored.VoteID)
	require.Equal(t, entities.VoteNo, stored.Choice)

	// The replacement is announced as a change, not a second cast.
	pending, err := store.ListPendingOutbox(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, commands.EventVoteCast, pending[0].EventType)
	require.Equal(t, commands.EventVoteChanged, pending[1].EventType)
}
