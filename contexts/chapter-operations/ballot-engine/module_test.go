package ballotengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ballotengine "chapterhouse/contexts/chapter-operations/ballot-engine"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
	httptransport "chapterhouse/contexts/chapter-operations/ballot-engine/transport/http"
)

type capturePublisher struct {
	topics []string
	events []ports.EventEnvelope
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func seedBallotModule(publisher ports.EventPublisher) ballotengine.Module {
	module := ballotengine.NewInMemoryModule(nil, publisher)
	module.Store.SetCycle(ports.CycleProjection{
		CycleID:  "cycle-1",
		Scope:    "chapter-atlanta",
		Status:   "active",
		VoterIDs: []string{"voter-1", "voter-2", "voter-3", "voter-4", "voter-5"},
	})
	module.Store.SetPosition(ports.PositionProjection{
		PositionID:     "position-president",
		CycleID:        "cycle-1",
		Title:          "President",
		HierarchyLevel: 1,
		Openings:       1,
		Active:         true,
	})
	module.Store.SetNomination(ports.NominationProjection{
		NominationID: "nomination-ann",
		CycleID:      "cycle-1",
		PositionID:   "position-president",
		NomineeID:    "member-ann",
		Status:       "approved",
		SubmittedAt:  time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	})
	module.Store.SetNomination(ports.NominationProjection{
		NominationID: "nomination-bob",
		CycleID:      "cycle-1",
		PositionID:   "position-president",
		NomineeID:    "member-bob",
		Status:       "approved",
		SubmittedAt:  time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
	})
	return module
}

func scheduleMeeting(t *testing.T, module ballotengine.Module, meetingType string) httptransport.MeetingResponse {
	t.Helper()
	meeting, err := module.Handler.ScheduleMeetingHandler(context.Background(), httptransport.ScheduleMeetingRequest{
		CycleID:     "cycle-1",
		MeetingType: meetingType,
		MeetingDate: "2026-05-10T18:00:00Z",
		Location:    "chapter house library",
	})
	require.NoError(t, err)
	return meeting
}

func TestScheduleMeetingNeedsVenue(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()

	_, err := module.Handler.ScheduleMeetingHandler(ctx, httptransport.ScheduleMeetingRequest{
		CycleID:     "cycle-1",
		MeetingType: "final_selection",
		MeetingDate: "2026-05-10T18:00:00Z",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidMeetingInput)

	// A meeting link alone is enough.
	meeting, err := module.Handler.ScheduleMeetingHandler(ctx, httptransport.ScheduleMeetingRequest{
		CycleID:     "cycle-1",
		MeetingType: "final_selection",
		MeetingDate: "2026-05-10T18:00:00Z",
		MeetingLink: "https://meet.example.org/selection",
	})
	require.NoError(t, err)
	require.Equal(t, "scheduled", meeting.Status)
}

func TestScheduleMeetingRequiresActiveCycle(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	module.Store.SetCycle(ports.CycleProjection{
		CycleID: "cycle-closed",
		Scope:   "chapter-atlanta",
		Status:  "completed",
	})

	_, err := module.Handler.ScheduleMeetingHandler(context.Background(), httptransport.ScheduleMeetingRequest{
		CycleID:     "cycle-closed",
		MeetingType: "interview",
		MeetingDate: "2026-05-10T18:00:00Z",
		Location:    "chapter house",
	})
	require.ErrorIs(t, err, domainerrors.ErrCycleNotFound)
}

func TestMeetingTransitionsAreMonotonic(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	started, err := module.Handler.TransitionMeetingHandler(ctx, meeting.MeetingID, httptransport.TransitionMeetingRequest{Status: "in_progress"})
	require.NoError(t, err)
	require.Equal(t, "in_progress", started.Status)

	// Cancellation is only possible before the meeting starts.
	_, err = module.Handler.TransitionMeetingHandler(ctx, meeting.MeetingID, httptransport.TransitionMeetingRequest{Status: "cancelled"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidMeetingTransition)

	completed, err := module.Handler.TransitionMeetingHandler(ctx, meeting.MeetingID, httptransport.TransitionMeetingRequest{Status: "completed"})
	require.NoError(t, err)
	require.Equal(t, "completed", completed.Status)

	_, err = module.Handler.TransitionMeetingHandler(ctx, meeting.MeetingID, httptransport.TransitionMeetingRequest{Status: "in_progress"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidMeetingTransition)

	other := scheduleMeeting(t, module, "interview")
	cancelled, err := module.Handler.TransitionMeetingHandler(ctx, other.MeetingID, httptransport.TransitionMeetingRequest{Status: "cancelled"})
	require.NoError(t, err)
	require.Equal(t, "cancelled", cancelled.Status)
}

func TestCastVoteUpsertsByIdentity(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	first, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-1", httptransport.CastVoteRequest{
		NomineeID: "member-ann",
		Choice:    "yes",
		Comments:  "great track record",
	})
	require.NoError(t, err)
	require.Equal(t, "position-president", first.PositionID)

	// The voter reconsiders: same identity tuple, new choice.
	second, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-1", httptransport.CastVoteRequest{
		NomineeID: "member-ann",
		Choice:    "no",
	})
	require.NoError(t, err)
	require.Equal(t, first.VoteID, second.VoteID)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, "no", second.Choice)

	results, err := module.Handler.MeetingResultsHandler(ctx, meeting.MeetingID)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	require.Equal(t, 0, results.Results[0].Yes)
	require.Equal(t, 1, results.Results[0].No)
}

func TestCastVoteRequiresCommitteeMembership(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	_, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "outsider-1", httptransport.CastVoteRequest{
		NomineeID: "member-ann",
		Choice:    "yes",
	})
	require.ErrorIs(t, err, domainerrors.ErrVoterNotEligible)

	// The rejected attempt must leave no trace in the tally.
	results, err := module.Handler.MeetingResultsHandler(ctx, meeting.MeetingID)
	require.NoError(t, err)
	require.Empty(t, results.Results)
}

func TestCastVoteRequiresOpenMeeting(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	_, err := module.Handler.TransitionMeetingHandler(ctx, meeting.MeetingID, httptransport.TransitionMeetingRequest{Status: "in_progress"})
	require.NoError(t, err)
	_, err = module.Handler.TransitionMeetingHandler(ctx, meeting.MeetingID, httptransport.TransitionMeetingRequest{Status: "completed"})
	require.NoError(t, err)

	_, err = module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-1", httptransport.CastVoteRequest{
		NomineeID: "member-ann",
		Choice:    "yes",
	})
	require.ErrorIs(t, err, domainerrors.ErrMeetingNotOpen)
}

func TestCastVoteRequiresApprovedNomination(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	module.Store.SetNomination(ports.NominationProjection{
		NominationID: "nomination-pending",
		CycleID:      "cycle-1",
		PositionID:   "position-president",
		NomineeID:    "member-carl",
		Status:       "submitted",
		SubmittedAt:  time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC),
	})

	_, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-1", httptransport.CastVoteRequest{
		NomineeID: "member-carl",
		Choice:    "yes",
	})
	require.ErrorIs(t, err, domainerrors.ErrNomineeNotOnBallot)
}

func TestBallotOrderingAndPriorVotes(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	module.Store.SetPosition(ports.PositionProjection{
		PositionID:     "position-treasurer",
		CycleID:        "cycle-1",
		Title:          "Treasurer",
		HierarchyLevel: 3,
		Openings:       1,
		Active:         true,
	})
	module.Store.SetNomination(ports.NominationProjection{
		NominationID: "nomination-zoe",
		CycleID:      "cycle-1",
		PositionID:   "position-treasurer",
		NomineeID:    "member-zoe",
		Status:       "approved",
		SubmittedAt:  time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC),
	})
	module.Store.SetCandidate(ports.CandidateSummary{CandidateID: "member-ann", Name: "Ann Calloway", Email: "ann@example.org"})
	module.Store.SetCandidate(ports.CandidateSummary{CandidateID: "member-bob", Name: "Bob Reyes", Email: "bob@example.org"})

	_, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-1", httptransport.CastVoteRequest{
		NomineeID: "member-bob",
		Choice:    "abstain",
		Comments:  "want to hear the interview first",
	})
	require.NoError(t, err)

	ballot, err := module.Handler.BuildBallotHandler(ctx, meeting.MeetingID, "voter-1")
	require.NoError(t, err)
	require.Len(t, ballot.Entries, 3)

	// President (level 1) before Treasurer (level 3); names ascending within
	// a position.
	require.Equal(t, "Ann Calloway", ballot.Entries[0].NomineeName)
	require.Equal(t, "Bob Reyes", ballot.Entries[1].NomineeName)
	require.Equal(t, "position-treasurer", ballot.Entries[2].PositionID)

	// Directory miss degrades to the raw identifier.
	require.Equal(t, "member-zoe", ballot.Entries[2].NomineeName)

	require.False(t, ballot.Entries[0].HasPriorVote)
	require.True(t, ballot.Entries[1].HasPriorVote)
	require.Equal(t, "abstain", ballot.Entries[1].PriorChoice)
	require.Equal(t, "want to hear the interview first", ballot.Entries[1].PriorComments)
}

func TestTallyReflectsCurrentVotes(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	votes := map[string]string{
		"voter-1": "yes",
		"voter-2": "yes",
		"voter-3": "no",
		"voter-4": "abstain",
	}
	for voter, choice := range votes {
		_, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, voter, httptransport.CastVoteRequest{
			NomineeID: "member-ann",
			Choice:    choice,
		})
		require.NoError(t, err)
	}

	results, err := module.Handler.MeetingResultsHandler(ctx, meeting.MeetingID)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	require.Equal(t, 2, results.Results[0].Yes)
	require.Equal(t, 1, results.Results[0].No)
	require.Equal(t, 1, results.Results[0].Abstain)

	// A late ballot shifts the recount; nothing is frozen at read time.
	_, err = module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-5", httptransport.CastVoteRequest{
		NomineeID: "member-ann",
		Choice:    "yes",
	})
	require.NoError(t, err)

	results, err = module.Handler.MeetingResultsHandler(ctx, meeting.MeetingID)
	require.NoError(t, err)
	require.Equal(t, 3, results.Results[0].Yes)
}

func TestTallyIsIdempotentWithoutInterveningWrites(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	for voter, target := range map[string]struct {
		nominee string
		choice  string
	}{
		"voter-1": {"member-ann", "yes"},
		"voter-2": {"member-ann", "no"},
		"voter-3": {"member-bob", "yes"},
		"voter-4": {"member-bob", "abstain"},
	} {
		_, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, voter, httptransport.CastVoteRequest{
			NomineeID: target.nominee,
			Choice:    target.choice,
		})
		require.NoError(t, err)
	}

	first, err := module.Handler.MeetingResultsHandler(ctx, meeting.MeetingID)
	require.NoError(t, err)
	second, err := module.Handler.MeetingResultsHandler(ctx, meeting.MeetingID)
	require.NoError(t, err)

	// Two back-to-back reads with no writes in between agree exactly,
	// including row order.
	require.Equal(t, first, second)
	require.Len(t, first.Results, 2)
}

func TestProjectResultsSelectsTopNominees(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	final := scheduleMeeting(t, module, "final_selection")
	advisory := scheduleMeeting(t, module, "steering_committee")

	// Binding meeting: Ann 3 yes, Bob 2 yes.
	for _, voter := range []string{"voter-1", "voter-2", "voter-3"} {
		_, err := module.Handler.CastVoteHandler(ctx, final.MeetingID, voter, httptransport.CastVoteRequest{
			NomineeID: "member-ann",
			Choice:    "yes",
		})
		require.NoError(t, err)
	}
	for _, voter := range []string{"voter-4", "voter-5"} {
		_, err := module.Handler.CastVoteHandler(ctx, final.MeetingID, voter, httptransport.CastVoteRequest{
			NomineeID: "member-bob",
			Choice:    "yes",
		})
		require.NoError(t, err)
	}

	// Advisory meeting unanimously prefers Bob; it must not move the outcome.
	for _, voter := range []string{"voter-1", "voter-2", "voter-3", "voter-4", "voter-5"} {
		_, err := module.Handler.CastVoteHandler(ctx, advisory.MeetingID, voter, httptransport.CastVoteRequest{
			NomineeID: "member-bob",
			Choice:    "yes",
		})
		require.NoError(t, err)
	}

	outcomes, err := module.Handler.ProjectResultsHandler(ctx, "cycle-1", "")
	require.NoError(t, err)
	require.Len(t, outcomes.Items, 1)

	outcome := outcomes.Items[0]
	require.Equal(t, "position-president", outcome.PositionID)
	require.False(t, outcome.UnderFilled)
	require.Len(t, outcome.Entries, 2)
	require.Equal(t, "member-ann", outcome.Entries[0].NomineeID)
	require.Equal(t, 3, outcome.Entries[0].YesVotes)
	require.True(t, outcome.Entries[0].Selected)
	require.Equal(t, "member-bob", outcome.Entries[1].NomineeID)
	require.Equal(t, 2, outcome.Entries[1].YesVotes)
	require.False(t, outcome.Entries[1].Selected)
}

func TestProjectResultsTieBreaksOnFirstSubmission(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()
	final := scheduleMeeting(t, module, "final_selection")

	// Two yes votes each; Ann's nomination was submitted a day earlier.
	for _, voter := range []string{"voter-1", "voter-2"} {
		_, err := module.Handler.CastVoteHandler(ctx, final.MeetingID, voter, httptransport.CastVoteRequest{
			NomineeID: "member-ann",
			Choice:    "yes",
		})
		require.NoError(t, err)
	}
	for _, voter := range []string{"voter-3", "voter-4"} {
		_, err := module.Handler.CastVoteHandler(ctx, final.MeetingID, voter, httptransport.CastVoteRequest{
			NomineeID: "member-bob",
			Choice:    "yes",
		})
		require.NoError(t, err)
	}

	outcomes, err := module.Handler.ProjectResultsHandler(ctx, "cycle-1", "")
	require.NoError(t, err)
	outcome := outcomes.Items[0]
	require.Equal(t, "member-ann", outcome.Entries[0].NomineeID)
	require.True(t, outcome.Entries[0].Selected)
	require.False(t, outcome.Entries[1].Selected)
}

func TestProjectResultsReportsUnderFilledPositions(t *testing.T) {
	module := seedBallotModule(&capturePublisher{})
	ctx := context.Background()

	module.Store.SetPosition(ports.PositionProjection{
		PositionID:     "position-board",
		CycleID:        "cycle-1",
		Title:          "Board Member",
		HierarchyLevel: 2,
		Openings:       3,
		Active:         true,
	})
	module.Store.SetNomination(ports.NominationProjection{
		NominationID: "nomination-dee",
		CycleID:      "cycle-1",
		PositionID:   "position-board",
		NomineeID:    "member-dee",
		Status:       "approved",
		SubmittedAt:  time.Date(2026, 4, 4, 10, 0, 0, 0, time.UTC),
	})

	outcomes, err := module.Handler.ProjectResultsHandler(ctx, "cycle-1", "")
	require.NoError(t, err)
	require.Len(t, outcomes.Items, 2)

	board := outcomes.Items[1]
	require.Equal(t, "position-board", board.PositionID)
	require.True(t, board.UnderFilled)
	require.Len(t, board.Entries, 1)
	require.True(t, board.Entries[0].Selected)

	// Narrowing to one position returns just that outcome.
	single, err := module.Handler.ProjectResultsHandler(ctx, "cycle-1", "position-board")
	require.NoError(t, err)
	require.Len(t, single.Items, 1)
	require.Equal(t, "position-board", single.Items[0].PositionID)

	_, err = module.Handler.ProjectResultsHandler(ctx, "cycle-1", "position-ghost")
	require.ErrorIs(t, err, domainerrors.ErrPositionNotFound)
}

func TestOutboxRelayPublishesVoteEvents(t *testing.T) {
	publisher := &capturePublisher{}
	module := seedBallotModule(publisher)
	ctx := context.Background()
	meeting := scheduleMeeting(t, module, "final_selection")

	_, err := module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-1", httptransport.CastVoteRequest{
		NomineeID: "member-ann",
		Choice:    "yes",
	})
	require.NoError(t, err)
	_, err = module.Handler.CastVoteHandler(ctx, meeting.MeetingID, "voter-1", httptransport.CastVoteRequest{
		NomineeID: "member-ann",
		Choice:    "no",
	})
	require.NoError(t, err)
	require.Equal(t, 2, module.Store.PendingOutboxCount())

	sent, err := module.Relay.RelayOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, sent)
	require.Equal(t, 0, module.Store.PendingOutboxCount())

	require.Len(t, publisher.events, 2)
	require.Equal(t, "chapter.ballot.vote_cast", publisher.events[0].EventType)
	require.Equal(t, "chapter.ballot.vote_changed", publisher.events[1].EventType)
	require.Equal(t, meeting.MeetingID, publisher.events[0].PartitionKey)

	// Nothing left to relay.
	sent, err = module.Relay.RelayOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, sent)
}
