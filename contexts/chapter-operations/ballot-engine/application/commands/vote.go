package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "chapterhouse/contexts/chapter-operations/ballot-engine/application"
	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

type CastVoteCommand struct {
	MeetingID string
	VoterID   string
	NomineeID string
	Choice    entities.VoteChoice
	Comments  string
}

type VoteUseCase struct {
	Meetings    ports.MeetingRepository
	Votes       ports.VoteRepository
	Cycles      ports.CycleReader
	Nominations ports.NominationReader
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

// CastVote records or replaces the caller's ballot for one nominee. The vote
// identity is (meeting, voter, nominee): casting again with a different
// choice overwrites in place, so the per-meeting count can never exceed one
// row per voter per nominee.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.Vote, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	nomineeID := strings.TrimSpace(cmd.NomineeID)
	if voterID == "" || nomineeID == "" || !cmd.Choice.Valid() {
		return entities.Vote{}, domainerrors.ErrInvalidVoteInput
	}

	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(cmd.MeetingID))
	if err != nil {
		return entities.Vote{}, err
	}
	if !meeting.Status.Open() {
		return entities.Vote{}, domainerrors.ErrMeetingNotOpen
	}

	cycle, err := uc.Cycles.GetCycle(ctx, meeting.CycleID)
	if err != nil {
		return entities.Vote{}, err
	}
	if !cycle.HasVoter(voterID) {
		return entities.Vote{}, domainerrors.ErrVoterNotEligible
	}

	nomination, err := uc.approvedNominationFor(ctx, cycle.CycleID, nomineeID)
	if err != nil {
		return entities.Vote{}, err
	}

	now := uc.Clock.Now().UTC()
	prior, hasPrior, err := uc.Votes.GetVote(ctx, meeting.MeetingID, voterID, nomineeID)
	if err != nil {
		return entities.Vote{}, err
	}

	vote := entities.Vote{
		MeetingID:  meeting.MeetingID,
		VoterID:    voterID,
		NomineeID:  nomineeID,
		PositionID: nomination.PositionID,
		Choice:     cmd.Choice,
		Comments:   strings.TrimSpace(cmd.Comments),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	eventType := EventVoteCast
	if hasPrior {
		vote.VoteID = prior.VoteID
		vote.CreatedAt = prior.CreatedAt
		eventType = EventVoteChanged
	} else {
		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Vote{}, err
		}
		vote.VoteID = voteID
	}

	if err := uc.Votes.UpsertVote(ctx, vote); err != nil {
		return entities.Vote{}, err
	}

	// The upsert may have landed on a row created by a concurrent first vote
	// for the same identity tuple; the stored row is authoritative for the
	// vote id and created_at.
	stored, found, err := uc.Votes.GetVote(ctx, meeting.MeetingID, voterID, nomineeID)
	if err != nil {
		return entities.Vote{}, err
	}
	if found {
		if !hasPrior && stored.VoteID != vote.VoteID {
			eventType = EventVoteChanged
			hasPrior = true
		}
		vote = stored
	}

	if err := uc.stageVoteEvent(ctx, eventType, cycle.CycleID, vote); err != nil {
		return entities.Vote{}, err
	}

	logger.Info("vote recorded",
		"event", "vote_recorded",
		"module", "chapter-operations/ballot-engine",
		"layer", "application",
		"meeting_id", vote.MeetingID,
		"voter_id", vote.VoterID,
		"nominee_id", vote.NomineeID,
		"choice", string(vote.Choice),
		"replaced", hasPrior,
	)
	return vote, nil
}

// approvedNominationFor resolves the nominee's approved nomination in the
// cycle. No approved row means the nominee is simply not votable here.
func (uc VoteUseCase) approvedNominationFor(ctx context.Context, cycleID, nomineeID string) (ports.NominationProjection, error) {
	nominations, err := uc.Nominations.ListApprovedNominations(ctx, cycleID)
	if err != nil {
		return ports.NominationProjection{}, err
	}
	for _, nomination := range nominations {
		if nomination.NomineeID == nomineeID {
			return nomination, nil
		}
	}
	return ports.NominationProjection{}, domainerrors.ErrNomineeNotOnBallot
}

func (uc VoteUseCase) stageVoteEvent(ctx context.Context, eventType, cycleID string, vote entities.Vote) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	now := uc.Clock.Now().UTC()
	envelope, err := newVoteEnvelope(eventID, eventType, cycleID, vote, now)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, ports.OutboxMessage{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    now,
	})
}
