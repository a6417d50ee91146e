package commands

import (
	"encoding/json"
	"time"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

const (
	sourceService = "ballot-engine"
	schemaVersion = 1

	// TopicBallotEvents carries every vote mutation in the cycle stream.
	TopicBallotEvents = "chapter-operations.ballot.events"

	EventVoteCast    = "chapter.ballot.vote_cast"
	EventVoteChanged = "chapter.ballot.vote_changed"
)

type voteEventPayload struct {
	VoteID     string `json:"vote_id"`
	MeetingID  string `json:"meeting_id"`
	CycleID    string `json:"cycle_id"`
	PositionID string `json:"position_id"`
	VoterID    string `json:"voter_id"`
	NomineeID  string `json:"nominee_id"`
	Choice     string `json:"choice"`
}

func newVoteEnvelope(eventID, eventType, cycleID string, vote entities.Vote, occurredAt time.Time) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(voteEventPayload{
		VoteID:     vote.VoteID,
		MeetingID:  vote.MeetingID,
		CycleID:    cycleID,
		PositionID: vote.PositionID,
		VoterID:    vote.VoterID,
		NomineeID:  vote.NomineeID,
		Choice:     string(vote.Choice),
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt,
		SourceService:    sourceService,
		SchemaVersion:    schemaVersion,
		PartitionKeyPath: "meeting_id",
		PartitionKey:     vote.MeetingID,
		Data:             payload,
	}, nil
}
