package ports

import (
	"context"
	"time"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
)

type MeetingRepository interface {
	SaveMeeting(ctx context.Context, meeting entities.Meeting) error
	GetMeeting(ctx context.Context, meetingID string) (entities.Meeting, error)
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]entities.Meeting, error)
	// TransitionMeetingStatus is a guarded write: the row moves to next only
	// while its status still equals from. Returns false when the row was not
	// in the expected state.
	TransitionMeetingStatus(ctx context.Context, meetingID string, from, next entities.MeetingStatus, updatedAt time.Time) (bool, error)
	UpdateMeetingNotes(ctx context.Context, meetingID string, notes string, updatedAt time.Time) error
}

type MeetingFilter struct {
	CycleID string
	Type    entities.MeetingType
	Status  entities.MeetingStatus
}

type VoteRepository interface {
	// UpsertVote writes the vote keyed by (meeting, voter, nominee). On
	// conflict only choice, comments, and updated_at change; the original
	// vote_id and created_at survive.
	UpsertVote(ctx context.Context, vote entities.Vote) error
	GetVote(ctx context.Context, meetingID, voterID, nomineeID string) (entities.Vote, bool, error)
	ListVotesByMeeting(ctx context.Context, meetingID string) ([]entities.Vote, error)
	ListVotesByVoter(ctx context.Context, meetingID, voterID string) ([]entities.Vote, error)
	// ListBindingVotes returns all votes cast in final_selection meetings of
	// the cycle, regardless of meeting completion.
	ListBindingVotes(ctx context.Context, cycleID string) ([]entities.Vote, error)
}

type CycleProjection struct {
	CycleID  string
	Scope    string
	Status   string
	VoterIDs []string
}

func (c CycleProjection) HasVoter(voterID string) bool {
	for _, id := range c.VoterIDs {
		if id == voterID {
			return true
		}
	}
	return false
}

type PositionProjection struct {
	PositionID     string
	CycleID        string
	Title          string
	HierarchyLevel int
	Openings       int
	Active         bool
}

// NominationProjection carries the approved-nomination fields the ballot and
// result builders need, including the submission instant used for
// deterministic tie-breaks.
type NominationProjection struct {
	NominationID string
	CycleID      string
	PositionID   string
	NomineeID    string
	Status       string
	SubmittedAt  time.Time
}

// CandidateSummary is display-only data. Identity validation never goes
// through the directory.
type CandidateSummary struct {
	CandidateID string
	Name        string
	Email       string
}

type CycleReader interface {
	GetCycle(ctx context.Context, cycleID string) (CycleProjection, error)
}

type PositionReader interface {
	GetPosition(ctx context.Context, positionID string) (PositionProjection, error)
	ListPositionsByCycle(ctx context.Context, cycleID string) ([]PositionProjection, error)
}

type NominationReader interface {
	GetNomination(ctx context.Context, nominationID string) (NominationProjection, error)
	// ListApprovedNominations returns the cycle's votable nominations.
	ListApprovedNominations(ctx context.Context, cycleID string) ([]NominationProjection, error)
}

type CandidateDirectory interface {
	// GetCandidateSummary reports found=false for unknown candidates instead
	// of an error, so callers can degrade to showing the raw identifier.
	GetCandidateSummary(ctx context.Context, candidateID string) (CandidateSummary, bool, error)
}

// EventEnvelope is the wire shape every ballot event travels in, from the
// outbox payload through the bus to consumers.
type EventEnvelope struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	OccurredAt       time.Time `json:"occurred_at"`
	SourceService    string    `json:"source_service"`
	TraceID          string    `json:"trace_id"`
	SchemaVersion    int       `json:"schema_version"`
	PartitionKeyPath string    `json:"partition_key_path"`
	PartitionKey     string    `json:"partition_key"`
	Data             []byte    `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter stages an event in the same transaction as the state change
// it describes.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, message OutboxMessage) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
