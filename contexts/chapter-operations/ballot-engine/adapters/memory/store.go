package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter used by tests and local wiring. It also
// satisfies the Clock, IDGenerator, projection reader, and outbox ports.
type Store struct {
	mu sync.RWMutex

	meetings    map[string]entities.Meeting
	votes       map[string]entities.Vote
	cycles      map[string]ports.CycleProjection
	positions   map[string]ports.PositionProjection
	nominations map[string]ports.NominationProjection
	candidates  map[string]ports.CandidateSummary

	outbox     []ports.OutboxMessage
	outboxSent map[string]time.Time

	now time.Time
}

func NewStore() *Store {
	return &Store{
		meetings:    make(map[string]entities.Meeting),
		votes:       make(map[string]entities.Vote),
		cycles:      make(map[string]ports.CycleProjection),
		positions:   make(map[string]ports.PositionProjection),
		nominations: make(map[string]ports.NominationProjection),
		candidates:  make(map[string]ports.CandidateSummary),
		outboxSent:  make(map[string]time.Time),
	}
}

func voteKey(meetingID, voterID, nomineeID string) string {
	return meetingID + "/" + voterID + "/" + nomineeID
}

func (s *Store) SetCycle(cycle ports.CycleProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles[strings.TrimSpace(cycle.CycleID)] = cycle
}

func (s *Store) SetPosition(position ports.PositionProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[strings.TrimSpace(position.PositionID)] = position
}

func (s *Store) SetNomination(nomination ports.NominationProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nominations[strings.TrimSpace(nomination.NominationID)] = nomination
}

func (s *Store) SetCandidate(candidate ports.CandidateSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
}

func (s *Store) GetCandidateSummary(_ context.Context, candidateID string) (ports.CandidateSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	return candidate, ok, nil
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) GetCycle(_ context.Context, cycleID string) (ports.CycleProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cycle, ok := s.cycles[strings.TrimSpace(cycleID)]
	if !ok {
		return ports.CycleProjection{}, domainerrors.ErrCycleNotFound
	}
	return cycle, nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (ports.PositionProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, ok := s.positions[strings.TrimSpace(positionID)]
	if !ok {
		return ports.PositionProjection{}, domainerrors.ErrPositionNotFound
	}
	return position, nil
}

func (s *Store) ListPositionsByCycle(_ context.Context, cycleID string) ([]ports.PositionProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.PositionProjection, 0)
	for _, position := range s.positions {
		if position.CycleID == cycleID {
			items = append(items, position)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].HierarchyLevel != items[j].HierarchyLevel {
			return items[i].HierarchyLevel < items[j].HierarchyLevel
		}
		return items[i].PositionID < items[j].PositionID
	})
	return items, nil
}

func (s *Store) GetNomination(_ context.Context, nominationID string) (ports.NominationProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nomination, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok {
		return ports.NominationProjection{}, domainerrors.ErrNomineeNotOnBallot
	}
	return nomination, nil
}

func (s *Store) ListApprovedNominations(_ context.Context, cycleID string) ([]ports.NominationProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.NominationProjection, 0)
	for _, nomination := range s.nominations {
		if nomination.CycleID == cycleID && strings.EqualFold(nomination.Status, "approved") {
			items = append(items, nomination)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].NominationID < items[j].NominationID
	})
	return items, nil
}

func (s *Store) SaveMeeting(_ context.Context, meeting entities.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[meeting.MeetingID] = meeting
	return nil
}

func (s *Store) GetMeeting(_ context.Context, meetingID string) (entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meeting, ok := s.meetings[strings.TrimSpace(meetingID)]
	if !ok {
		return entities.Meeting{}, domainerrors.ErrMeetingNotFound
	}
	return meeting, nil
}

func (s *Store) ListMeetings(_ context.Context, filter ports.MeetingFilter) ([]entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Meeting, 0)
	for _, meeting := range s.meetings {
		if filter.CycleID != "" && meeting.CycleID != filter.CycleID {
			continue
		}
		if filter.Type != "" && meeting.Type != filter.Type {
			continue
		}
		if filter.Status != "" && meeting.Status != filter.Status {
			continue
		}
		items = append(items, meeting)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].MeetingDate.Equal(items[j].MeetingDate) {
			return items[i].MeetingDate.Before(items[j].MeetingDate)
		}
		return items[i].MeetingID < items[j].MeetingID
	})
	return items, nil
}

func (s *Store) TransitionMeetingStatus(
	_ context.Context,
	meetingID string,
	from, next entities.MeetingStatus,
	updatedAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.meetings[strings.TrimSpace(meetingID)]
	if !ok || meeting.Status != from {
		return false, nil
	}
	meeting.Status = next
	meeting.UpdatedAt = updatedAt.UTC()
	s.meetings[meeting.MeetingID] = meeting
	return true, nil
}

func (s *Store) UpdateMeetingNotes(_ context.Context, meetingID string, notes string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.meetings[strings.TrimSpace(meetingID)]
	if !ok {
		return domainerrors.ErrMeetingNotFound
	}
	meeting.Notes = notes
	meeting.UpdatedAt = updatedAt.UTC()
	s.meetings[meeting.MeetingID] = meeting
	return nil
}

func (s *Store) UpsertVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey(vote.MeetingID, vote.VoterID, vote.NomineeID)
	if existing, ok := s.votes[key]; ok {
		vote.VoteID = existing.VoteID
		vote.CreatedAt = existing.CreatedAt
	}
	s.votes[key] = vote
	return nil
}

func (s *Store) GetVote(_ context.Context, meetingID, voterID, nomineeID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[voteKey(meetingID, voterID, nomineeID)]
	return vote, ok, nil
}

func (s *Store) ListVotesByMeeting(_ context.Context, meetingID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.MeetingID == meetingID {
			items = append(items, vote)
		}
	}
	sortVotes(items)
	return items, nil
}

func (s *Store) ListVotesByVoter(_ context.Context, meetingID, voterID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.MeetingID == meetingID && vote.VoterID == voterID {
			items = append(items, vote)
		}
	}
	sortVotes(items)
	return items, nil
}

func (s *Store) ListBindingVotes(_ context.Context, cycleID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	binding := make(map[string]bool)
	for _, meeting := range s.meetings {
		if meeting.CycleID == cycleID && meeting.Type.Binding() && meeting.Status != entities.MeetingCancelled {
			binding[meeting.MeetingID] = true
		}
	}
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if binding[vote.MeetingID] {
			items = append(items, vote)
		}
	}
	sortVotes(items)
	return items, nil
}

func sortVotes(items []entities.Vote) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].VoteID < items[j].VoteID
	})
}

func (s *Store) AppendOutbox(_ context.Context, message ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, message)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.OutboxMessage, 0)
	for _, message := range s.outbox {
		if _, sent := s.outboxSent[message.OutboxID]; sent {
			continue
		}
		items = append(items, message)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

// PendingOutboxCount is a test helper.
func (s *Store) PendingOutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, message := range s.outbox {
		if _, sent := s.outboxSent[message.OutboxID]; !sent {
			count++
		}
	}
	return count
}
