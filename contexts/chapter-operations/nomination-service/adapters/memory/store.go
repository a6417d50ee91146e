package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chapterhouse/contexts/chapter-operations/nomination-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/nomination-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/nomination-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter used by tests and local wiring. It also
// satisfies the Clock, IDGenerator, and projection reader ports.
type Store struct {
	mu sync.RWMutex

	nominations map[string]entities.Nomination
	cycles      map[string]ports.CycleProjection
	positions   map[string]ports.PositionProjection
	approaches  map[string]ports.ApproachProjection

	now time.Time
}

func NewStore() *Store {
	return &Store{
		nominations: make(map[string]entities.Nomination),
		cycles:      make(map[string]ports.CycleProjection),
		positions:   make(map[string]ports.PositionProjection),
		approaches:  make(map[string]ports.ApproachProjection),
	}
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

func (s *Store) SetApproach(approach ports.ApproachProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approaches[strings.TrimSpace(approach.ApproachID)] = approach
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

func (s *Store) GetApproach(_ context.Context, approachID string) (ports.ApproachProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	approach, ok := s.approaches[strings.TrimSpace(approachID)]
	if !ok {
		return ports.ApproachProjection{}, domainerrors.ErrApproachMismatch
	}
	return approach, nil
}

func (s *Store) SaveNomination(_ context.Context, nomination entities.Nomination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nominations[nomination.NominationID] = nomination
	return nil
}

func (s *Store) GetNomination(_ context.Context, nominationID string) (entities.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nomination, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok {
		return entities.Nomination{}, domainerrors.ErrNominationNotFound
	}
	return nomination, nil
}

func (s *Store) ListNominations(_ context.Context, filter ports.NominationFilter) ([]entities.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Nomination, 0)
	for _, nomination := range s.nominations {
		if filter.CycleID != "" && nomination.CycleID != filter.CycleID {
			continue
		}
		if filter.PositionID != "" && nomination.PositionID != filter.PositionID {
			continue
		}
		if filter.Status != "" && nomination.Status != filter.Status {
			continue
		}
		items = append(items, nomination)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) Review(
	_ context.Context,
	nominationID string,
	status entities.NominationStatus,
	reviewedBy string,
	reviewedAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nomination, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok || nomination.Status != entities.NominationSubmitted {
		return false, nil
	}
	reviewed := reviewedAt.UTC()
	nomination.Status = status
	nomination.ReviewedBy = strings.TrimSpace(reviewedBy)
	nomination.ReviewedAt = &reviewed
	nomination.UpdatedAt = reviewed
	s.nominations[nomination.NominationID] = nomination
	return true, nil
}
