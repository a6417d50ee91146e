package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chapterhouse/contexts/chapter-operations/outreach-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/outreach-service/domain/errors"
	"chapterhouse/contexts/chapter-operations/outreach-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter used by tests and local wiring. It also
// satisfies the Clock, IDGenerator, and projection reader ports.
type Store struct {
	mu sync.RWMutex

	approaches map[string]entities.Approach
	cycles     map[string]ports.CycleProjection
	positions  map[string]ports.PositionProjection

	now time.Time
}

func NewStore() *Store {
	return &Store{
		approaches: make(map[string]entities.Approach),
		cycles:     make(map[string]ports.CycleProjection),
		positions:  make(map[string]ports.PositionProjection),
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

func (s *Store) SaveApproach(_ context.Context, approach entities.Approach) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approaches[approach.ApproachID] = approach
	return nil
}

func (s *Store) GetApproach(_ context.Context, approachID string) (entities.Approach, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	approach, ok := s.approaches[strings.TrimSpace(approachID)]
	if !ok {
		return entities.Approach{}, domainerrors.ErrApproachNotFound
	}
	return approach, nil
}

func (s *Store) ListApproaches(_ context.Context, filter ports.ApproachFilter) ([]entities.Approach, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Approach, 0)
	for _, approach := range s.approaches {
		if filter.CycleID != "" && approach.CycleID != filter.CycleID {
			continue
		}
		if filter.PositionID != "" && approach.PositionID != filter.PositionID {
			continue
		}
		if filter.Status != "" && approach.Status != filter.Status {
			continue
		}
		items = append(items, approach)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) RecordResponse(
	_ context.Context,
	approachID string,
	status entities.ResponseStatus,
	respondedAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	approach, ok := s.approaches[strings.TrimSpace(approachID)]
	if !ok || approach.Status != entities.ResponsePending {
		return false, nil
	}
	responded := respondedAt.UTC()
	approach.Status = status
	approach.RespondedAt = &responded
	approach.UpdatedAt = responded
	s.approaches[approach.ApproachID] = approach
	return true, nil
}

func (s *Store) OverrideResponse(
	_ context.Context,
	approachID string,
	status entities.ResponseStatus,
	respondedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	approach, ok := s.approaches[strings.TrimSpace(approachID)]
	if !ok {
		return domainerrors.ErrApproachNotFound
	}
	responded := respondedAt.UTC()
	approach.Status = status
	approach.RespondedAt = &responded
	approach.UpdatedAt = responded
	s.approaches[approach.ApproachID] = approach
	return nil
}
