package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chapterhouse/contexts/chapter-operations/succession-service/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/succession-service/domain/errors"

	"github.com/google/uuid"
)

// Store is the in-memory adapter used by tests and local wiring. It also
// satisfies the Clock and IDGenerator ports.
type Store struct {
	mu sync.RWMutex

	cycles    map[string]entities.Cycle
	positions map[string]entities.Position

	now time.Time
}

func NewStore() *Store {
	return &Store{
		cycles:    make(map[string]entities.Cycle),
		positions: make(map[string]entities.Position),
	}
}

// SetNow pins the clock for deterministic tests. Zero means wall clock.
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

func (s *Store) CreateCycle(_ context.Context, cycle entities.Cycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cycles[cycle.CycleID]; ok {
		return domainerrors.ErrConflict
	}
	if cycle.Status == entities.CycleStatusActive {
		for _, existing := range s.cycles {
			if existing.Scope == cycle.Scope && existing.Status == entities.CycleStatusActive {
				return domainerrors.ErrActiveCycleExists
			}
		}
	}
	s.cycles[cycle.CycleID] = cloneCycle(cycle)
	return nil
}

func (s *Store) GetCycle(_ context.Context, cycleID string) (entities.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cycle, ok := s.cycles[strings.TrimSpace(cycleID)]
	if !ok {
		return entities.Cycle{}, domainerrors.ErrCycleNotFound
	}
	return cloneCycle(cycle), nil
}

func (s *Store) GetActiveCycle(_ context.Context, scope string) (entities.Cycle, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cycle := range s.cycles {
		if cycle.Scope == strings.TrimSpace(scope) && cycle.Status == entities.CycleStatusActive {
			return cloneCycle(cycle), true, nil
		}
	}
	return entities.Cycle{}, false, nil
}

func (s *Store) ListCycles(_ context.Context, scope string) ([]entities.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Cycle, 0, len(s.cycles))
	for _, cycle := range s.cycles {
		if scope != "" && cycle.Scope != scope {
			continue
		}
		items = append(items, cloneCycle(cycle))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Year == items[j].Year {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Year > items[j].Year
	})
	return items, nil
}

func (s *Store) TransitionCycleStatus(
	_ context.Context,
	cycleID string,
	from, to entities.CycleStatus,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cycle, ok := s.cycles[strings.TrimSpace(cycleID)]
	if !ok || cycle.Status != from {
		return false, nil
	}
	cycle.Status = to
	cycle.UpdatedAt = s.nowLocked()
	s.cycles[cycle.CycleID] = cycle
	return true, nil
}

func (s *Store) UpdateCommittee(_ context.Context, cycleID string, voterIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cycle, ok := s.cycles[strings.TrimSpace(cycleID)]
	if !ok {
		return domainerrors.ErrCycleNotFound
	}
	cycle.VoterIDs = append([]string(nil), voterIDs...)
	cycle.UpdatedAt = s.nowLocked()
	s.cycles[cycle.CycleID] = cycle
	return nil
}

func (s *Store) CreatePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[position.PositionID]; ok {
		return domainerrors.ErrConflict
	}
	s.positions[position.PositionID] = position
	return nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, ok := s.positions[strings.TrimSpace(positionID)]
	if !ok {
		return entities.Position{}, domainerrors.ErrPositionNotFound
	}
	return position, nil
}

func (s *Store) ListPositions(_ context.Context, cycleID string) ([]entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Position, 0)
	for _, position := range s.positions {
		if position.CycleID == strings.TrimSpace(cycleID) {
			items = append(items, position)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].HierarchyLevel == items[j].HierarchyLevel {
			return items[i].Title < items[j].Title
		}
		return items[i].HierarchyLevel < items[j].HierarchyLevel
	})
	return items, nil
}

func (s *Store) SetPositionActive(_ context.Context, positionID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	position, ok := s.positions[strings.TrimSpace(positionID)]
	if !ok {
		return domainerrors.ErrPositionNotFound
	}
	position.Active = active
	position.UpdatedAt = s.nowLocked()
	s.positions[position.PositionID] = position
	return nil
}

func (s *Store) nowLocked() time.Time {
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func cloneCycle(cycle entities.Cycle) entities.Cycle {
	cycle.VoterIDs = append([]string(nil), cycle.VoterIDs...)
	return cycle
}
