package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/medrevise/spiral/internal/spiral"
)

// Timetable is one saved generation run for a user.
type Timetable struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Revision    int                 `json:"revision"`
	Blocks      []spiral.StudyBlock `json:"blocks"`
	Unplaced    int                 `json:"unplaced"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// TimetableStore persists generated timetables, performance scores and
// user events.
type TimetableStore interface {
	SaveTimetable(tt Timetable) (string, error)
	LatestTimetable(userID string) (*Timetable, error)
	Performance(userID string) (*spiral.Performance, error)
	SavePerformance(userID string, perf spiral.Performance) error
	Events(userID string) ([]spiral.Event, error)
	AddEvent(userID string, ev spiral.Event) error
}

// MemoryStore is an in-memory implementation of TimetableStore.
type MemoryStore struct {
	timetables  map[string][]Timetable // by user, append order
	performance map[string]spiral.Performance
	events      map[string][]spiral.Event
	nextID      int
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory timetable store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		timetables:  make(map[string][]Timetable),
		performance: make(map[string]spiral.Performance),
		events:      make(map[string][]spiral.Event),
	}
}

func (s *MemoryStore) SaveTimetable(tt Timetable) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tt.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}

	s.nextID++
	tt.ID = fmt.Sprintf("%d", s.nextID)
	if tt.GeneratedAt.IsZero() {
		tt.GeneratedAt = time.Now()
	}
	if tt.Revision == 0 {
		tt.Revision = len(s.timetables[tt.UserID]) + 1
	}
	s.timetables[tt.UserID] = append(s.timetables[tt.UserID], tt)
	return tt.ID, nil
}

func (s *MemoryStore) LatestTimetable(userID string) (*Timetable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.timetables[userID]
	if len(history) == 0 {
		return nil, fmt.Errorf("no timetable for user: %s", userID)
	}
	tt := history[len(history)-1]
	return &tt, nil
}

func (s *MemoryStore) Performance(userID string) (*spiral.Performance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perf, ok := s.performance[userID]
	if !ok {
		return &spiral.Performance{}, nil
	}
	return &perf, nil
}

func (s *MemoryStore) SavePerformance(userID string, perf spiral.Performance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	s.performance[userID] = perf
	return nil
}

func (s *MemoryStore) Events(userID string) ([]spiral.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]spiral.Event(nil), s.events[userID]...), nil
}

func (s *MemoryStore) AddEvent(userID string, ev spiral.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	if ev.StartTime == "" || ev.EndTime == "" {
		return fmt.Errorf("event start and end times are required")
	}
	s.events[userID] = append(s.events[userID], ev)
	return nil
}
