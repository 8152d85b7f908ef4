package streak

import (
	"context"
	"sync"
	"time"
)

// memStore is an in-memory Store doing full log scans only.
type memStore struct {
	mu          sync.Mutex
	defs        map[uint][]WorkoutDefinition
	logs        map[uint][]CompletionLog
	states      map[uint]State
	listCalls   int
	beforeWrite func()
}

func newMemStore() *memStore {
	return &memStore{
		defs:   make(map[uint][]WorkoutDefinition),
		logs:   make(map[uint][]CompletionLog),
		states: make(map[uint]State),
	}
}

func (s *memStore) addWorkout(userID uint, weekday string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[userID] = append(s.defs[userID], WorkoutDefinition{
		ID:      uint(len(s.defs[userID]) + 1),
		UserID:  userID,
		Weekday: weekday,
	})
}

func (s *memStore) logCompletion(userID uint, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[userID] = append(s.logs[userID], CompletionLog{
		ID:            uint(len(s.logs[userID]) + 1),
		UserID:        userID,
		ExerciseTitle: "squat",
		CompletedAt:   at,
	})
}

func (s *memStore) setState(userID uint, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

func (s *memStore) state(userID uint) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

func (s *memStore) ListWorkoutDefinitions(_ context.Context, userID uint) ([]WorkoutDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WorkoutDefinition(nil), s.defs[userID]...), nil
}

func (s *memStore) ListCompletionLogs(_ context.Context, userID uint) ([]CompletionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return append([]CompletionLog(nil), s.logs[userID]...), nil
}

func (s *memStore) GetStreakState(_ context.Context, userID uint) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID], nil
}

func (s *memStore) WriteStreakState(_ context.Context, userID uint, update StateUpdate) error {
	if s.beforeWrite != nil {
		hook := s.beforeWrite
		s.beforeWrite = nil
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.states[userID]
	if state.Version != update.ExpectedVersion {
		return ErrConflict
	}
	if update.CurrentStreak != nil {
		state.CurrentStreak = *update.CurrentStreak
	}
	if update.LongestStreak != nil {
		state.LongestStreak = *update.LongestStreak
	}
	if update.LastCompletedDate != nil {
		last := *update.LastCompletedDate
		state.LastCompletedDate = &last
	}
	state.Version++
	s.states[userID] = state
	return nil
}

func (s *memStore) WriteScheduledDays(_ context.Context, userID uint, days []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[userID]
	state.ScheduledDays = append([]int(nil), days...)
	s.states[userID] = state
	return nil
}

// rangeMemStore adds range queries on top of memStore.
type rangeMemStore struct {
	*memStore
	rangeCalls int
}

func (s *rangeMemStore) ListCompletionLogsBetween(_ context.Context, userID uint, from, to time.Time) ([]CompletionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rangeCalls++
	var out []CompletionLog
	for _, l := range s.logs[userID] {
		if !l.CompletedAt.Before(from) && l.CompletedAt.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
