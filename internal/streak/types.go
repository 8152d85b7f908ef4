package streak

import (
	"context"
	"errors"
	"slices"
	"time"
)

var (
	// ErrDegraded marks a result that is a safe default produced because the
	// store failed, as opposed to a genuine "no data" answer.
	ErrDegraded = errors.New("streak store degraded")
	// ErrConflict is returned by Store.WriteStreakState when the expected
	// version no longer matches the stored one.
	ErrConflict = errors.New("streak state changed concurrently")
)

const dateLayout = "2006-01-02"

// WorkoutDefinition is a recurring workout slot on a weekday.
type WorkoutDefinition struct {
	ID          uint
	UserID      uint
	Weekday     string
	MuscleGroup string
}

// CompletionLog is one completed exercise instance. CompletedAt is already
// normalized by the store adapter.
type CompletionLog struct {
	ID            uint
	UserID        uint
	ExerciseTitle string
	Sets          int
	Reps          int
	Weight        float64
	CompletedAt   time.Time
}

// State is the persisted streak state of a user.
type State struct {
	CurrentStreak     int
	LongestStreak     int
	LastCompletedDate *time.Time
	ScheduledDays     []int
	// Version is bumped by every streak write and used for compare-and-swap.
	Version int64
}

// StateUpdate is a partial write of State. Nil fields are left untouched.
type StateUpdate struct {
	CurrentStreak     *int
	LongestStreak     *int
	LastCompletedDate *time.Time
	ExpectedVersion   int64
}

// Data is the read model exposed to profile and header consumers.
type Data struct {
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
	ScheduledDays []int `json:"scheduled_days"`
}

// Store is the workout store the engine runs against.
type Store interface {
	ListWorkoutDefinitions(ctx context.Context, userID uint) ([]WorkoutDefinition, error)
	ListCompletionLogs(ctx context.Context, userID uint) ([]CompletionLog, error)
	GetStreakState(ctx context.Context, userID uint) (State, error)
	WriteStreakState(ctx context.Context, userID uint, update StateUpdate) error
	WriteScheduledDays(ctx context.Context, userID uint, days []int) error
}

// RangeStore is implemented by stores able to filter completion logs by time
// range. from is inclusive, to exclusive.
type RangeStore interface {
	ListCompletionLogsBetween(ctx context.Context, userID uint, from, to time.Time) ([]CompletionLog, error)
}

// ScheduledDaysFrom returns the sorted, deduplicated weekday numbers that have
// at least one workout. Definitions with unknown labels are ignored.
func ScheduledDaysFrom(defs []WorkoutDefinition) []int {
	seen := make(map[int]struct{}, 7)
	days := make([]int, 0, 7)
	for _, def := range defs {
		day, err := ParseWeekday(def.Weekday)
		if err != nil {
			continue
		}
		if _, ok := seen[int(day)]; ok {
			continue
		}
		seen[int(day)] = struct{}{}
		days = append(days, int(day))
	}
	slices.Sort(days)
	return days
}

// DateSet is a set of calendar dates keyed by their year/month/day.
type DateSet map[string]struct{}

// NewDateSet builds a set from the calendar dates of the given times, taken
// in each time's own location.
func NewDateSet(times ...time.Time) DateSet {
	set := make(DateSet, len(times))
	for _, t := range times {
		set.Add(t)
	}
	return set
}

// Add inserts the calendar date of t.
func (s DateSet) Add(t time.Time) {
	s[t.Format(dateLayout)] = struct{}{}
}

// Has reports whether the calendar date of t is in the set.
func (s DateSet) Has(t time.Time) bool {
	_, ok := s[t.Format(dateLayout)]
	return ok
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func weekdaySet(days []int) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			set[time.Weekday(d)] = true
		}
	}
	return set
}
