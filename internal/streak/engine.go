package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// scheduleLookback bounds the backward search for the previous scheduled day.
	scheduleLookback = 7
	maxWriteAttempts = 3
)

// Recorder receives engine metrics.
type Recorder interface {
	StreakUpdated(current int)
	StreakReset()
	StoreDegraded(op string)
}

type nopRecorder struct{}

func (nopRecorder) StreakUpdated(int)    {}
func (nopRecorder) StreakReset()         {}
func (nopRecorder) StoreDegraded(string) {}

// Options configures an Engine. Zero values fall back to sane defaults.
type Options struct {
	// Location defines calendar days. Defaults to time.Local.
	Location *time.Location
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
	// Epoch suppresses "missed" judgement in the calendar for earlier dates.
	Epoch    time.Time
	Hub      *Hub
	Logger   logrus.FieldLogger
	Recorder Recorder
}

// Engine computes and persists workout streaks for users.
type Engine struct {
	store    Store
	loc      *time.Location
	now      func() time.Time
	epoch    time.Time
	hub      *Hub
	log      logrus.FieldLogger
	recorder Recorder
}

// NewEngine builds an engine over store.
func NewEngine(store Store, opts Options) *Engine {
	e := &Engine{
		store:    store,
		loc:      opts.Location,
		now:      opts.Now,
		hub:      opts.Hub,
		log:      opts.Logger,
		recorder: opts.Recorder,
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	if !opts.Epoch.IsZero() {
		e.epoch = startOfDay(opts.Epoch.In(e.loc))
	}
	return e
}

// Location returns the location calendar days are evaluated in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Epoch returns the configured streak epoch, zero if none.
func (e *Engine) Epoch() time.Time {
	return e.epoch
}

// Hub returns the event hub, nil when none was configured.
func (e *Engine) Hub() *Hub {
	return e.hub
}

// Now returns the engine clock's current instant in the engine location.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

func (e *Engine) today() time.Time {
	return startOfDay(e.now().In(e.loc))
}

func (e *Engine) dayOf(t time.Time) time.Time {
	return startOfDay(t.In(e.loc))
}

func (e *Engine) degraded(op string, userID uint, err error) error {
	e.recorder.StoreDegraded(op)
	e.log.WithFields(logrus.Fields{
		"op":      op,
		"user_id": userID,
	}).WithError(err).Warn("streak store call failed, using safe default")
	return fmt.Errorf("%w: %s: %w", ErrDegraded, op, err)
}

func (e *Engine) publish(kind EventKind, userID uint, current, longest int) {
	if e.hub == nil {
		return
	}
	e.hub.Publish(newEvent(kind, userID, current, longest, e.now()))
}

// UpdateScheduledDays derives the weekdays on which the user has at least one
// workout and persists them. On any store failure it returns an empty set
// together with an ErrDegraded error.
func (e *Engine) UpdateScheduledDays(ctx context.Context, userID uint) ([]int, error) {
	defs, err := e.store.ListWorkoutDefinitions(ctx, userID)
	if err != nil {
		return []int{}, e.degraded("list_workout_definitions", userID, err)
	}

	for _, def := range defs {
		if _, err := ParseWeekday(def.Weekday); err != nil {
			e.log.WithFields(logrus.Fields{
				"user_id":    userID,
				"workout_id": def.ID,
			}).WithError(err).Warn("ignoring workout with unknown weekday")
		}
	}

	days := ScheduledDaysFrom(defs)
	if err := e.store.WriteScheduledDays(ctx, userID, days); err != nil {
		return []int{}, e.degraded("write_scheduled_days", userID, err)
	}
	return days, nil
}

// GetStreakData returns the current, longest and scheduled days of a user.
// A missing state reads as zeros.
func (e *Engine) GetStreakData(ctx context.Context, userID uint) (Data, error) {
	state, err := e.store.GetStreakState(ctx, userID)
	if err != nil {
		return Data{ScheduledDays: []int{}}, e.degraded("get_streak_state", userID, err)
	}

	days := state.ScheduledDays
	if days == nil {
		days = []int{}
	}
	return Data{
		CurrentStreak: state.CurrentStreak,
		LongestStreak: state.LongestStreak,
		ScheduledDays: days,
	}, nil
}

// HasCompletionOn reports whether the user logged at least one completion on
// the calendar date of day. Stores implementing RangeStore are queried for
// that day only, otherwise every log of the user is scanned.
func (e *Engine) HasCompletionOn(ctx context.Context, userID uint, day time.Time) (bool, error) {
	target := e.dayOf(day)
	dates, err := e.completedDates(ctx, userID, target, addDays(target, 1))
	if err != nil {
		return false, err
	}
	return dates.Has(target), nil
}

// CompletedDates returns the set of calendar dates in [from, to) with at
// least one completion log.
func (e *Engine) CompletedDates(ctx context.Context, userID uint, from, to time.Time) (DateSet, error) {
	return e.completedDates(ctx, userID, e.dayOf(from), e.dayOf(to))
}

func (e *Engine) completedDates(ctx context.Context, userID uint, from, to time.Time) (DateSet, error) {
	var (
		logs []CompletionLog
		err  error
	)
	if rs, ok := e.store.(RangeStore); ok {
		logs, err = rs.ListCompletionLogsBetween(ctx, userID, from, to)
	} else {
		logs, err = e.store.ListCompletionLogs(ctx, userID)
	}
	if err != nil {
		return DateSet{}, e.degraded("list_completion_logs", userID, err)
	}

	dates := make(DateSet)
	for _, entry := range logs {
		if entry.CompletedAt.IsZero() {
			continue
		}
		at := entry.CompletedAt.In(e.loc)
		if at.Before(from) || !at.Before(to) {
			continue
		}
		dates.Add(at)
	}
	return dates, nil
}

// previousScheduledDate walks back from today, excluding today, for at most
// scheduleLookback days looking for a scheduled weekday.
func previousScheduledDate(today time.Time, scheduledDays []int) (time.Time, bool) {
	scheduled := weekdaySet(scheduledDays)
	if len(scheduled) == 0 {
		return time.Time{}, false
	}
	for i := 1; i <= scheduleLookback; i++ {
		candidate := addDays(today, -i)
		if scheduled[candidate.Weekday()] {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// UpdateStreak records that the user completed a full workout today and
// returns the new current streak. Calling it again on the same day returns
// the stored streak unchanged.
func (e *Engine) UpdateStreak(ctx context.Context, userID uint) (int, error) {
	today := e.today()

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		state, err := e.store.GetStreakState(ctx, userID)
		if err != nil {
			return 0, e.degraded("get_streak_state", userID, err)
		}

		if state.LastCompletedDate != nil && sameDay(e.dayOf(*state.LastCompletedDate), today) {
			return state.CurrentStreak, nil
		}

		newStreak := 1
		if prev, ok := previousScheduledDate(today, state.ScheduledDays); ok {
			done, err := e.HasCompletionOn(ctx, userID, prev)
			if err != nil {
				return 0, err
			}
			if done {
				newStreak = state.CurrentStreak + 1
			}
		}
		newLongest := max(state.LongestStreak, newStreak)

		err = e.store.WriteStreakState(ctx, userID, StateUpdate{
			CurrentStreak:     &newStreak,
			LongestStreak:     &newLongest,
			LastCompletedDate: &today,
			ExpectedVersion:   state.Version,
		})
		if errors.Is(err, ErrConflict) {
			e.log.WithField("user_id", userID).Debug("streak state changed during update, retrying")
			continue
		}
		if err != nil {
			return 0, e.degraded("write_streak_state", userID, err)
		}

		e.recorder.StreakUpdated(newStreak)
		e.publish(EventStreakUpdated, userID, newStreak, newLongest)
		return newStreak, nil
	}

	return 0, e.degraded("write_streak_state", userID, ErrConflict)
}

// CheckAndResetStreakIfMissed zeroes the streak when a scheduled day between
// the last completed date and today (both exclusive) has no completion. Today
// is never judged since it is still in progress.
func (e *Engine) CheckAndResetStreakIfMissed(ctx context.Context, userID uint) error {
	today := e.today()

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		state, err := e.store.GetStreakState(ctx, userID)
		if err != nil {
			return e.degraded("get_streak_state", userID, err)
		}

		if len(state.ScheduledDays) == 0 || state.CurrentStreak == 0 || state.LastCompletedDate == nil {
			return nil
		}
		last := e.dayOf(*state.LastCompletedDate)
		if !last.Before(today) {
			return nil
		}

		missed, err := e.findMissedDay(ctx, userID, last, today, state.ScheduledDays)
		if err != nil {
			return err
		}
		if missed.IsZero() {
			return nil
		}

		zero := 0
		err = e.store.WriteStreakState(ctx, userID, StateUpdate{
			CurrentStreak:   &zero,
			ExpectedVersion: state.Version,
		})
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return e.degraded("write_streak_state", userID, err)
		}

		e.log.WithFields(logrus.Fields{
			"user_id":     userID,
			"missed_date": missed.Format(dateLayout),
			"lost_streak": state.CurrentStreak,
		}).Info("scheduled workout missed, streak reset")
		e.recorder.StreakReset()
		e.publish(EventStreakReset, userID, 0, state.LongestStreak)
		return nil
	}

	return e.degraded("write_streak_state", userID, ErrConflict)
}

// findMissedDay returns the first scheduled day in (last, today) without a
// completion, or the zero time when there is none.
func (e *Engine) findMissedDay(ctx context.Context, userID uint, last, today time.Time, scheduledDays []int) (time.Time, error) {
	from := addDays(last, 1)
	if !from.Before(today) {
		return time.Time{}, nil
	}

	completed, err := e.completedDates(ctx, userID, from, today)
	if err != nil {
		return time.Time{}, err
	}

	scheduled := weekdaySet(scheduledDays)
	for d := from; d.Before(today); d = addDays(d, 1) {
		if scheduled[d.Weekday()] && !completed.Has(d) {
			return d, nil
		}
	}
	return time.Time{}, nil
}

// MonthCalendar renders the calendar of the month containing month for the
// user, using the stored schedule and completion logs.
func (e *Engine) MonthCalendar(ctx context.Context, userID uint, month time.Time) ([]CalendarDay, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, e.loc)
	next := first.AddDate(0, 1, 0)

	var degradedErr error
	data, err := e.GetStreakData(ctx, userID)
	if err != nil {
		degradedErr = err
	}
	completed, err := e.completedDates(ctx, userID, first, next)
	if err != nil && degradedErr == nil {
		degradedErr = err
	}

	days := GenerateMonthCalendar(first, data.ScheduledDays, completed, CalendarOptions{
		Today: e.today(),
		Epoch: e.epoch,
	})
	return days, degradedErr
}
