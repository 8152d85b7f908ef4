package streak

import "time"

// DayStatus classifies a calendar cell.
type DayStatus string

const (
	StatusCompleted    DayStatus = "completed"
	StatusMissed       DayStatus = "missed"
	StatusScheduled    DayStatus = "scheduled"
	StatusNotScheduled DayStatus = "not-scheduled"
)

// CalendarDay is one rendered calendar cell. Padding cells before the first
// of the month have a zero Date and DayOfMonth 0.
type CalendarDay struct {
	Date       time.Time
	Status     DayStatus
	IsToday    bool
	DayOfMonth int
}

// CalendarOptions carries the reference points of a rendering.
type CalendarOptions struct {
	Today time.Time
	// Epoch is the first day streaks were tracked. Scheduled days before it
	// are never reported as missed. Zero disables the gate.
	Epoch time.Time
}

// GenerateMonthCalendar classifies every day of the month containing month.
// Days are evaluated in month's location. Completed wins over everything;
// a scheduled day strictly before today is missed unless it precedes the
// epoch, otherwise it is scheduled.
func GenerateMonthCalendar(month time.Time, scheduledDays []int, completed DateSet, opts CalendarOptions) []CalendarDay {
	loc := month.Location()
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	lastDay := time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, loc).Day()
	padding := int(first.Weekday())

	today := opts.Today
	if !today.IsZero() {
		today = startOfDay(today.In(loc))
	}
	epoch := opts.Epoch
	if !epoch.IsZero() {
		epoch = startOfDay(epoch.In(loc))
	}
	scheduled := weekdaySet(scheduledDays)

	days := make([]CalendarDay, 0, padding+lastDay)
	for i := 0; i < padding; i++ {
		days = append(days, CalendarDay{Status: StatusNotScheduled})
	}

	for d := 1; d <= lastDay; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc)
		day := CalendarDay{
			Date:       date,
			DayOfMonth: d,
			IsToday:    !today.IsZero() && sameDay(date, today),
		}

		switch {
		case completed.Has(date):
			day.Status = StatusCompleted
		case scheduled[date.Weekday()]:
			day.Status = StatusScheduled
			if date.Before(today) && (epoch.IsZero() || !date.Before(epoch)) {
				day.Status = StatusMissed
			}
		default:
			day.Status = StatusNotScheduled
		}
		days = append(days, day)
	}

	return days
}
