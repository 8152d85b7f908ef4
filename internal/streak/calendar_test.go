package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusByDay(days []CalendarDay) map[int]DayStatus {
	out := make(map[int]DayStatus, len(days))
	for _, d := range days {
		if d.DayOfMonth > 0 {
			out[d.DayOfMonth] = d.Status
		}
	}
	return out
}

func TestGenerateMonthCalendarPadding(t *testing.T) {
	// October 2025 starts on a Wednesday.
	days := GenerateMonthCalendar(date(2025, 10, 17), nil, nil, CalendarOptions{Today: date(2025, 10, 17)})
	require.Len(t, days, 3+31)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, days[i].DayOfMonth)
		assert.Equal(t, StatusNotScheduled, days[i].Status)
		assert.True(t, days[i].Date.IsZero())
	}
	assert.Equal(t, 1, days[3].DayOfMonth)
	assert.Equal(t, time.Wednesday, days[3].Date.Weekday())
	assert.Equal(t, 31, days[len(days)-1].DayOfMonth)
}

func TestGenerateMonthCalendarNoPaddingWhenMonthStartsOnSunday(t *testing.T) {
	// June 2025 starts on a Sunday and has 30 days.
	days := GenerateMonthCalendar(date(2025, 6, 1), nil, nil, CalendarOptions{})
	require.Len(t, days, 30)
	assert.Equal(t, 1, days[0].DayOfMonth)
}

func TestGenerateMonthCalendarLeapFebruary(t *testing.T) {
	days := GenerateMonthCalendar(date(2024, 2, 10), nil, nil, CalendarOptions{})
	// February 2024 starts on a Thursday.
	require.Len(t, days, 4+29)
}

func TestGenerateMonthCalendarClassification(t *testing.T) {
	completed := NewDateSet(at(2025, 10, 8, 10), at(2025, 10, 11, 18), at(2025, 10, 20, 7))
	days := GenerateMonthCalendar(date(2025, 10, 1), []int{1, 3, 5}, completed, CalendarOptions{
		Today: at(2025, 10, 15, 12),
	})
	status := statusByDay(days)

	assert.Equal(t, StatusMissed, status[1], "past scheduled Wednesday without log")
	assert.Equal(t, StatusNotScheduled, status[2])
	assert.Equal(t, StatusMissed, status[6])
	assert.Equal(t, StatusCompleted, status[8])
	assert.Equal(t, StatusCompleted, status[11], "completion on an unscheduled day")
	assert.Equal(t, StatusScheduled, status[15], "today is never missed")
	assert.Equal(t, StatusScheduled, status[17])
	assert.Equal(t, StatusCompleted, status[20], "completion wins even in the future")
	assert.Equal(t, StatusNotScheduled, status[21])

	for _, d := range days {
		assert.Equal(t, d.DayOfMonth == 15, d.IsToday)
	}
}

func TestGenerateMonthCalendarCompletedBeatsMissed(t *testing.T) {
	completed := NewDateSet(date(2025, 10, 6))
	days := GenerateMonthCalendar(date(2025, 10, 1), []int{1}, completed, CalendarOptions{Today: date(2025, 10, 30)})
	status := statusByDay(days)

	assert.Equal(t, StatusCompleted, status[6])
	assert.Equal(t, StatusMissed, status[13])
}

func TestGenerateMonthCalendarEpochSuppressesMissed(t *testing.T) {
	days := GenerateMonthCalendar(date(2025, 10, 1), []int{1}, nil, CalendarOptions{
		Today: date(2025, 10, 30),
		Epoch: date(2025, 10, 14),
	})
	status := statusByDay(days)

	assert.Equal(t, StatusScheduled, status[6])
	assert.Equal(t, StatusScheduled, status[13])
	assert.Equal(t, StatusMissed, status[20])
	assert.Equal(t, StatusMissed, status[27])
}

func TestGenerateMonthCalendarUsesMonthLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	month := time.Date(2025, 10, 1, 0, 0, 0, 0, tokyo)
	today := time.Date(2025, 10, 14, 20, 0, 0, 0, time.UTC) // 15th in Tokyo

	days := GenerateMonthCalendar(month, nil, nil, CalendarOptions{Today: today})
	for _, d := range days {
		if d.IsToday {
			assert.Equal(t, 15, d.DayOfMonth)
			return
		}
	}
	t.Fatal("no day flagged as today")
}
