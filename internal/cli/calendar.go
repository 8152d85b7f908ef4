package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/streaklog/internal/streak"
)

const monthLayout = "2006-01"

var statusMarks = map[streak.DayStatus]string{
	streak.StatusCompleted:    "*",
	streak.StatusMissed:       "x",
	streak.StatusScheduled:    "+",
	streak.StatusNotScheduled: " ",
}

// NewCalendarCommand creates the calendar command.
func NewCalendarCommand(rootOpts *RootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:           "calendar <user-id>",
		Short:         "Print the month calendar of a user",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			env, err := openEnvironment(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			target := env.engine.Now()
			if month != "" {
				target, err = time.ParseInLocation(monthLayout, month, env.engine.Location())
				if err != nil {
					return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
				}
			}

			days, err := env.engine.MonthCalendar(cmd.Context(), userID, target)
			note, err := degradedNote(err)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, calendarJSON(target, days, note != ""))
			}
			writeNote(cmd.ErrOrStderr(), note)
			renderCalendar(out, target, days)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to render, YYYY-MM (default current month)")
	return cmd
}

type calendarDayJSON struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	IsToday bool   `json:"is_today"`
}

func calendarJSON(month time.Time, days []streak.CalendarDay, degraded bool) map[string]interface{} {
	items := make([]calendarDayJSON, 0, len(days))
	for _, day := range days {
		if day.DayOfMonth == 0 {
			continue
		}
		items = append(items, calendarDayJSON{
			Date:    day.Date.Format("2006-01-02"),
			Status:  string(day.Status),
			IsToday: day.IsToday,
		})
	}
	return map[string]interface{}{
		"month":    month.Format(monthLayout),
		"days":     items,
		"degraded": degraded,
	}
}

// renderCalendar prints a Sunday-first grid, one mark after each day number.
func renderCalendar(w io.Writer, month time.Time, days []streak.CalendarDay) {
	fmt.Fprintf(w, "%s %d\n", month.Month(), month.Year())
	fmt.Fprintln(w, " Su  Mo  Tu  We  Th  Fr  Sa")

	var line strings.Builder
	for i, day := range days {
		if day.DayOfMonth == 0 {
			line.WriteString("    ")
		} else {
			mark := statusMarks[day.Status]
			if day.IsToday {
				mark = "<"
				if day.Status == streak.StatusCompleted {
					mark = "@"
				}
			}
			fmt.Fprintf(&line, "%3d%s", day.DayOfMonth, mark)
		}
		if i%7 == 6 || i == len(days)-1 {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	fmt.Fprintln(w, "* completed  x missed  + scheduled  < today  @ done today")
}
