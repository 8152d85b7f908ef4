package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/streaklog/internal/streak"
)

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "schedule <user-id>",
		Short:         "Re-derive and store the user's scheduled weekdays",
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

			days, err := env.engine.UpdateScheduledDays(cmd.Context(), userID)
			note, err := degradedNote(err)
			if err != nil {
				return err
			}

			labels := make([]string, 0, len(days))
			for _, d := range days {
				labels = append(labels, streak.WeekdayLabel(time.Weekday(d)))
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, map[string]interface{}{
					"user_id":        userID,
					"scheduled_days": days,
					"weekdays":       labels,
					"degraded":       note != "",
				})
			}

			writeNote(cmd.ErrOrStderr(), note)
			if len(labels) == 0 {
				fmt.Fprintf(out, "user %d: no workouts scheduled\n", userID)
				return nil
			}
			fmt.Fprintf(out, "user %d: %s\n", userID, strings.Join(labels, ", "))
			return nil
		},
	}
}
