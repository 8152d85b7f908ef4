package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <user-id>",
		Short: "Reset the user's streak if a scheduled day was missed",
		Long: `Run the missed-day audit for one user, the same check the server
performs when a session starts. Today is never judged.`,
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

			ctx := cmd.Context()
			before, err := env.engine.GetStreakData(ctx, userID)
			if err != nil {
				return fmt.Errorf("read streak: %w", err)
			}
			note, err := degradedNote(env.engine.CheckAndResetStreakIfMissed(ctx, userID))
			if err != nil {
				return err
			}
			after, err := env.engine.GetStreakData(ctx, userID)
			if err != nil {
				return fmt.Errorf("read streak: %w", err)
			}

			reset := before.CurrentStreak > 0 && after.CurrentStreak == 0
			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, map[string]interface{}{
					"user_id":        userID,
					"reset":          reset,
					"previous":       before.CurrentStreak,
					"current_streak": after.CurrentStreak,
					"longest_streak": after.LongestStreak,
					"degraded":       note != "",
				})
			}

			writeNote(cmd.ErrOrStderr(), note)
			if reset {
				fmt.Fprintf(out, "user %d: missed a scheduled day, streak reset from %d to 0\n", userID, before.CurrentStreak)
				return nil
			}
			fmt.Fprintf(out, "user %d: streak %d kept (longest %d)\n", userID, after.CurrentStreak, after.LongestStreak)
			return nil
		},
	}
}
