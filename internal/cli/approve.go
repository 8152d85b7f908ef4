package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/streaklog/internal/service"
)

// NewApproveCommand creates the approve command.
func NewApproveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "approve <username>",
		Short:         "Approve a pending registration",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			user, err := service.NewUserService(env.db).ApproveByUsername(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("approve %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, map[string]interface{}{
					"id":          user.ID,
					"username":    user.Username,
					"approved":    user.Approved,
					"approved_at": user.ApprovedAt,
				})
			}
			fmt.Fprintf(out, "approved %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
}
