// Package cli implements streakctl, the operator tool for a streaklog
// database.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabasePath string
	Timezone     string
	Epoch        string
	Format       string // "json" | "text"
	Verbose      bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for streakctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "streakctl",
		Short: "Operate a streaklog database",
		Long: `Operator commands for a streaklog database: approve registrations,
run the missed-day audit and inspect schedules and calendars.

Database, timezone and epoch default to the server configuration
(CONFIG_FILE and environment) and can be overridden with flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DatabasePath, "db", "", "sqlite database path (default from DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "tz", "", "timezone for calendar days (default from TIMEZONE)")
	cmd.PersistentFlags().StringVar(&opts.Epoch, "epoch", "", "streak epoch YYYY-MM-DD (default from STREAK_EPOCH)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewApproveCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewCalendarCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}
