package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qrave1/MeetPlanner/internal/application/constant"
)

// version подставляется при сборке через -ldflags "-X"
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "meetplanner",
	Short: "MeetPlanner schedules meetings, pushes calendar updates over WebSocket and sends reminders.",
	Long: `MeetPlanner serves the /ws gateway for admins and users, keeps meetings in
Postgres (or in memory with STORAGE=memory), marks overlapping meetings of one user
and mails reminders shortly before a meeting starts.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("meetplanner stopped", slog.Any(constant.Error, err))
		os.Exit(1)
	}
}
