package commands

import "github.com/spf13/cobra"

// MigrateCmd groups the schema migration subcommands.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the listing database schema",
	}

	cmd.AddCommand(
		InitCmd(),
		CreateCmd(),
		UpCmd(),
		DownCmd(),
		StatusCmd(),
		HistoryCmd(),
		ValidateCmd(),
	)

	return cmd
}
