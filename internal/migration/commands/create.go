package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func CreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := getMigrationLoader(false)
			if err != nil {
				return fmt.Errorf("failed to validate migrations directory: %w", err)
			}

			path, err := loader.GenerateMigration(args[0], time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created migration: %s\n", path)
			return nil
		},
	}
}
