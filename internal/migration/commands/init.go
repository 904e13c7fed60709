package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize migration tracking table in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrationsDir, err := getMigrationsDir()
			if err != nil {
				return fmt.Errorf("failed to validate migrations directory: %w", err)
			}

			if err := os.MkdirAll(migrationsDir, 0755); err != nil {
				return fmt.Errorf("failed to create migrations directory: %w", err)
			}

			migrator, closeDB, err := getMigrator(false)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := migrator.Init(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migration system initialized successfully in %s\n", migrationsDir)
			return nil
		},
	}
}
