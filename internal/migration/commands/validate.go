package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"estatehub/internal/migration"
	"estatehub/internal/models"
	"estatehub/internal/schema"
)

func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate models and migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			names := make([]string, 0, len(models.ModelTypeRegistry))
			for name := range models.ModelTypeRegistry {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprintf(out, "%-16s  %-20s  %-8s\n", "Model", "Table", "Columns")
			for _, name := range names {
				table, err := schema.CreateTableFromModel(models.ModelTypeRegistry[name])
				if err != nil {
					return fmt.Errorf("validation failed: %w", err)
				}
				fmt.Fprintf(out, "%-16s  %-20s  %-8d\n", name, table.TableName(), len(table.Columns))
			}

			all, err := loadMigrations(false)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if _, err := migration.NewMigrator(nil, all...); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			fmt.Fprintf(out, "All %d migrations are valid\n", len(all))
			return nil
		},
	}
}
