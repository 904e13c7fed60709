package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"estatehub/internal/models"
	"estatehub/internal/schema"
)

func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")

			migrator, closeDB, err := getMigrator(debug)
			if err != nil {
				return err
			}
			defer closeDB()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, s := range statuses {
				status := "Pending"
				if s.Applied {
					status = "Applied"
				}
				fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", s.Migration.Version, s.Migration.Name, status)
			}

			drift, err := schema.CompareDatabase(migrator.DB(), models.All()...)
			if err != nil {
				return err
			}
			if len(drift) == 0 {
				fmt.Fprintln(out, "Schema is up to date with models")
				return nil
			}
			fmt.Fprintf(out, "Schema drift (%d):\n", len(drift))
			for _, d := range drift {
				fmt.Fprintf(out, "  - %s\n", d)
			}

			return nil
		},
	}

	cmd.Flags().Bool("debug", false, "Enable debug output")

	return cmd
}
