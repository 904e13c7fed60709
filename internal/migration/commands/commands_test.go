package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd(t *testing.T) {
	cmd := InitCmd()
	assert.Equal(t, "init", cmd.Use)
	assert.Equal(t, "Initialize migration tracking table in the database", cmd.Short)
}

func TestCreateCmd(t *testing.T) {
	cmd := CreateCmd()
	assert.Equal(t, "create [name]", cmd.Use)
	assert.Equal(t, "Create a new migration file", cmd.Short)
}

func TestUpCmd(t *testing.T) {
	cmd := UpCmd()
	assert.Equal(t, "up", cmd.Use)
	assert.Equal(t, "Apply all pending migrations", cmd.Short)

	flags := cmd.Flags()
	assert.NotNil(t, flags.Lookup("dry-run"))
	assert.NotNil(t, flags.Lookup("debug"))
}

func TestDownCmd(t *testing.T) {
	cmd := DownCmd()
	assert.Equal(t, "down", cmd.Use)
	assert.Equal(t, "Revert the last migration", cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("debug"))
}

func TestStatusCmd(t *testing.T) {
	cmd := StatusCmd()
	assert.Equal(t, "status", cmd.Use)
	assert.Equal(t, "Show status of all migrations", cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("debug"))
}

func TestHistoryCmd(t *testing.T) {
	cmd := HistoryCmd()
	assert.Equal(t, "history", cmd.Use)
	assert.Equal(t, "Show migration history", cmd.Short)
}

func TestValidateCmd(t *testing.T) {
	cmd := ValidateCmd()
	assert.Equal(t, "validate", cmd.Use)
	assert.Equal(t, "Validate models and migrations", cmd.Short)
}

func TestMigrateCmdHasSubcommands(t *testing.T) {
	var names []string
	for _, c := range MigrateCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"init", "create", "up", "down", "status", "history", "validate"}, names)
}

// workspace switches into a fresh directory holding a SQLite database and
// points the environment at it.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "estatehub.db"))
	t.Setenv("MIGRATIONS_PATH", "migrations")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "estatehub", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(MigrateCmd())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"migrate"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestMigrateLifecycle(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Migration system initialized successfully")
	assert.DirExists(t, filepath.Join(dir, "migrations"))

	out, err = run(t, "create", "add_listing_views")
	require.NoError(t, err)
	assert.Contains(t, out, "Created migration:")

	files, err := os.ReadDir(filepath.Join(dir, "migrations"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0].Name(), "_add_listing_views.sql"))

	out, err = run(t, "up", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "- create_listing_tables (20250301090000)")
	assert.Contains(t, out, "- add_listing_views")

	out, err = run(t, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully applied migration: create_listing_tables")
	assert.Contains(t, out, "Successfully applied migration: add_listing_views")

	out, err = run(t, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending migrations.")

	out, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "index_properties_created_at")
	assert.NotContains(t, out, "Pending")
	assert.Contains(t, out, "Schema is up to date with models")

	out, err = run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "create_listing_tables")

	out, err = run(t, "down")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully reverted migration: add_listing_views")

	out, err = run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "properties")
	assert.Contains(t, out, "All 3 migrations are valid")
}

func TestMigrationsPathOutsideWorkingDirectory(t *testing.T) {
	workspace(t)
	t.Setenv("MIGRATIONS_PATH", "../elsewhere")

	_, err := run(t, "create", "nope")
	assert.Error(t, err)
}
