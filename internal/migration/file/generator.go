package file

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var validName = regexp.MustCompile(`^[a-z0-9_]+$`)

const sqlTemplate = `-- +migrate Up
-- SQL in this section is executed when the migration is applied.

-- +migrate Down
-- SQL in this section is executed when the migration is rolled back.
`

// GenerateMigration writes an empty SQL migration stamped with now and
// returns its path.
func (l *MigrationLoader) GenerateMigration(name string, now time.Time) (string, error) {
	formattedName := l.template.FormatName(name)
	if !validName.MatchString(formattedName) {
		return "", fmt.Errorf("invalid migration name %q: use lowercase letters, digits and underscores", formattedName)
	}

	if err := os.MkdirAll(l.directory, 0755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := now.Format(l.template.Version)
	path := filepath.Join(l.directory, fmt.Sprintf("%s_%s.sql", version, formattedName))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration file %s already exists", path)
	}

	if err := os.WriteFile(path, []byte(sqlTemplate), 0644); err != nil {
		return "", fmt.Errorf("failed to write migration file: %w", err)
	}
	return path, nil
}
