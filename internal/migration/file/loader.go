package file

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"estatehub/internal/migration"
)

// LoadMigrations parses every <version>_<name>.sql file in the directory.
// A missing directory yields no migrations.
func (l *MigrationLoader) LoadMigrations() ([]*migration.Migration, error) {
	if _, err := os.Stat(l.directory); os.IsNotExist(err) {
		return []*migration.Migration{}, nil
	}

	files, err := os.ReadDir(l.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []*migration.Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		mr, err := l.parseMigrationFile(filepath.Join(l.directory, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration file %s: %w", file.Name(), err)
		}
		migrations = append(migrations, mr)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationFile parses a single migration file to extract migration information
func (l *MigrationLoader) parseMigrationFile(filePath string) (*migration.Migration, error) {
	fileName := filepath.Base(filePath)
	parts := strings.SplitN(strings.TrimSuffix(fileName, ".sql"), "_", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid migration filename format: %s", fileName)
	}
	version, name := parts[0], parts[1]
	if !isDigits(version) {
		return nil, fmt.Errorf("invalid migration version %q in %s", version, fileName)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	up, down, err := l.splitSections(string(content))
	if err != nil {
		return nil, err
	}
	l.debugf("%s: %d up statements, %d down statements", fileName, len(up), len(down))

	return &migration.Migration{
		Version: version,
		Name:    name,
		Up:      execAll(up),
		Down:    execAll(down),
	}, nil
}

// splitSections separates the Up and Down sections and splits each into
// statements terminated by a semicolon at end of line.
func (l *MigrationLoader) splitSections(content string) (up, down []string, err error) {
	var (
		current *[]string
		stmt    strings.Builder
		seenUp  bool
	)

	flush := func() {
		s := strings.TrimSpace(stmt.String())
		if s != "" && current != nil {
			*current = append(*current, s)
		}
		stmt.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.EqualFold(trimmed, upMarker):
			flush()
			current, seenUp = &up, true
			l.debugf("entering Up section at line %d", lineNo)
			continue
		case strings.EqualFold(trimmed, downMarker):
			flush()
			current = &down
			l.debugf("entering Down section at line %d", lineNo)
			continue
		case trimmed == "" || strings.HasPrefix(trimmed, "--"):
			continue
		}

		if current == nil {
			return nil, nil, fmt.Errorf("statement outside of a section at line %d", lineNo)
		}
		stmt.WriteString(line)
		stmt.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(stmt.String()) != "" {
		return nil, nil, fmt.Errorf("unterminated statement at end of file")
	}
	if !seenUp {
		return nil, nil, fmt.Errorf("missing %q section", upMarker)
	}
	return up, down, nil
}

func execAll(statements []string) func(*gorm.DB) error {
	return func(db *gorm.DB) error {
		for _, statement := range statements {
			if err := db.Exec(statement).Error; err != nil {
				return fmt.Errorf("failed to execute SQL: %w", err)
			}
		}
		return nil
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
