package file

import (
	"fmt"
	"io"
	"os"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// MigrationTemplate defines the format for migration files
type MigrationTemplate struct {
	Version string // Time format for version numbers
	Name    string // Format string for migration names
}

// DefaultTemplate names files like 20250301090000_add_index.sql.
var DefaultTemplate = &MigrationTemplate{
	Version: "20060102150405",
	Name:    "%s",
}

// FormatName formats a migration name according to the template
func (t *MigrationTemplate) FormatName(name string) string {
	if t.Name == "" {
		return name
	}
	return fmt.Sprintf(t.Name, name)
}

// MigrationLoader reads SQL migration files from a directory.
type MigrationLoader struct {
	directory string
	template  *MigrationTemplate
	debug     bool
	out       io.Writer
}

// NewMigrationLoader creates a new migration loader
func NewMigrationLoader(directory string, template *MigrationTemplate) *MigrationLoader {
	if template == nil {
		template = DefaultTemplate
	}
	return &MigrationLoader{
		directory: directory,
		template:  template,
		out:       os.Stdout,
	}
}

// SetDebug enables or disables debug output
func (l *MigrationLoader) SetDebug(debug bool) {
	l.debug = debug
}

// SetOutput redirects debug output.
func (l *MigrationLoader) SetOutput(w io.Writer) {
	l.out = w
}

// Directory returns the directory the loader reads from.
func (l *MigrationLoader) Directory() string {
	return l.directory
}

func (l *MigrationLoader) debugf(format string, args ...interface{}) {
	if l.debug {
		fmt.Fprintf(l.out, "[DEBUG] "+format+"\n", args...)
	}
}
