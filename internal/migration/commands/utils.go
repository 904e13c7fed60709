package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"estatehub/internal/config"
	"estatehub/internal/database"
	"estatehub/internal/migration"
	"estatehub/internal/migration/file"
	"estatehub/internal/migrations"
)

func getDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, nil)
}

func validateMigrationsPath(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("invalid migrations path: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if absPath != wd && !strings.HasPrefix(absPath, wd+string(filepath.Separator)) {
		return "", fmt.Errorf("migrations path must be within working directory")
	}

	return absPath, nil
}

func getMigrationsDir() (string, error) {
	dir := os.Getenv("MIGRATIONS_PATH")
	if dir == "" {
		dir = "migrations"
	}
	return validateMigrationsPath(dir)
}

func getMigrationLoader(debug bool) (*file.MigrationLoader, error) {
	dir, err := getMigrationsDir()
	if err != nil {
		return nil, err
	}
	loader := file.NewMigrationLoader(dir, file.DefaultTemplate)
	loader.SetDebug(debug)
	return loader, nil
}

// loadMigrations merges the built-in schema migrations with SQL files.
func loadMigrations(debug bool) ([]*migration.Migration, error) {
	loader, err := getMigrationLoader(debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration loader: %w", err)
	}

	fromFiles, err := loader.LoadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return append(migrations.All(), fromFiles...), nil
}

// getMigrator opens the database and builds a migrator over every known
// migration. The returned func closes the database.
func getMigrator(debug bool) (*migration.Migrator, func(), error) {
	all, err := loadMigrations(debug)
	if err != nil {
		return nil, nil, err
	}

	db, err := getDB()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = database.Close(db) }

	migrator, err := migration.NewMigrator(db, all...)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return migrator, closeDB, nil
}
