// Package migrations holds the versioned schema of the listing database.
package migrations

import (
	"gorm.io/gorm"

	"estatehub/internal/migration"
	"estatehub/internal/models"
)

// All returns the built-in schema migrations. SQL files from the migrations
// directory are applied alongside them, ordered by version.
func All() []*migration.Migration {
	return []*migration.Migration{
		{
			Version: "20250301090000",
			Name:    "create_listing_tables",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(models.All()...)
			},
			Down: func(db *gorm.DB) error {
				tables := models.All()
				for i := len(tables) - 1; i >= 0; i-- {
					if err := db.Migrator().DropTable(tables[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version: "20250315120000",
			Name:    "index_properties_created_at",
			Up: func(db *gorm.DB) error {
				return db.Exec(`CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties (created_at DESC)`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`DROP INDEX IF EXISTS idx_properties_created_at`).Error
			},
		},
	}
}
