package migrations

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clubsuite/elections-api/internal/logger"
)

// Migration represents a database migration
type Migration struct {
	ID   string
	Name string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// GetMigrations returns all available migrations in order
func GetMigrations() []Migration {
	return []Migration{
		{
			ID:   "001",
			Name: "create_extensions_and_types",
			Up:   migration001Up,
			Down: migration001Down,
		},
		{
			ID:   "002",
			Name: "create_core_tables",
			Up:   migration002Up,
			Down: migration002Down,
		},
		{
			ID:   "003",
			Name: "create_indexes_and_constraints",
			Up:   migration003Up,
			Down: migration003Down,
		},
	}
}

type migrationRecord struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string {
	return "schema_migrations"
}

// RunMigrations executes all pending migrations
func RunMigrations(db *gorm.DB) error {
	log := logger.Migration()

	if err := db.AutoMigrate(&migrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range GetMigrations() {
		if hasBeenRun(db, migration.ID) {
			log.Debug("Migration already applied, skipping", "id", migration.ID, "name", migration.Name)
			continue
		}

		log.Info("Running migration", "id", migration.ID, "name", migration.Name)

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("failed to run migration %s: %w", migration.ID, err)
			}
			return tx.Create(&migrationRecord{ID: migration.ID, Name: migration.Name}).Error
		})
		if err != nil {
			return err
		}

		log.Info("Migration applied", "id", migration.ID, "name", migration.Name)
	}

	return nil
}

// RollbackMigration reverts the most recently applied migration
func RollbackMigration(db *gorm.DB) error {
	log := logger.Migration()

	var last migrationRecord
	if err := db.Order("id DESC").First(&last).Error; err != nil {
		return fmt.Errorf("no migrations to roll back: %w", err)
	}

	for _, migration := range GetMigrations() {
		if migration.ID != last.ID {
			continue
		}

		log.Info("Rolling back migration", "id", migration.ID, "name", migration.Name)

		return db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Down(tx); err != nil {
				return fmt.Errorf("failed to roll back migration %s: %w", migration.ID, err)
			}
			return tx.Delete(&migrationRecord{}, "id = ?", migration.ID).Error
		})
	}

	return fmt.Errorf("migration %s not found", last.ID)
}

func hasBeenRun(db *gorm.DB, id string) bool {
	var count int64
	db.Model(&migrationRecord{}).Where("id = ?", id).Count(&count)
	return count > 0
}
