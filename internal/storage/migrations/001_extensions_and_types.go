package migrations

import "gorm.io/gorm"

// migration001Up creates the uuid extension and enum types the core
// tables depend on
func migration001Up(db *gorm.DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
		`DO $$ BEGIN
			CREATE TYPE event_status AS ENUM ('scheduled', 'active', 'closed');
		EXCEPTION
			WHEN duplicate_object THEN NULL;
		END $$`,
		`DO $$ BEGIN
			CREATE TYPE resolution_method AS ENUM ('automatic', 'manual');
		EXCEPTION
			WHEN duplicate_object THEN NULL;
		END $$`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration001Down drops the enum types (the extension is shared, it
// stays)
func migration001Down(db *gorm.DB) error {
	statements := []string{
		`DROP TYPE IF EXISTS resolution_method`,
		`DROP TYPE IF EXISTS event_status`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
