package main

import (
	"gorm.io/gorm"

	"github.com/collabhub/engine/internal/models"
)

// registerModels returns all models that need migration.
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Project{},
		&models.TeamRequest{},
		&models.TeamMember{},
	}
}

// runMigrations executes all database migrations.
func runMigrations(db *gorm.DB) error {
	if err := enableUUIDExtension(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle.
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addRequestStatusIndex,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// enableUUIDExtension ensures UUID generation is available.
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addRequestStatusIndex speeds up the incoming-requests listing.
func addRequestStatusIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_team_requests_target_created
		ON team_requests(target_email, created_at)
	`).Error
}
