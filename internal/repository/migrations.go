package repository

import (
	"gorm.io/gorm"

	"github.com/bearister/auth-service/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
	}
}

// RunMigrations executes all database migrations.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addCaseInsensitiveEmailIndex,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// addCaseInsensitiveEmailIndex guards against rows that differ only in email
// case, even if they bypass normalization.
func addCaseInsensitiveEmailIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower
		ON users (lower(email))
	`).Error
}
