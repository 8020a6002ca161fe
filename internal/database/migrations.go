package database

import (
	"fmt"

	"github.com/yukikurage/office-task-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables backing the SQL repositories.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Complaint{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
