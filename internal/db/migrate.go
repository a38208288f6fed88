package db

import (
	"gorm.io/gorm"

	"subtrack-go/internal/domain/category"
	"subtrack-go/internal/domain/job"
	"subtrack-go/internal/domain/reminder"
	"subtrack-go/internal/domain/subscription"
	"subtrack-go/internal/domain/user"
)

// Migrate creates or updates the schema from the domain models. The schema is
// small enough that AutoMigrate beats maintaining SQL files for two drivers.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&user.User{},
		&category.Category{},
		&subscription.Subscription{},
		&reminder.Reminder{},
		&job.Job{},
	)
}
