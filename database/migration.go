package database

import (
	"fmt"

	"event-guard/models/event"
	"event-guard/models/log"
	"event-guard/models/otp"
	"event-guard/models/registration"
	"event-guard/models/user"

	"gorm.io/gorm"
)

// Migrate runs auto migration for all models in dependency order.
func Migrate(db *gorm.DB) error {
	// Stage 1: core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&otp.OTP{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models with dependencies on stage 1
	stage2Models := []interface{}{
		&event.Event{},
		&registration.EventRegistration{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: remaining models
	remainingModels := []interface{}{
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better query performance.
func createIndexes(db *gorm.DB) error {
	// User indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)").Error; err != nil {
		return fmt.Errorf("failed to create user email index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)").Error; err != nil {
		return fmt.Errorf("failed to create user role index: %w", err)
	}

	// OTP indexes: verification always reads the newest unused row per
	// (email, purpose)
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_otps_email_purpose_used ON otps(email, purpose, used)").Error; err != nil {
		return fmt.Errorf("failed to create otp lookup index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_otps_expires_at ON otps(expires_at)").Error; err != nil {
		return fmt.Errorf("failed to create otp expires_at index: %w", err)
	}

	// Event indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)").Error; err != nil {
		return fmt.Errorf("failed to create event date index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_organizer_id ON events(organizer_id)").Error; err != nil {
		return fmt.Errorf("failed to create event organizer_id index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)").Error; err != nil {
		return fmt.Errorf("failed to create event status index: %w", err)
	}

	// Registration indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_registrations_user_id ON event_registrations(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create registration user_id index: %w", err)
	}

	// Log indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}
