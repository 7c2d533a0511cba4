package database

import (
	"fmt"

	"gorm.io/gorm"
)

// constraints that struct tags cannot express
var constraintStatements = []string{
	// the expiry job scans only pending rows
	`CREATE INDEX IF NOT EXISTS idx_bookings_pending_expiry
		ON bookings (expires_at) WHERE status = 'pending'`,

	`CREATE INDEX IF NOT EXISTS idx_showtimes_hall_date
		ON showtimes (hall_id, show_date)`,

	// wallet balance never goes negative
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_users_wallet_balance') THEN
			ALTER TABLE users ADD CONSTRAINT chk_users_wallet_balance CHECK (wallet_balance >= 0);
		END IF;
	END $$`,
}

// MigrateConstraints adds indexes and checks after AutoMigrate has created the tables
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}
	return nil
}
