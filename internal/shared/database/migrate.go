package database

import (
	"fmt"

	"cinebook/internal/bookings"
	"cinebook/internal/cancellation"
	"cinebook/internal/halls"
	"cinebook/internal/movies"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"
	"cinebook/internal/wallet"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	// order follows foreign keys
	err := db.AutoMigrate(
		&users.User{},
		&wallet.Transaction{},
		&movies.Movie{},
		&halls.Hall{},
		&seats.Seat{},
		&showtimes.Showtime{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Payment{},
		&cancellation.Cancellation{},
	)
	if err != nil {
		return err
	}
	return MigrateConstraints(db)
}
