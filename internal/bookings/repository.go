package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSeatTaken         = errors.New("one or more selected seats have just been booked")
	ErrInvalidTransition = errors.New("booking cannot change to the requested status")
)

type Repository interface {
	// Transaction runs fn in one database transaction
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	CodeExists(ctx context.Context, code string) (bool, error)
	// CreatePending inserts the booking with its seat rows; a seat already
	// held for the showtime yields ErrSeatTaken.
	CreatePending(ctx context.Context, booking *Booking) error
	Confirm(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, payment *Payment, at time.Time) error
	// Fail cancels a pending booking, releases its seats and records the failed payment.
	Fail(ctx context.Context, bookingID uuid.UUID, payment *Payment, reason string, at time.Time) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	List(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// CancelTx moves a live booking to cancelled and frees its seats inside tx.
	// refunded marks its completed payments as refunded.
	CancelTx(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, at time.Time, refunded bool) error
	ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).Where("booking_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *repository) CreatePending(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seats := booking.Seats
		booking.Seats = nil
		if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			return err
		}
		for i := range seats {
			seats[i].BookingID = booking.ID
			seats[i].ShowtimeID = booking.ShowtimeID
		}
		if err := tx.Create(&seats).Error; err != nil {
			return err
		}
		booking.Seats = seats
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSeatTaken
	}
	return err
}

func (r *repository) Confirm(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, payment *Payment, at time.Time) error {
	db := r.conn(ctx, tx)
	result := db.Model(&Booking{}).
		Where("id = ? AND status = ?", bookingID, StatusPending).
		Updates(map[string]interface{}{
			"status":       StatusConfirmed,
			"confirmed_at": at,
			"expires_at":   nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	payment.BookingID = bookingID
	return db.Create(payment).Error
}

func (r *repository) Fail(ctx context.Context, bookingID uuid.UUID, payment *Payment, reason string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", bookingID, StatusPending).
			Updates(map[string]interface{}{
				"status":         StatusCancelled,
				"cancelled_at":   at,
				"failure_reason": reason,
				"expires_at":     nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		if err := tx.Where("booking_id = ?", bookingID).Delete(&BookingSeat{}).Error; err != nil {
			return err
		}
		if payment == nil {
			return nil
		}
		payment.BookingID = bookingID
		return tx.Create(payment).Error
	})
}

func (r *repository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Seats", func(db *gorm.DB) *gorm.DB { return db.Order("seat_label") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("processed_at") }).
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Showtime.Hall")
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.withDetails(r.db.WithContext(ctx)).First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.conn(ctx, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID), query)
}

func (r *repository) List(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return r.list(r.db.WithContext(ctx), query)
}

func (r *repository) list(db *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var (
		bookings []Booking
		total    int64
	)
	db = db.Model(&Booking{})
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.withDetails(db).
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *repository) CancelTx(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, at time.Time, refunded bool) error {
	db := r.conn(ctx, tx)
	result := db.Model(&Booking{}).
		Where("id = ? AND status IN ?", bookingID, []Status{StatusPending, StatusConfirmed}).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": at,
			"expires_at":   nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	if err := db.Where("booking_id = ?", bookingID).Delete(&BookingSeat{}).Error; err != nil {
		return err
	}
	if !refunded {
		return nil
	}
	return db.Model(&Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, PaymentCompleted).
		Update("status", PaymentRefunded).Error
}

func (r *repository) ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", StatusPending, before).
		Order("expires_at").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}
