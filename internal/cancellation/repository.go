package cancellation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCancellationNotFound = errors.New("cancellation not found")

type Repository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, c *Cancellation) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, c *Cancellation) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	var c Cancellation
	err := r.db.WithContext(ctx).First(&c, "booking_id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		return nil, err
	}
	return &c, nil
}
