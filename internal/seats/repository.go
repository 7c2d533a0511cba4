package seats

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSeatNotFound = errors.New("seat not found")

type Repository interface {
	CreateSeats(ctx context.Context, tx *gorm.DB, seats []Seat) error
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsByHallID(ctx context.Context, hallID uuid.UUID) ([]Seat, error)
	UpdateSeatType(ctx context.Context, id uuid.UUID, seatType SeatType) error
	// BookedSeatIDs returns the seats held by live bookings of a showtime
	BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) (map[uuid.UUID]bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, tx *gorm.DB, seats []Seat) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).CreateInBatches(&seats, 200).Error
}

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	if err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByHallID(ctx context.Context, hallID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("hall_id = ?", hallID).
		Order("row_label ASC, seat_number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) UpdateSeatType(ctx context.Context, id uuid.UUID, seatType SeatType) error {
	result := r.db.WithContext(ctx).Model(&Seat{}).Where("id = ?", id).Update("seat_type", seatType)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSeatNotFound
	}
	return nil
}

func (r *repository) BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("booking_seats").
		Where("showtime_id = ?", showtimeID).
		Pluck("seat_id", &ids).Error
	if err != nil {
		return nil, err
	}

	booked := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		booked[id] = true
	}
	return booked, nil
}
