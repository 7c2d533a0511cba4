package halls

import (
	"context"
	"errors"
	"fmt"

	"cinebook/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrHallNotFound = errors.New("hall not found")
	ErrHallExists   = errors.New("hall with this name already exists")
	ErrHallInUse    = errors.New("hall has showtimes")
)

type Repository interface {
	// CreateWithSeats stores the hall and its generated seats atomically
	CreateWithSeats(ctx context.Context, hall *Hall, rows []RowLayout) ([]seats.Seat, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Hall, error)
	List(ctx context.Context, query HallListQuery) ([]Hall, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountSeatsByType(ctx context.Context, hallID uuid.UUID) (map[string]int, error)
}

type repository struct {
	db       *gorm.DB
	seatRepo seats.Repository
}

func NewRepository(db *gorm.DB, seatRepo seats.Repository) Repository {
	return &repository{db: db, seatRepo: seatRepo}
}

func (r *repository) CreateWithSeats(ctx context.Context, hall *Hall, rows []RowLayout) ([]seats.Seat, error) {
	var created []seats.Seat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(hall).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrHallExists
			}
			return fmt.Errorf("failed to create hall: %w", err)
		}

		generated, err := GenerateSeats(hall.ID, rows)
		if err != nil {
			return err
		}
		if err := r.seatRepo.CreateSeats(ctx, tx, generated); err != nil {
			return fmt.Errorf("failed to create seats: %w", err)
		}

		hall.TotalSeats = len(generated)
		if err := tx.Model(hall).Update("total_seats", hall.TotalSeats).Error; err != nil {
			return fmt.Errorf("failed to update seat count: %w", err)
		}
		created = generated
		return nil
	})
	return created, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Hall, error) {
	var hall Hall
	if err := r.db.WithContext(ctx).First(&hall, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &hall, nil
}

func (r *repository) List(ctx context.Context, query HallListQuery) ([]Hall, int64, error) {
	var halls []Hall
	var total int64

	db := r.db.WithContext(ctx).Model(&Hall{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("name ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&halls).Error
	return halls, total, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var showtimes int64
		if err := tx.Table("showtimes").Where("hall_id = ?", id).Count(&showtimes).Error; err != nil {
			return fmt.Errorf("failed to count showtimes: %w", err)
		}
		if showtimes > 0 {
			return ErrHallInUse
		}

		if err := tx.Where("hall_id = ?", id).Delete(&seats.Seat{}).Error; err != nil {
			return fmt.Errorf("failed to delete seats: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&Hall{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete hall: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrHallNotFound
		}
		return nil
	})
}

func (r *repository) CountSeatsByType(ctx context.Context, hallID uuid.UUID) (map[string]int, error) {
	type row struct {
		SeatType string
		Count    int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&seats.Seat{}).
		Select("seat_type, COUNT(*) AS count").
		Where("hall_id = ?", hallID).
		Group("seat_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.SeatType] = r.Count
	}
	return counts, nil
}
