package showtimes

import (
	"context"
	"errors"
	"time"

	"cinebook/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShowtimeNotFound = seats.ErrShowtimeNotFound
	ErrHallBusy         = errors.New("hall already has a showtime in this slot")
	ErrShowtimeInPast   = errors.New("showtime must start in the future")
	ErrHasBookings      = errors.New("showtime already has bookings")
	ErrMovieNotBookable = errors.New("movie is not open for showtimes")
)

type Repository interface {
	Create(ctx context.Context, showtime *Showtime) error
	GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*Showtime, error)
	Save(ctx context.Context, showtime *Showtime) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query ShowtimeListQuery) ([]Showtime, int64, error)
	// InHallBetween returns scheduled showtimes of a hall touching [from, to)
	InHallBetween(ctx context.Context, hallID uuid.UUID, from, to time.Time, excludeID uuid.UUID) ([]Showtime, error)
	CountLiveBookings(ctx context.Context, id uuid.UUID) (int64, error)
	FinishEndedBefore(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, showtime *Showtime) error {
	return r.db.WithContext(ctx).Create(showtime).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	if err := r.db.WithContext(ctx).First(&showtime, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) GetWithDetails(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Hall").
		First(&showtime, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) Save(ctx context.Context, showtime *Showtime) error {
	return r.db.WithContext(ctx).Omit("Movie", "Hall").Save(showtime).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Showtime{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, query ShowtimeListQuery) ([]Showtime, int64, error) {
	var list []Showtime
	var total int64

	db := r.db.WithContext(ctx).Model(&Showtime{})
	if query.MovieID != "" {
		db = db.Where("movie_id = ?", query.MovieID)
	}
	if query.HallID != "" {
		db = db.Where("hall_id = ?", query.HallID)
	}
	if query.Date != "" {
		db = db.Where("show_date = ?", query.Date)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Movie").
		Preload("Hall").
		Order("starts_at ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *repository) InHallBetween(ctx context.Context, hallID uuid.UUID, from, to time.Time, excludeID uuid.UUID) ([]Showtime, error) {
	var list []Showtime
	db := r.db.WithContext(ctx).
		Where("hall_id = ? AND status = ?", hallID, StatusScheduled).
		Where("starts_at < ? AND ends_at > ?", to, from)
	if excludeID != uuid.Nil {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Find(&list).Error
	return list, err
}

func (r *repository) CountLiveBookings(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("bookings").
		Where("showtime_id = ? AND status IN ?", id, []string{"pending", "confirmed"}).
		Count(&count).Error
	return count, err
}

func (r *repository) FinishEndedBefore(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Showtime{}).
		Where("status = ? AND ends_at < ?", StatusScheduled, now).
		Update("status", StatusFinished)
	return result.RowsAffected, result.Error
}
