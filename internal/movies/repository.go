package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrMovieInUse    = errors.New("movie has showtimes")
)

type Repository interface {
	Create(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	GetBySlug(ctx context.Context, slug string) (*Movie, error)
	Save(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query MovieListQuery) ([]Movie, int64, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	// PromoteReleased moves coming_soon movies released on or before today to now_showing.
	PromoteReleased(ctx context.Context, today string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Movie, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *repository) first(ctx context.Context, cond string, arg interface{}) (*Movie, error) {
	var movie Movie
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (r *repository) Save(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Save(movie).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var showtimes int64
		if err := tx.Table("showtimes").Where("movie_id = ?", id).Count(&showtimes).Error; err != nil {
			return fmt.Errorf("failed to count showtimes: %w", err)
		}
		if showtimes > 0 {
			return ErrMovieInUse
		}

		result := tx.Where("id = ?", id).Delete(&Movie{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete movie: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrMovieNotFound
		}
		return nil
	})
}

func (r *repository) List(ctx context.Context, query MovieListQuery) ([]Movie, int64, error) {
	var movies []Movie
	var total int64

	db := r.db.WithContext(ctx).Model(&Movie{})
	if query.Search != "" {
		term := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Genre != "" {
		db = db.Where("LOWER(genre) = ?", strings.ToLower(query.Genre))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("release_date DESC NULLS LAST, title ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&movies).Error
	return movies, total, err
}

func (r *repository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&Movie{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) PromoteReleased(ctx context.Context, today string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Movie{}).
		Where("status = ? AND release_date <> '' AND release_date <= ?", StatusComingSoon, today).
		Update("status", StatusNowShowing)
	return result.RowsAffected, result.Error
}
