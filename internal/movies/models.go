package movies

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusComingSoon Status = "coming_soon"
	StatusNowShowing Status = "now_showing"
	StatusEnded      Status = "ended"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusComingSoon, StatusNowShowing, StatusEnded:
		return true
	}
	return false
}

// Bookable reports whether new showtimes may be sold for the movie
func (s Status) Bookable() bool {
	return s == StatusComingSoon || s == StatusNowShowing
}

type Movie struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `json:"title" gorm:"not null;size:255;index"`
	Slug            string    `json:"slug" gorm:"not null;size:280;uniqueIndex"`
	Description     string    `json:"description" gorm:"type:text"`
	Genre           string    `json:"genre" gorm:"size:100;index"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null;check:duration_minutes > 0"`
	Language        string    `json:"language" gorm:"size:50"`
	AgeRating       string    `json:"age_rating" gorm:"size:10"`
	PosterURL       string    `json:"poster_url" gorm:"size:500"`
	TrailerURL      string    `json:"trailer_url" gorm:"size:500"`
	ReleaseDate     string    `json:"release_date" gorm:"size:10"`
	Status          Status    `json:"status" gorm:"type:varchar(20);not null;default:'coming_soon';index"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Movie) TableName() string {
	return "movies"
}

type CreateMovieRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=255"`
	Description     string `json:"description" validate:"max=5000"`
	Genre           string `json:"genre" validate:"max=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1,max=600"`
	Language        string `json:"language" validate:"max=50"`
	AgeRating       string `json:"age_rating" validate:"omitempty,oneof=P K T13 T16 T18"`
	PosterURL       string `json:"poster_url" validate:"omitempty,url"`
	TrailerURL      string `json:"trailer_url" validate:"omitempty,url"`
	ReleaseDate     string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Status          string `json:"status" validate:"omitempty,oneof=coming_soon now_showing ended"`
}

// UpdateMovieRequest only touches the fields that are set
type UpdateMovieRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	Genre           *string `json:"genre" validate:"omitempty,max=100"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=1,max=600"`
	Language        *string `json:"language" validate:"omitempty,max=50"`
	AgeRating       *string `json:"age_rating" validate:"omitempty,oneof=P K T13 T16 T18"`
	PosterURL       *string `json:"poster_url" validate:"omitempty,url"`
	TrailerURL      *string `json:"trailer_url" validate:"omitempty,url"`
	ReleaseDate     *string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Status          *string `json:"status" validate:"omitempty,oneof=coming_soon now_showing ended"`
}

type MovieListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status" validate:"omitempty,oneof=coming_soon now_showing ended"`
	Search string `form:"search"`
	Genre  string `form:"genre"`
}
