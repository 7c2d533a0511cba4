package showtimes

import (
	"fmt"
	"time"

	"cinebook/internal/halls"
	"cinebook/internal/movies"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// CleaningGap is kept free in a hall between two screenings
	CleaningGap = 15 * time.Minute
)

type Showtime struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID   uuid.UUID `json:"movie_id" gorm:"type:uuid;not null;index"`
	HallID    uuid.UUID `json:"hall_id" gorm:"type:uuid;not null;index:idx_showtime_hall_date"`
	ShowDate  string    `json:"show_date" gorm:"size:10;not null;index:idx_showtime_hall_date"`
	ShowTime  string    `json:"show_time" gorm:"size:5;not null"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt    time.Time `json:"ends_at" gorm:"not null;index"`
	BasePrice int64     `json:"base_price" gorm:"not null;check:base_price > 0"`
	Status    Status    `json:"status" gorm:"type:varchar(20);not null;default:'scheduled';index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Movie *movies.Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:RESTRICT;"`
	Hall  *halls.Hall   `json:"hall,omitempty" gorm:"foreignKey:HallID;constraint:OnDelete:RESTRICT;"`
}

func (Showtime) TableName() string {
	return "showtimes"
}

// Bookable reports whether seats can still be sold for the showtime at now
func (s *Showtime) Bookable(now time.Time) bool {
	return s.Status == StatusScheduled && s.StartsAt.After(now)
}

// ParseStart combines the stored date and clock strings in loc.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid show date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect once the cleaning gap is added.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd.Add(CleaningGap)) && bStart.Before(aEnd.Add(CleaningGap))
}

type CreateShowtimeRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid"`
	HallID    string `json:"hall_id" validate:"required,uuid"`
	ShowDate  string `json:"show_date" validate:"required,datetime=2006-01-02"`
	ShowTime  string `json:"show_time" validate:"required,datetime=15:04"`
	BasePrice int64  `json:"base_price" validate:"required,min=1000"`
}

type UpdateShowtimeRequest struct {
	ShowDate  *string `json:"show_date" validate:"omitempty,datetime=2006-01-02"`
	ShowTime  *string `json:"show_time" validate:"omitempty,datetime=15:04"`
	BasePrice *int64  `json:"base_price" validate:"omitempty,min=1000"`
	Status    *string `json:"status" validate:"omitempty,oneof=scheduled cancelled"`
}

type ShowtimeListQuery struct {
	MovieID string `form:"movie_id" validate:"omitempty,uuid"`
	HallID  string `form:"hall_id" validate:"omitempty,uuid"`
	Date    string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Status  string `form:"status" validate:"omitempty,oneof=scheduled finished cancelled"`
	Page    int    `form:"-"`
	Limit   int    `form:"-"`
}
