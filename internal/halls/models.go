package halls

import (
	"time"

	"github.com/google/uuid"
)

type Hall struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Description string    `json:"description" gorm:"size:500"`
	TotalSeats  int       `json:"total_seats" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Hall) TableName() string {
	return "halls"
}

// RowLayout describes one physical row when a hall is created
type RowLayout struct {
	RowLabel  string `json:"row_label" validate:"required,max=2,alpha,uppercase"`
	SeatCount int    `json:"seat_count" validate:"required,min=1,max=50"`
	SeatType  string `json:"seat_type" validate:"omitempty,oneof=standard vip couple"`
}

type CreateHallRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=100"`
	Description string      `json:"description" validate:"max=500"`
	Rows        []RowLayout `json:"rows" validate:"required,min=1,max=30,dive"`
}

type HallListQuery struct {
	Page  int
	Limit int
}

// HallDetail is a hall with its seat counts per category
type HallDetail struct {
	Hall
	SeatsByType map[string]int `json:"seats_by_type"`
}
