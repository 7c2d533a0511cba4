package cancellation

import (
	"time"

	"github.com/google/uuid"
)

// Cancellation records a cancelled booking and the refund it earned
type Cancellation struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	RefundPercentage int       `gorm:"not null;check:refund_percentage IN (0,50,100)" json:"refund_percentage"`
	RefundAmount     int64     `gorm:"not null;default:0" json:"refund_amount"`
	Reason           string    `gorm:"size:500" json:"reason"`
	CancelledAt      time.Time `gorm:"not null" json:"cancelled_at"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RefundQuote is the advisory refund for cancelling now
type RefundQuote struct {
	BookingID        uuid.UUID `json:"booking_id"`
	Cancellable      bool      `json:"cancellable"`
	RefundPercentage int       `json:"refund_percentage"`
	RefundAmount     int64     `json:"refund_amount"`
	TotalAmount      int64     `json:"total_amount"`
	ShowAt           time.Time `json:"show_at"`
}
