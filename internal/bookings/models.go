package bookings

import (
	"strings"
	"time"

	"cinebook/internal/pricing"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"

	"github.com/google/uuid"
)

type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	ShowtimeID    uuid.UUID     `gorm:"type:uuid;index;not null" json:"showtime_id"`
	BookingCode   string        `gorm:"size:20;uniqueIndex;not null" json:"booking_code"`
	SeatList      string        `gorm:"size:255;not null" json:"-"`
	Status        Status        `gorm:"type:varchar(20);not null;default:'pending';index;check:status IN ('pending','confirmed','cancelled')" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	RegularCount  int           `gorm:"not null;default:0" json:"regular_count"`
	RegularTotal  int64         `gorm:"not null;default:0" json:"regular_total"`
	VIPCount      int           `gorm:"column:vip_count;not null;default:0" json:"vip_count"`
	VIPTotal      int64         `gorm:"column:vip_total;not null;default:0" json:"vip_total"`
	CoupleCount   int           `gorm:"not null;default:0" json:"couple_count"`
	CoupleTotal   int64         `gorm:"not null;default:0" json:"couple_total"`
	ServiceFee    int64         `gorm:"not null;default:0" json:"service_fee"`
	TotalAmount   int64         `gorm:"not null;check:total_amount >= 0" json:"total_amount"`
	FailureReason string        `gorm:"size:255" json:"failure_reason,omitempty"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty"`
	ConfirmedAt   *time.Time    `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Seats    []BookingSeat       `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"seats,omitempty"`
	Payments []Payment           `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"payments,omitempty"`
	Showtime *showtimes.Showtime `gorm:"foreignKey:ShowtimeID;constraint:OnDelete:RESTRICT;" json:"showtime,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingSeat holds one seat of a live booking. The unique
// (showtime_id, seat_id) index is what stops two bookings taking the same seat.
type BookingSeat struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID      `gorm:"type:uuid;index;not null" json:"booking_id"`
	ShowtimeID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_booking_seats_showtime_seat" json:"showtime_id"`
	SeatID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_booking_seats_showtime_seat" json:"seat_id"`
	SeatLabel  string         `gorm:"size:8;not null" json:"seat_label"`
	SeatType   seats.SeatType `gorm:"type:varchar(20);not null" json:"seat_type"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (BookingSeat) TableName() string {
	return "booking_seats"
}

type Payment struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount        int64         `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"type:varchar(3);default:'VND'" json:"currency"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;check:status IN ('completed','failed','refunded')" json:"status"`
	TransactionID string        `gorm:"size:40;uniqueIndex" json:"transaction_id"`
	CardLast4     string        `gorm:"size:4" json:"card_last4,omitempty"`
	FailureReason string        `gorm:"size:255" json:"failure_reason,omitempty"`
	ProcessedAt   time.Time     `json:"processed_at"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (b *Booking) Breakdown() pricing.Breakdown {
	return pricing.Breakdown{
		RegularCount: b.RegularCount,
		RegularTotal: b.RegularTotal,
		VIPCount:     b.VIPCount,
		VIPTotal:     b.VIPTotal,
		CoupleCount:  b.CoupleCount,
		CoupleTotal:  b.CoupleTotal,
		ServiceFee:   b.ServiceFee,
		Total:        b.TotalAmount,
	}
}

func (b *Booking) applyBreakdown(br pricing.Breakdown) {
	b.RegularCount, b.RegularTotal = br.RegularCount, br.RegularTotal
	b.VIPCount, b.VIPTotal = br.VIPCount, br.VIPTotal
	b.CoupleCount, b.CoupleTotal = br.CoupleCount, br.CoupleTotal
	b.ServiceFee = br.ServiceFee
	b.TotalAmount = br.Total
}

// SeatLabels lists the booked seats. Seat rows are released on cancellation,
// so the stored list is preferred.
func (b *Booking) SeatLabels() []string {
	if b.SeatList != "" {
		return strings.Split(b.SeatList, ",")
	}
	labels := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		labels = append(labels, s.SeatLabel)
	}
	return labels
}
