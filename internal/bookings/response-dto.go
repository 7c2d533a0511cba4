package bookings

import (
	"time"

	"cinebook/internal/pricing"
)

type BookingResponse struct {
	ID            string            `json:"id"`
	BookingCode   string            `json:"booking_code"`
	Status        Status            `json:"status"`
	ShowtimeID    string            `json:"showtime_id"`
	MovieTitle    string            `json:"movie_title,omitempty"`
	HallName      string            `json:"hall_name,omitempty"`
	ShowDate      string            `json:"show_date,omitempty"`
	ShowTime      string            `json:"show_time,omitempty"`
	Seats         []string          `json:"seats"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
	TotalAmount   int64             `json:"total_amount"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	FailureReason string            `json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	ConfirmedAt   *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`
}

func ToResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		BookingCode:   b.BookingCode,
		Status:        b.Status,
		ShowtimeID:    b.ShowtimeID.String(),
		Seats:         b.SeatLabels(),
		Breakdown:     b.Breakdown(),
		TotalAmount:   b.TotalAmount,
		PaymentMethod: b.PaymentMethod,
		FailureReason: b.FailureReason,
		CreatedAt:     b.CreatedAt,
		ConfirmedAt:   b.ConfirmedAt,
		CancelledAt:   b.CancelledAt,
	}
	if st := b.Showtime; st != nil {
		resp.ShowDate = st.ShowDate
		resp.ShowTime = st.ShowTime
		if st.Movie != nil {
			resp.MovieTitle = st.Movie.Title
		}
		if st.Hall != nil {
			resp.HallName = st.Hall.Name
		}
	}
	return resp
}
