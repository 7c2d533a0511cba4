package bookings

// CreateBookingRequest is the payment submission for a seat selection
type CreateBookingRequest struct {
	ShowtimeID    string   `json:"showtime_id" validate:"required,uuid"`
	Seats         []string `json:"seats" validate:"required,min=1,unique,dive,required,max=8"`
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=card wallet"`
	CardNumber    string   `json:"card_number" validate:"required_if=PaymentMethod card,omitempty,numeric,min=12,max=19"`
}

type BookingListQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	Page   int    `form:"-"`
	Limit  int    `form:"-"`
}
