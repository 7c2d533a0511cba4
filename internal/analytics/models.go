package analytics

// RevenueSummary is the admin overview across all showtimes
type RevenueSummary struct {
	TotalBookings     int64 `json:"total_bookings"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
	TicketsSold       int64 `json:"tickets_sold"`
	GrossSales        int64 `json:"gross_sales"`
	Refunds           int64 `json:"refunds"`
	NetRevenue        int64 `json:"net_revenue"`
	WalletTopUps      int64 `json:"wallet_top_ups"`
	ActiveShowtimes   int64 `json:"active_showtimes"`
}

// MovieRevenue aggregates confirmed bookings per movie
type MovieRevenue struct {
	MovieID     string `json:"movie_id"`
	Title       string `json:"title"`
	Showtimes   int64  `json:"showtimes"`
	Bookings    int64  `json:"bookings"`
	TicketsSold int64  `json:"tickets_sold"`
	Revenue     int64  `json:"revenue"`
}

type DailyBookingStats struct {
	Date              string  `json:"date"`
	TotalBookings     int64   `json:"total_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	Revenue           int64   `json:"revenue"`
	AverageValue      float64 `json:"average_value"`
}

const (
	DefaultReportDays = 30
	MaxReportDays     = 365
)
