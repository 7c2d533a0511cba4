package cancellation

import (
	"time"

	"cinebook/internal/bookings"
	"cinebook/internal/showtimes"
)

// Refund tiers, measured from now to the start of the show. Boundaries are inclusive.
const (
	FullRefundBefore = 24 * time.Hour
	HalfRefundBefore = 2 * time.Hour
)

// RefundPercentage returns 100, 50 or 0 depending on how long before showAt the cancellation happens.
func RefundPercentage(showAt, now time.Time) int {
	until := showAt.Sub(now)
	switch {
	case until >= FullRefundBefore:
		return 100
	case until >= HalfRefundBefore:
		return 50
	default:
		return 0
	}
}

// RefundAmount applies pct to total, rounding down.
func RefundAmount(total int64, pct int) int64 {
	if total <= 0 || pct <= 0 {
		return 0
	}
	return total * int64(pct) / 100
}

// IsCancellable reports whether a booking in status can still be cancelled at now.
func IsCancellable(status bookings.Status, showAt, now time.Time) bool {
	return status.IsLive() && showAt.After(now)
}

// ShowDateTime combines a stored show date ("2006-01-02") and clock ("15:04") in loc.
func ShowDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	return showtimes.ParseStart(date, clock, loc)
}
