package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// Pattern: cinebook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_SHORT  = 6 * time.Hour
	TTL_SEMI_STATIC   = 1 * time.Hour
	TTL_DYNAMIC_SHORT = 5 * time.Minute
	TTL_REALTIME      = 30 * time.Second
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "cinebook"
)

// ================== MOVIES MODULE ==================

const (
	CACHE_KEY_MOVIES_LIST  = CACHE_PREFIX + ":movies:list"         // + :page:X:limit:Y:status:Z
	CACHE_KEY_MOVIE_DETAIL = CACHE_PREFIX + ":movies:detail:uuid:" // + movie-id
	CACHE_KEY_MOVIE_SLUG   = CACHE_PREFIX + ":movies:detail:slug:" // + slug
)

const (
	TTL_MOVIE_LIST   = TTL_SEMI_STATIC
	TTL_MOVIE_DETAIL = TTL_STATIC_SHORT
)

// ================== HALLS MODULE ==================

const (
	CACHE_KEY_HALL_DETAIL = CACHE_PREFIX + ":halls:detail:uuid:" // + hall-id
)

const (
	TTL_HALL_DETAIL = TTL_STATIC_LONG
)

// ================== SEATS MODULE ==================

// Seat catalogue per showtime changes on every booking, so it is kept short.
const (
	CACHE_KEY_SEAT_CATALOG = CACHE_PREFIX + ":seats:catalog:showtime:" // + showtime-id
)

const (
	TTL_SEAT_CATALOG = TTL_REALTIME
)

// ================== REPORTS MODULE ==================

const (
	CACHE_KEY_REPORT_SUMMARY  = CACHE_PREFIX + ":reports:summary"
	CACHE_KEY_REPORT_MOVIES   = CACHE_PREFIX + ":reports:movies"
	CACHE_KEY_REPORT_DAILY    = CACHE_PREFIX + ":reports:daily:days:" // + days
	PATTERN_INVALIDATE_REPORT = CACHE_PREFIX + ":reports:*"
)

const (
	TTL_REPORTS = TTL_DYNAMIC_SHORT
)

// ================== AUTH MODULE ==================

// OTP sessions live in Redis only; they are never cached elsewhere.
const (
	KEY_OTP_SESSION      = CACHE_PREFIX + ":otp:session:"      // + purpose:email
	KEY_OTP_VERIFICATION = CACHE_PREFIX + ":otp:verification:" // + token
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_MOVIES_ALL  = CACHE_PREFIX + ":movies:*"
	PATTERN_INVALIDATE_CATALOG_ALL = CACHE_PREFIX + ":seats:catalog:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildMovieListKey(page, limit int, status string) string {
	if status != "" {
		return fmt.Sprintf("%s:page:%d:limit:%d:status:%s", CACHE_KEY_MOVIES_LIST, page, limit, status)
	}
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_MOVIES_LIST, page, limit)
}

func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

func BuildMovieSlugKey(slug string) string {
	return CACHE_KEY_MOVIE_SLUG + slug
}

func BuildHallDetailKey(hallID string) string {
	return CACHE_KEY_HALL_DETAIL + hallID
}

func BuildSeatCatalogKey(showtimeID string) string {
	return CACHE_KEY_SEAT_CATALOG + showtimeID
}

func BuildDailyReportKey(days int) string {
	return fmt.Sprintf("%s%d", CACHE_KEY_REPORT_DAILY, days)
}

func BuildOTPSessionKey(purpose, email string) string {
	return KEY_OTP_SESSION + purpose + ":" + email
}

func BuildOTPVerificationKey(token string) string {
	return KEY_OTP_VERIFICATION + token
}
