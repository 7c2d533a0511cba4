package analytics

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	GetRevenueSummary(ctx context.Context) (*RevenueSummary, error)
	GetMovieRevenue(ctx context.Context) ([]MovieRevenue, error)
	GetDailyBookingStats(ctx context.Context, since time.Time) ([]DailyBookingStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetRevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	var summary RevenueSummary
	db := r.db.WithContext(ctx)

	err := db.Raw(`
		SELECT
			COUNT(*) AS total_bookings,
			SUM(CASE WHEN status = 'confirmed' THEN 1 ELSE 0 END) AS confirmed_bookings,
			SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END) AS cancelled_bookings
		FROM bookings
	`).Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	if err := db.Table("booking_seats").Count(&summary.TicketsSold).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	err = db.Table("payments").
		Where("status IN ?", []string{"completed", "refunded"}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.GrossSales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	err = db.Table("cancellations").
		Select("COALESCE(SUM(refund_amount), 0)").
		Scan(&summary.Refunds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum refunds: %w", err)
	}

	err = db.Table("wallet_transactions").
		Where("type = ?", "top_up").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.WalletTopUps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum top-ups: %w", err)
	}

	err = db.Table("showtimes").
		Where("status = ? AND starts_at > ?", "scheduled", time.Now()).
		Count(&summary.ActiveShowtimes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count showtimes: %w", err)
	}

	summary.NetRevenue = summary.GrossSales - summary.Refunds
	return &summary, nil
}

func (r *repository) GetMovieRevenue(ctx context.Context) ([]MovieRevenue, error) {
	var rows []MovieRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			m.id::text AS movie_id,
			m.title AS title,
			COUNT(DISTINCT s.id) AS showtimes,
			COUNT(b.id) AS bookings,
			COALESCE(SUM(b.regular_count + b.vip_count + b.couple_count), 0) AS tickets_sold,
			COALESCE(SUM(b.total_amount), 0) AS revenue
		FROM movies m
		LEFT JOIN showtimes s ON s.movie_id = m.id
		LEFT JOIN bookings b ON b.showtime_id = s.id AND b.status = 'confirmed'
		GROUP BY m.id, m.title
		ORDER BY revenue DESC, m.title
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get movie revenue: %w", err)
	}
	return rows, nil
}

func (r *repository) GetDailyBookingStats(ctx context.Context, since time.Time) ([]DailyBookingStats, error) {
	var stats []DailyBookingStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS total_bookings,
			SUM(CASE WHEN status = 'confirmed' THEN 1 ELSE 0 END) AS confirmed_bookings,
			SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END) AS cancelled_bookings,
			COALESCE(SUM(CASE WHEN status = 'confirmed' THEN total_amount ELSE 0 END), 0) AS revenue,
			COALESCE(AVG(CASE WHEN status = 'confirmed' THEN total_amount ELSE NULL END), 0) AS average_value
		FROM bookings
		WHERE created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at) DESC
	`, since).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily booking stats: %w", err)
	}
	return stats, nil
}
