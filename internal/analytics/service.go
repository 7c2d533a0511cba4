package analytics

import (
	"context"
	"time"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"
)

// Service serves admin reports, cached for a few minutes and dropped on every booking change.
type Service interface {
	GetRevenueSummary(ctx context.Context) (*RevenueSummary, error)
	GetMovieRevenue(ctx context.Context) ([]MovieRevenue, error)
	GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStats, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	now   func() time.Time
}

func NewService(repo Repository, cacheService cache.Service) Service {
	if cacheService == nil {
		cacheService = cache.Noop{}
	}
	return &service{repo: repo, cache: cacheService, now: time.Now}
}

func (s *service) GetRevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	var summary RevenueSummary
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_REPORT_SUMMARY, constants.TTL_REPORTS,
		func() (interface{}, error) { return s.repo.GetRevenueSummary(ctx) }, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) GetMovieRevenue(ctx context.Context) ([]MovieRevenue, error) {
	var rows []MovieRevenue
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_REPORT_MOVIES, constants.TTL_REPORTS,
		func() (interface{}, error) { return s.repo.GetMovieRevenue(ctx) }, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *service) GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStats, error) {
	days = clampDays(days)
	since := s.now().AddDate(0, 0, -days)

	var stats []DailyBookingStats
	err := s.cache.GetOrSet(ctx, constants.BuildDailyReportKey(days), constants.TTL_REPORTS,
		func() (interface{}, error) { return s.repo.GetDailyBookingStats(ctx, since) }, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func clampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultReportDays
	case days > MaxReportDays:
		return MaxReportDays
	default:
		return days
	}
}
