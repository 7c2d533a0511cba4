package halls

import (
	"context"
	"fmt"

	"cinebook/internal/shared/constants"
	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateHall(ctx context.Context, req CreateHallRequest) (*HallDetail, error)
	GetHall(ctx context.Context, id uuid.UUID) (*HallDetail, error)
	ListHalls(ctx context.Context, page, limit int) (*response.PaginatedData, error)
	DeleteHall(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	if cacheService == nil {
		cacheService = cache.Noop{}
	}
	return &service{repo: repo, cache: cacheService, log: logger.GetDefault()}
}

func (s *service) CreateHall(ctx context.Context, req CreateHallRequest) (*HallDetail, error) {
	// validate before opening a transaction
	if _, err := GenerateSeats(uuid.Nil, req.Rows); err != nil {
		return nil, err
	}

	hall := &Hall{Name: req.Name, Description: req.Description}
	created, err := s.repo.CreateWithSeats(ctx, hall, req.Rows)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]int)
	for _, seat := range created {
		byType[string(seat.SeatType)]++
	}
	s.log.Info("Hall created", "hall_id", hall.ID, "seats", hall.TotalSeats)
	return &HallDetail{Hall: *hall, SeatsByType: byType}, nil
}

func (s *service) GetHall(ctx context.Context, id uuid.UUID) (*HallDetail, error) {
	var detail HallDetail
	err := s.cache.GetOrSet(ctx, constants.BuildHallDetailKey(id.String()), constants.TTL_HALL_DETAIL,
		func() (interface{}, error) {
			hall, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			counts, err := s.repo.CountSeatsByType(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to count seats: %w", err)
			}
			return &HallDetail{Hall: *hall, SeatsByType: counts}, nil
		}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) ListHalls(ctx context.Context, page, limit int) (*response.PaginatedData, error) {
	list, total, err := s.repo.List(ctx, HallListQuery{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := response.NewPaginatedData(list, page, limit, total)
	return &out, nil
}

func (s *service) DeleteHall(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, constants.BuildHallDetailKey(id.String())); err != nil {
		s.log.Warn("Failed to invalidate hall cache", "hall_id", id, "error", err)
	}
	return nil
}
