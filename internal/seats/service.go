package seats

import (
	"context"
	"fmt"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// ShowtimeResolver maps a showtime to the hall it plays in
type ShowtimeResolver interface {
	GetHallID(ctx context.Context, showtimeID uuid.UUID) (uuid.UUID, error)
}

type Service interface {
	GetCatalog(ctx context.Context, showtimeID uuid.UUID) (*Catalog, error)
	// LoadCatalog bypasses the cache; bookings price against it
	LoadCatalog(ctx context.Context, showtimeID uuid.UUID) (*Catalog, error)
	InvalidateCatalog(ctx context.Context, showtimeID uuid.UUID)
	GetSeatsByHall(ctx context.Context, hallID uuid.UUID) ([]Seat, error)
	UpdateSeatType(ctx context.Context, id uuid.UUID, seatType SeatType) (*Seat, error)
}

type service struct {
	repo      Repository
	showtimes ShowtimeResolver
	cache     cache.Service
	log       *logger.Logger
}

func NewService(repo Repository, showtimes ShowtimeResolver, cacheService cache.Service) Service {
	if cacheService == nil {
		cacheService = cache.Noop{}
	}
	return &service{
		repo:      repo,
		showtimes: showtimes,
		cache:     cacheService,
		log:       logger.GetDefault(),
	}
}

func (s *service) GetCatalog(ctx context.Context, showtimeID uuid.UUID) (*Catalog, error) {
	var catalog Catalog
	err := s.cache.GetOrSet(ctx, constants.BuildSeatCatalogKey(showtimeID.String()), constants.TTL_SEAT_CATALOG,
		func() (interface{}, error) { return s.LoadCatalog(ctx, showtimeID) }, &catalog)
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (s *service) LoadCatalog(ctx context.Context, showtimeID uuid.UUID) (*Catalog, error) {
	hallID, err := s.showtimes.GetHallID(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := s.repo.GetSeatsByHallID(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	booked, err := s.repo.BookedSeatIDs(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked seats: %w", err)
	}

	out := make([]CatalogSeat, 0, len(seats))
	for _, seat := range seats {
		seatType, err := ParseSeatType(string(seat.SeatType))
		if err != nil {
			s.log.Warn("Seat has unknown type, treating as standard", "seat_id", seat.ID, "seat_type", seat.SeatType)
			seatType = SeatTypeStandard
		}
		out = append(out, CatalogSeat{
			ID:         seat.ID,
			Label:      seat.Label(),
			RowLabel:   seat.RowLabel,
			SeatNumber: seat.SeatNumber,
			SeatType:   seatType,
			IsBooked:   booked[seat.ID],
		})
	}
	return BuildCatalog(showtimeID, out), nil
}

func (s *service) InvalidateCatalog(ctx context.Context, showtimeID uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildSeatCatalogKey(showtimeID.String())); err != nil {
		s.log.Warn("Failed to invalidate seat catalog", "showtime_id", showtimeID, "error", err)
	}
}

func (s *service) GetSeatsByHall(ctx context.Context, hallID uuid.UUID) ([]Seat, error) {
	return s.repo.GetSeatsByHallID(ctx, hallID)
}

// UpdateSeatType changes the category of a seat; cached catalogs of every
// showtime may now be stale so they are dropped.
func (s *service) UpdateSeatType(ctx context.Context, id uuid.UUID, seatType SeatType) (*Seat, error) {
	if err := s.repo.UpdateSeatType(ctx, id, seatType); err != nil {
		return nil, err
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_CATALOG_ALL); err != nil {
		s.log.Warn("Failed to invalidate seat catalogs", "error", err)
	}
	return s.repo.GetSeatByID(ctx, id)
}
