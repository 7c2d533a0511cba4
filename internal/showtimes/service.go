package showtimes

import (
	"context"
	"fmt"
	"time"

	"cinebook/internal/halls"
	"cinebook/internal/movies"
	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type MovieFinder interface {
	GetMovie(ctx context.Context, id uuid.UUID) (*movies.Movie, error)
}

type HallFinder interface {
	GetHall(ctx context.Context, id uuid.UUID) (*halls.HallDetail, error)
}

type Service interface {
	CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error)
	GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error)
	ListShowtimes(ctx context.Context, query ShowtimeListQuery) (*response.PaginatedData, error)
	UpdateShowtime(ctx context.Context, id uuid.UUID, req UpdateShowtimeRequest) (*Showtime, error)
	DeleteShowtime(ctx context.Context, id uuid.UUID) error
	GetHallID(ctx context.Context, showtimeID uuid.UUID) (uuid.UUID, error)
	// FinishPast marks every scheduled showtime that has ended as finished
	FinishPast(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	movies MovieFinder
	halls  HallFinder
	loc    *time.Location
	now    func() time.Time
	log    *logger.Logger
}

func NewService(repo Repository, movieFinder MovieFinder, hallFinder HallFinder, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:   repo,
		movies: movieFinder,
		halls:  hallFinder,
		loc:    loc,
		now:    time.Now,
		log:    logger.GetDefault(),
	}
}

func (s *service) CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error) {
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID: %w", err)
	}
	hallID, err := uuid.Parse(req.HallID)
	if err != nil {
		return nil, fmt.Errorf("invalid hall ID: %w", err)
	}

	movie, err := s.movies.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !movie.Status.Bookable() {
		return nil, ErrMovieNotBookable
	}
	if _, err := s.halls.GetHall(ctx, hallID); err != nil {
		return nil, err
	}

	showtime := &Showtime{
		MovieID:   movieID,
		HallID:    hallID,
		ShowDate:  req.ShowDate,
		ShowTime:  req.ShowTime,
		BasePrice: req.BasePrice,
		Status:    StatusScheduled,
	}
	if err := s.schedule(ctx, showtime, movie.DurationMinutes); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, showtime); err != nil {
		return nil, fmt.Errorf("failed to create showtime: %w", err)
	}
	s.log.LogShowtimeCreated(ctx, showtime.ID.String(), movieID.String(), hallID.String())
	return showtime, nil
}

// schedule fills StartsAt/EndsAt and checks the hall is free for that slot.
func (s *service) schedule(ctx context.Context, showtime *Showtime, durationMinutes int) error {
	start, err := ParseStart(showtime.ShowDate, showtime.ShowTime, s.loc)
	if err != nil {
		return err
	}
	if !start.After(s.now()) {
		return ErrShowtimeInPast
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	others, err := s.repo.InHallBetween(ctx, showtime.HallID, start.Add(-CleaningGap), end.Add(CleaningGap), showtime.ID)
	if err != nil {
		return fmt.Errorf("failed to check hall schedule: %w", err)
	}
	for _, other := range others {
		if Overlaps(start, end, other.StartsAt, other.EndsAt) {
			return ErrHallBusy
		}
	}

	showtime.StartsAt = start
	showtime.EndsAt = end
	return nil
}

func (s *service) GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	return s.repo.GetWithDetails(ctx, id)
}

func (s *service) ListShowtimes(ctx context.Context, query ShowtimeListQuery) (*response.PaginatedData, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}
	list, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	page := response.NewPaginatedData(list, query.Page, query.Limit, total)
	return &page, nil
}

func (s *service) UpdateShowtime(ctx context.Context, id uuid.UUID, req UpdateShowtimeRequest) (*Showtime, error) {
	showtime, err := s.repo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ShowDate != nil || req.ShowTime != nil {
		live, err := s.repo.CountLiveBookings(ctx, id)
		if err != nil {
			return nil, err
		}
		if live > 0 {
			return nil, ErrHasBookings
		}
	}

	if err := copier.CopyWithOption(showtime, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to map showtime: %w", err)
	}
	if req.Status != nil {
		showtime.Status = Status(*req.Status)
	}

	if req.ShowDate != nil || req.ShowTime != nil {
		duration := int(showtime.EndsAt.Sub(showtime.StartsAt) / time.Minute)
		if showtime.Movie != nil {
			duration = showtime.Movie.DurationMinutes
		}
		if err := s.schedule(ctx, showtime, duration); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, showtime); err != nil {
		return nil, fmt.Errorf("failed to update showtime: %w", err)
	}
	return showtime, nil
}

func (s *service) DeleteShowtime(ctx context.Context, id uuid.UUID) error {
	live, err := s.repo.CountLiveBookings(ctx, id)
	if err != nil {
		return err
	}
	if live > 0 {
		return ErrHasBookings
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) GetHallID(ctx context.Context, showtimeID uuid.UUID) (uuid.UUID, error) {
	showtime, err := s.repo.GetByID(ctx, showtimeID)
	if err != nil {
		return uuid.Nil, err
	}
	return showtime.HallID, nil
}

func (s *service) FinishPast(ctx context.Context) (int64, error) {
	n, err := s.repo.FinishEndedBefore(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to finish showtimes: %w", err)
	}
	if n > 0 {
		s.log.Info("Showtimes marked finished", "count", n)
	}
	return n, nil
}
