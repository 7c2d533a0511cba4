package movies

import (
	"context"
	"fmt"

	"cinebook/internal/shared/constants"
	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
)

type Service interface {
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error)
	GetMovieBySlug(ctx context.Context, slug string) (*Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	ListMovies(ctx context.Context, query MovieListQuery) (*response.PaginatedData, error)
	PromoteReleased(ctx context.Context, today string) (int64, error)
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

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	movie := &Movie{}
	if err := copier.Copy(movie, &req); err != nil {
		return nil, fmt.Errorf("failed to map movie: %w", err)
	}
	movie.Status = Status(req.Status)
	if movie.Status == "" {
		movie.Status = StatusComingSoon
	}

	var err error
	movie.Slug, err = s.uniqueSlug(ctx, req.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Movie created", "movie_id", movie.ID, "slug", movie.Slug)
	return movie, nil
}

func (s *service) GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := s.cache.GetOrSet(ctx, constants.BuildMovieDetailKey(id.String()), constants.TTL_MOVIE_DETAIL,
		func() (interface{}, error) { return s.repo.GetByID(ctx, id) }, &movie)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *service) GetMovieBySlug(ctx context.Context, movieSlug string) (*Movie, error) {
	var movie Movie
	err := s.cache.GetOrSet(ctx, constants.BuildMovieSlugKey(movieSlug), constants.TTL_MOVIE_DETAIL,
		func() (interface{}, error) { return s.repo.GetBySlug(ctx, movieSlug) }, &movie)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *service) UpdateMovie(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*Movie, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldTitle := movie.Title

	if err := copier.CopyWithOption(movie, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("failed to map movie: %w", err)
	}
	if req.Status != nil {
		movie.Status = Status(*req.Status)
	}
	if movie.Title != oldTitle {
		if movie.Slug, err = s.uniqueSlug(ctx, movie.Title, movie.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	s.invalidate(ctx)
	return movie, nil
}

func (s *service) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) ListMovies(ctx context.Context, query MovieListQuery) (*response.PaginatedData, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}

	load := func() (interface{}, error) {
		list, total, err := s.repo.List(ctx, query)
		if err != nil {
			return nil, err
		}
		page := response.NewPaginatedData(list, query.Page, query.Limit, total)
		return &page, nil
	}

	// free-text searches are not worth caching
	if query.Search != "" || query.Genre != "" {
		v, err := load()
		if err != nil {
			return nil, err
		}
		return v.(*response.PaginatedData), nil
	}

	var page response.PaginatedData
	key := constants.BuildMovieListKey(query.Page, query.Limit, query.Status)
	if err := s.cache.GetOrSet(ctx, key, constants.TTL_MOVIE_LIST, load, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *service) uniqueSlug(ctx context.Context, title string, excludeID uuid.UUID) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "movie"
	}
	candidate := base
	for i := 1; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *service) PromoteReleased(ctx context.Context, today string) (int64, error) {
	n, err := s.repo.PromoteReleased(ctx, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx)
	}
	return n, nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_MOVIES_ALL); err != nil {
		s.log.Warn("Failed to invalidate movie cache", "error", err)
	}
}
