package movies

import (
	"context"
	"testing"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	movies map[uuid.UUID]*Movie
	gets   int
}

func newMemRepo() *memRepo {
	return &memRepo{movies: map[uuid.UUID]*Movie{}}
}

func (m *memRepo) Create(_ context.Context, movie *Movie) error {
	movie.ID = uuid.New()
	cp := *movie
	m.movies[movie.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Movie, error) {
	m.gets++
	if mv, ok := m.movies[id]; ok {
		cp := *mv
		return &cp, nil
	}
	return nil, ErrMovieNotFound
}

func (m *memRepo) GetBySlug(_ context.Context, slug string) (*Movie, error) {
	for _, mv := range m.movies {
		if mv.Slug == slug {
			cp := *mv
			return &cp, nil
		}
	}
	return nil, ErrMovieNotFound
}

func (m *memRepo) Save(_ context.Context, movie *Movie) error {
	cp := *movie
	m.movies[movie.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.movies[id]; !ok {
		return ErrMovieNotFound
	}
	delete(m.movies, id)
	return nil
}

func (m *memRepo) List(_ context.Context, q MovieListQuery) ([]Movie, int64, error) {
	var out []Movie
	for _, mv := range m.movies {
		if q.Status == "" || string(mv.Status) == q.Status {
			out = append(out, *mv)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) PromoteReleased(_ context.Context, today string) (int64, error) {
	var n int64
	for _, movie := range m.movies {
		if movie.Status == StatusComingSoon && movie.ReleaseDate != "" && movie.ReleaseDate <= today {
			movie.Status = StatusNowShowing
			n++
		}
	}
	return n, nil
}

func (m *memRepo) SlugExists(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	for id, mv := range m.movies {
		if mv.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(t *testing.T) (*memRepo, Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemRepo()
	return repo, NewService(repo, cache.NewService(client)), mr
}

func TestCreateMovieGeneratesUniqueSlug(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateMovie(ctx, CreateMovieRequest{Title: "Lật Mặt 7", DurationMinutes: 138})
	require.NoError(t, err)
	assert.Equal(t, "lat-mat-7", first.Slug)
	assert.Equal(t, StatusComingSoon, first.Status)

	second, err := svc.CreateMovie(ctx, CreateMovieRequest{Title: "Lật Mặt 7", DurationMinutes: 138, Status: "now_showing"})
	require.NoError(t, err)
	assert.Equal(t, "lat-mat-7-1", second.Slug)
	assert.Equal(t, StatusNowShowing, second.Status)
}

func TestGetMovieIsCached(t *testing.T) {
	repo, svc, mr := newTestService(t)
	ctx := context.Background()

	movie, err := svc.CreateMovie(ctx, CreateMovieRequest{Title: "Dune", DurationMinutes: 155})
	require.NoError(t, err)

	_, err = svc.GetMovie(ctx, movie.ID)
	require.NoError(t, err)
	_, err = svc.GetMovie(ctx, movie.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets)
	assert.True(t, mr.Exists(constants.BuildMovieDetailKey(movie.ID.String())))
}

func TestUpdateMovieAppliesPartialFieldsAndInvalidates(t *testing.T) {
	_, svc, mr := newTestService(t)
	ctx := context.Background()

	movie, err := svc.CreateMovie(ctx, CreateMovieRequest{Title: "Dune", Genre: "Sci-Fi", DurationMinutes: 155})
	require.NoError(t, err)
	_, err = svc.GetMovie(ctx, movie.ID)
	require.NoError(t, err)

	title := "Dune Part Two"
	status := "now_showing"
	updated, err := svc.UpdateMovie(ctx, movie.ID, UpdateMovieRequest{Title: &title, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "Dune Part Two", updated.Title)
	assert.Equal(t, "dune-part-two", updated.Slug)
	assert.Equal(t, "Sci-Fi", updated.Genre)
	assert.Equal(t, 155, updated.DurationMinutes)
	assert.Equal(t, StatusNowShowing, updated.Status)
	assert.False(t, mr.Exists(constants.BuildMovieDetailKey(movie.ID.String())))
}

func TestGetMissingMovie(t *testing.T) {
	_, svc, _ := newTestService(t)
	_, err := svc.GetMovie(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestListMoviesPaginates(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.CreateMovie(ctx, CreateMovieRequest{Title: title, DurationMinutes: 90})
		require.NoError(t, err)
	}

	page, err := svc.ListMovies(ctx, MovieListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
}

func TestPromoteReleased(t *testing.T) {
	repo, svc, _ := newTestService(t)
	ctx := context.Background()

	released, err := svc.CreateMovie(ctx, CreateMovieRequest{Title: "Mai", DurationMinutes: 131, ReleaseDate: "2026-10-19"})
	require.NoError(t, err)
	upcoming, err := svc.CreateMovie(ctx, CreateMovieRequest{Title: "Dao Pho", DurationMinutes: 120, ReleaseDate: "2026-12-01"})
	require.NoError(t, err)

	n, err := svc.PromoteReleased(ctx, "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, StatusNowShowing, repo.movies[released.ID].Status)
	assert.Equal(t, StatusComingSoon, repo.movies[upcoming.ID].Status)
}
