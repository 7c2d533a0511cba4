package showtimes

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/halls"
	"cinebook/internal/movies"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items map[uuid.UUID]*Showtime
	live  map[uuid.UUID]int64
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[uuid.UUID]*Showtime{}, live: map[uuid.UUID]int64{}}
}

func (m *memRepo) Create(_ context.Context, s *Showtime) error {
	s.ID = uuid.New()
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Showtime, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, ErrShowtimeNotFound
}

func (m *memRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	return m.GetByID(ctx, id)
}

func (m *memRepo) Save(_ context.Context, s *Showtime) error {
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *memRepo) List(context.Context, ShowtimeListQuery) ([]Showtime, int64, error) {
	var out []Showtime
	for _, s := range m.items {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) InHallBetween(_ context.Context, hallID uuid.UUID, from, to time.Time, excludeID uuid.UUID) ([]Showtime, error) {
	var out []Showtime
	for _, s := range m.items {
		if s.HallID == hallID && s.ID != excludeID && s.Status == StatusScheduled &&
			s.StartsAt.Before(to) && s.EndsAt.After(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memRepo) CountLiveBookings(_ context.Context, id uuid.UUID) (int64, error) {
	return m.live[id], nil
}

func (m *memRepo) FinishEndedBefore(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, s := range m.items {
		if s.Status == StatusScheduled && s.EndsAt.Before(now) {
			s.Status = StatusFinished
			n++
		}
	}
	return n, nil
}

type stubMovies map[uuid.UUID]*movies.Movie

func (s stubMovies) GetMovie(_ context.Context, id uuid.UUID) (*movies.Movie, error) {
	if m, ok := s[id]; ok {
		return m, nil
	}
	return nil, movies.ErrMovieNotFound
}

type stubHalls map[uuid.UUID]bool

func (s stubHalls) GetHall(_ context.Context, id uuid.UUID) (*halls.HallDetail, error) {
	if s[id] {
		return &halls.HallDetail{Hall: halls.Hall{ID: id}}, nil
	}
	return nil, halls.ErrHallNotFound
}

type fixture struct {
	repo    *memRepo
	svc     *service
	movieID uuid.UUID
	hallID  uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	movieID, hallID := uuid.New(), uuid.New()
	repo := newMemRepo()
	svc := NewService(repo,
		stubMovies{movieID: {ID: movieID, DurationMinutes: 120, Status: movies.StatusNowShowing}},
		stubHalls{hallID: true},
		time.UTC,
	).(*service)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	return fixture{repo: repo, svc: svc, movieID: movieID, hallID: hallID}
}

func (f fixture) request(date, clock string) CreateShowtimeRequest {
	return CreateShowtimeRequest{
		MovieID:   f.movieID.String(),
		HallID:    f.hallID.String(),
		ShowDate:  date,
		ShowTime:  clock,
		BasePrice: 90000,
	}
}

func TestCreateShowtimeComputesWindow(t *testing.T) {
	f := newFixture(t)
	st, err := f.svc.CreateShowtime(context.Background(), f.request("2026-10-20", "19:30"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 20, 19, 30, 0, 0, time.UTC), st.StartsAt)
	assert.Equal(t, time.Date(2026, 10, 20, 21, 30, 0, 0, time.UTC), st.EndsAt)
	assert.Equal(t, StatusScheduled, st.Status)
}

func TestCreateShowtimeRejectsOverlapAndPast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateShowtime(ctx, f.request("2026-10-20", "19:30"))
	require.NoError(t, err)

	_, err = f.svc.CreateShowtime(ctx, f.request("2026-10-20", "21:40"))
	assert.ErrorIs(t, err, ErrHallBusy, "ends 21:30 plus cleaning gap")

	_, err = f.svc.CreateShowtime(ctx, f.request("2026-10-20", "21:45"))
	assert.NoError(t, err)

	_, err = f.svc.CreateShowtime(ctx, f.request("2026-10-19", "07:00"))
	assert.ErrorIs(t, err, ErrShowtimeInPast)
}

func TestCreateShowtimeRequiresBookableMovie(t *testing.T) {
	f := newFixture(t)
	f.svc.movies.(stubMovies)[f.movieID].Status = movies.StatusEnded

	_, err := f.svc.CreateShowtime(context.Background(), f.request("2026-10-20", "10:00"))
	assert.ErrorIs(t, err, ErrMovieNotBookable)
}

func TestUpdateShowtimeBlockedByBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st, err := f.svc.CreateShowtime(ctx, f.request("2026-10-20", "10:00"))
	require.NoError(t, err)

	f.repo.live[st.ID] = 2
	date := "2026-10-21"
	_, err = f.svc.UpdateShowtime(ctx, st.ID, UpdateShowtimeRequest{ShowDate: &date})
	assert.ErrorIs(t, err, ErrHasBookings)

	price := int64(120000)
	updated, err := f.svc.UpdateShowtime(ctx, st.ID, UpdateShowtimeRequest{BasePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(120000), updated.BasePrice)
	assert.Equal(t, "2026-10-20", updated.ShowDate)

	assert.ErrorIs(t, f.svc.DeleteShowtime(ctx, st.ID), ErrHasBookings)
}

func TestFinishPast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateShowtime(ctx, f.request("2026-10-19", "09:00"))
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	n, err := f.svc.FinishPast(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGetHallID(t *testing.T) {
	f := newFixture(t)
	st, err := f.svc.CreateShowtime(context.Background(), f.request("2026-10-20", "10:00"))
	require.NoError(t, err)

	hallID, err := f.svc.GetHallID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, f.hallID, hallID)

	_, err = f.svc.GetHallID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestParseStartAndOverlaps(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	start, err := ParseStart("2026-10-20", "19:30", loc)
	require.NoError(t, err)
	assert.Equal(t, 12, start.UTC().Hour())

	_, err = ParseStart("2026-13-01", "19:30", loc)
	assert.Error(t, err)

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, Overlaps(base, base.Add(2*time.Hour), base.Add(2*time.Hour+10*time.Minute), base.Add(4*time.Hour)))
	assert.False(t, Overlaps(base, base.Add(2*time.Hour), base.Add(2*time.Hour+15*time.Minute), base.Add(4*time.Hour)))
}
