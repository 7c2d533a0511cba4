package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(client), mr
}

func TestGetSetDelete(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	var got item
	assert.ErrorIs(t, svc.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, svc.Set(ctx, "k", item{Name: "Dune", Price: 90000}, time.Minute))
	require.NoError(t, svc.Get(ctx, "k", &got))
	assert.Equal(t, item{Name: "Dune", Price: 90000}, got)
	assert.True(t, svc.Exists(ctx, "k"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, svc.Exists(ctx, "k"))

	require.NoError(t, svc.Set(ctx, "k2", item{}, 0))
	require.NoError(t, svc.Delete(ctx, "k2"))
	assert.False(t, svc.Exists(ctx, "k2"))
}

func TestGetOrSetCallsFetcherOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return item{Name: "Dune"}, nil
	}

	var a, b item
	require.NoError(t, svc.GetOrSet(ctx, "movie", time.Minute, fetch, &a))
	require.NoError(t, svc.GetOrSet(ctx, "movie", time.Minute, fetch, &b))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Dune", b.Name)
}

func TestGetOrSetPropagatesFetcherError(t *testing.T) {
	svc, _ := newTestService(t)
	boom := errors.New("boom")

	var dest item
	err := svc.GetOrSet(context.Background(), "x", time.Minute, func() (interface{}, error) { return nil, boom }, &dest)
	assert.ErrorIs(t, err, boom)
}

func TestDeletePattern(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, k := range []string{"cinebook:movies:a", "cinebook:movies:b", "cinebook:halls:a"} {
		require.NoError(t, svc.Set(ctx, k, 1, 0))
	}

	require.NoError(t, svc.DeletePattern(ctx, "cinebook:movies:*"))
	assert.False(t, svc.Exists(ctx, "cinebook:movies:a"))
	assert.False(t, svc.Exists(ctx, "cinebook:movies:b"))
	assert.True(t, svc.Exists(ctx, "cinebook:halls:a"))
}

func TestNoop(t *testing.T) {
	var svc Service = Noop{}
	var dest item
	assert.ErrorIs(t, svc.Get(context.Background(), "k", &dest), ErrCacheMiss)
	require.NoError(t, svc.GetOrSet(context.Background(), "k", 0, func() (interface{}, error) { return item{Name: "x"}, nil }, &dest))
	assert.Equal(t, "x", dest.Name)
}
