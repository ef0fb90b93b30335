package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type volume struct {
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, "test:"), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Set(ctx, "v1", volume{Title: "Dune", Pages: 412}, time.Minute))
	assert.True(t, mr.Exists("test:v1"))

	var got volume
	require.True(t, s.Get(ctx, "v1", &got))
	assert.Equal(t, volume{Title: "Dune", Pages: 412}, got)
}

func TestEntriesExpire(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Set(ctx, "v1", volume{Title: "Dune"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got volume
	assert.False(t, s.Get(ctx, "v1", &got))
}

func TestDisabledStoreIsPassThrough(t *testing.T) {
	ctx := context.Background()
	s := New(nil, "x:")

	assert.False(t, s.Enabled())
	assert.NoError(t, s.Set(ctx, "k", 1, time.Minute))
	var n int
	assert.False(t, s.Get(ctx, "k", &n))
	assert.NoError(t, s.Close())
}
