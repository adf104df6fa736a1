package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCachePutAndGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := testCache(t)

	alert := NewAlert("Port Scan", "CRITICAL", 0.95)
	alert.Indicators = []string{"syn_count", "unique_dst_ports"}
	require.NoError(t, cache.Put(ctx, alert))

	got, err := cache.Get(ctx, alert.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alert.ID, got.ID)
	assert.Equal(t, "Port Scan", got.AlertType)
	assert.Equal(t, alert.Indicators, got.Indicators)
}

func TestCacheGetUnknownID(t *testing.T) {
	ctx := context.Background()
	cache, _ := testCache(t)

	got, err := cache.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheRecentOrderAndExpiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := testCache(t)

	first := NewAlert("Port Scan", "WARNING", 0.7)
	second := NewAlert("DoS Attack", "CRITICAL", 0.95)
	require.NoError(t, cache.Put(ctx, first))
	require.NoError(t, cache.Put(ctx, second))

	recent, err := cache.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID, "newest first")

	// After TTL the per-alert entries expire; Recent skips them.
	mr.FastForward(2 * time.Minute)
	recent, err = cache.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestCacheRecentLimit(t *testing.T) {
	ctx := context.Background()
	cache, _ := testCache(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, cache.Put(ctx, NewAlert("Port Scan", "WARNING", 0.7)))
	}
	recent, err := cache.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}
