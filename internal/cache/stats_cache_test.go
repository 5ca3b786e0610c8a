package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisStatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStatsCache(client, 30*time.Second), mr
}

func TestRedisStatsCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	c.Set(ctx, &models.AdminStats{
		TotalUsers:   3,
		TotalEvents:  2,
		TotalRevenue: 40,
		CategoryData: []models.CategoryCount{{Name: "Music", Value: 2}},
	})

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), got.TotalUsers)
	assert.Equal(t, 40.0, got.TotalRevenue)
	assert.Equal(t, []models.CategoryCount{{Name: "Music", Value: 2}}, got.CategoryData)
}

func TestRedisStatsCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, &models.AdminStats{TotalUsers: 1})
	mr.FastForward(31 * time.Second)

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestRedisStatsCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, &models.AdminStats{TotalUsers: 1})
	c.Invalidate(ctx)

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestRedisStatsCache_CorruptPayload(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(statsKey, "{not json"))

	_, ok := c.Get(context.Background())
	assert.False(t, ok)
}
