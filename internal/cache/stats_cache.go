// Package cache holds the read-through caches in front of expensive
// aggregate queries.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anonto42/eventpulse/backend/internal/metrics"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const statsKey = "admin:stats"

// StatsCache stores the admin dashboard summary
type StatsCache interface {
	Get(ctx context.Context) (*models.AdminStats, bool)
	Set(ctx context.Context, stats *models.AdminStats)
	Invalidate(ctx context.Context)
}

// RedisStatsCache keeps the summary in Redis for ttl
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache builds a cache on top of client
func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*models.AdminStats, bool) {
	data, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	var stats models.AdminStats
	if err := json.Unmarshal(data, &stats); err != nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	metrics.CacheHits.Inc()
	return &stats, true
}

// Set ignores write failures; the next read recomputes.
func (c *RedisStatsCache) Set(ctx context.Context, stats *models.AdminStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, statsKey, payload, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	_ = c.client.Del(ctx, statsKey).Err()
}

// NopStatsCache never holds anything
type NopStatsCache struct{}

func (NopStatsCache) Get(context.Context) (*models.AdminStats, bool) { return nil, false }
func (NopStatsCache) Set(context.Context, *models.AdminStats)        {}
func (NopStatsCache) Invalidate(context.Context)                     {}

// NewRedisClient connects to addr and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
