package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chatstack/chat-api/internal/core/domain"
	"github.com/chatstack/chat-api/internal/core/ports"
)

const statsKey = "stats:users"

// StatsCache keeps the statistics aggregation in Redis for a short TTL.
// Every failure degrades to a miss; the cache never fails a request.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewStatsCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl, log: log}
}

func (c *StatsCache) Get(ctx context.Context) ([]domain.UserStats, bool) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("stats cache read failed")
		}
		return nil, false
	}

	var stats []domain.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warn().Err(err).Msg("stats cache payload corrupt, dropping")
		_ = c.client.Del(ctx, statsKey).Err()
		return nil, false
	}
	return stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats []domain.UserStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		c.log.Warn().Err(err).Msg("stats cache encode failed")
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("stats cache write failed")
	}
}

func (c *StatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}

var _ ports.StatsCache = (*StatsCache)(nil)
