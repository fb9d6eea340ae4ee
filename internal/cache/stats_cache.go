// ===============================
// internal/cache/stats_cache.go - Redis Channel Stats Cache
// ===============================

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"videotube/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const channelStatsKey = "videotube:channel:stats:%s"

// StatsCache keeps channel stats for a short TTL. Redis errors are logged
// and treated as misses.
type StatsCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

func NewStatsCache(client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *StatsCache {
	return &StatsCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "stats_cache").Logger(),
	}
}

// Connect parses a redis:// URL and pings the server
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (c *StatsCache) Get(ctx context.Context, ownerID string) (*models.ChannelStats, bool) {
	data, err := c.client.Get(ctx, fmt.Sprintf(channelStatsKey, ownerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache read failed")
		}
		return nil, false
	}

	var stats models.ChannelStats
	if err := json.Unmarshal(data, &stats); err != nil {
		c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache entry corrupt")
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, ownerID string, stats *models.ChannelStats) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		c.log.Warn().Err(err).Msg("stats cache encode failed")
		return
	}
	if err := c.client.Set(ctx, fmt.Sprintf(channelStatsKey, ownerID), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache write failed")
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, ownerID string) {
	if err := c.client.Del(ctx, fmt.Sprintf(channelStatsKey, ownerID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache invalidate failed")
	}
}
