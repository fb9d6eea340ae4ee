package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"videotube/internal/logger"
	"videotube/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the three commands the cache issues
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestStatsCacheRoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	c := NewStatsCache(rdb, 30*time.Second, logger.Nop())
	ctx := context.Background()

	_, ok := c.Get(ctx, "owner-1")
	assert.False(t, ok)

	want := &models.ChannelStats{TotalVideos: 3, TotalViews: 99, TotalLikes: 7}
	c.Set(ctx, "owner-1", want)
	assert.Equal(t, 30*time.Second, rdb.ttls["videotube:channel:stats:owner-1"])

	got, ok := c.Get(ctx, "owner-1")
	require.True(t, ok)
	assert.Equal(t, want, got)

	c.Invalidate(ctx, "owner-1")
	_, ok = c.Get(ctx, "owner-1")
	assert.False(t, ok)
}

func TestStatsCacheFailuresAreMisses(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	c := NewStatsCache(rdb, time.Minute, logger.Nop())
	ctx := context.Background()

	c.Set(ctx, "owner-1", &models.ChannelStats{TotalVideos: 1})
	_, ok := c.Get(ctx, "owner-1")
	assert.False(t, ok)
	c.Invalidate(ctx, "owner-1")
}

func TestStatsCacheCorruptEntry(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data["videotube:channel:stats:owner-1"] = "{not json"
	c := NewStatsCache(rdb, time.Minute, logger.Nop())

	_, ok := c.Get(context.Background(), "owner-1")
	assert.False(t, ok)
}

func TestStatsCacheDisabledTTL(t *testing.T) {
	rdb := newFakeRedis()
	c := NewStatsCache(rdb, 0, logger.Nop())

	c.Set(context.Background(), "owner-1", &models.ChannelStats{})
	assert.Empty(t, rdb.data)
}
