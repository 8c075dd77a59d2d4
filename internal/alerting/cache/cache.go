package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/logiops/alertcenter/internal/alerting/model"
	"github.com/redis/go-redis/v9"
)

// Cache is a write-through record cache in front of the store. Errors from
// the cache never fail the request; callers log and move on.
type Cache interface {
	GetAlert(ctx context.Context, id string) (*model.Alert, error)
	WriteAlert(ctx context.Context, a *model.Alert) error
	Invalidate(ctx context.Context, id string) error
}

// NoopCache is the default when Redis is not configured.
type NoopCache struct{}

func (NoopCache) GetAlert(ctx context.Context, id string) (*model.Alert, error) { return nil, nil }
func (NoopCache) WriteAlert(ctx context.Context, a *model.Alert) error          { return nil }
func (NoopCache) Invalidate(ctx context.Context, id string) error               { return nil }

// RecordKey builds the cache key for one alert record.
func RecordKey(id string) string { return "alert:record:" + id }

// RedisCache stores JSON-encoded alert records with a TTL.
type RedisCache struct {
	R   *redis.Client
	TTL time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisCache{R: rdb, TTL: ttl}
}

// GetAlert returns (nil, nil) on a cache miss.
func (c *RedisCache) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	val, err := c.R.Get(ctx, RecordKey(id)).Result()
	if err == redis.Nil || val == "" {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a model.Alert
	if err := json.Unmarshal([]byte(val), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *RedisCache) WriteAlert(ctx context.Context, a *model.Alert) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, RecordKey(a.ID), b, c.TTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, id string) error {
	return c.R.Del(ctx, RecordKey(id)).Err()
}
