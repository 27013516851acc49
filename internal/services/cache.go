package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL is used when no TTL is configured
	DefaultCacheTTL = 8 * time.Hour
	MinCacheTTL     = 6 * time.Hour
	MaxCacheTTL     = 12 * time.Hour
)

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the cached value into dest. A miss is (false, nil).
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache clamps ttl to [MinCacheTTL, MaxCacheTTL]; zero means DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if ttl < MinCacheTTL {
		ttl = MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		ttl = MaxCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKeyPrefix+key, jsonData, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, CacheKeyPrefix+key).Err()
}

// NoopCache never stores anything. Used when REDIS_URI is unset.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NoopCache) Set(context.Context, string, any) error         { return nil }
func (NoopCache) Delete(context.Context, string) error           { return nil }

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}
