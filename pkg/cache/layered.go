package cache

import (
	"context"
	"time"
)

// LayeredCache is a two-level cache: L1 in-memory, L2 Redis. Reads fill L1
// from L2; writes go through to both.
type LayeredCache struct {
	mem   *MemoryCache
	redis *RedisCache
}

// NewLayeredCache creates a layered cache over an existing Redis cache.
func NewLayeredCache(redis *RedisCache) *LayeredCache {
	return &LayeredCache{
		mem:   NewMemoryCache(5 * time.Minute),
		redis: redis,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.redis.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.mem.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.redis.Get(ctx, key, dest); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, dest, 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.mem.Delete(ctx, keys...)
	return lc.redis.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, key string) (bool, error) {
	if ok, _ := lc.mem.Exists(ctx, key); ok {
		return true, nil
	}
	return lc.redis.Exists(ctx, key)
}
