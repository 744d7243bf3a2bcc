package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	raw      []byte
	expireAt time.Time
}

func (m *memoryItem) expired() bool {
	return !m.expireAt.IsZero() && time.Now().After(m.expireAt)
}

// MemoryCache implements Service with an in-process map. Values are stored
// as JSON so Get semantics match the Redis implementation exactly.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]*memoryItem
}

// NewMemoryCache creates an in-memory cache and starts a background sweep
// of expired entries.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	mc := &MemoryCache{data: make(map[string]*memoryItem)}
	if cleanupInterval > 0 {
		go mc.sweep(cleanupInterval)
	}
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expireAt time.Time
	if expiration > 0 {
		expireAt = time.Now().Add(expiration)
	}
	mc.mu.Lock()
	mc.data[key] = &memoryItem{raw: raw, expireAt: expireAt}
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.RLock()
	item, ok := mc.data[key]
	mc.mu.RUnlock()
	if !ok || item.expired() {
		if ok {
			mc.mu.Lock()
			delete(mc.data, key)
			mc.mu.Unlock()
		}
		return ErrCacheMiss
	}
	return json.Unmarshal(item.raw, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	for _, k := range keys {
		delete(mc.data, k)
	}
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	mc.mu.RLock()
	item, ok := mc.data[key]
	mc.mu.RUnlock()
	return ok && !item.expired(), nil
}

func (mc *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		mc.mu.Lock()
		for k, item := range mc.data {
			if item.expired() {
				delete(mc.data, k)
			}
		}
		mc.mu.Unlock()
	}
}
