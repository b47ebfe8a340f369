package store

import (
	"context"
	"time"
)

// Cache adapts a Store's cache_entries table to the cache.Cache contract,
// so Postgres can back the result and content caches when configured.
type Cache struct {
	store Store
}

func NewCache(s Store) *Cache {
	return &Cache{store: s}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.store.CacheGet(ctx, key)
}

func (c *Cache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.store.CacheSet(ctx, key, payload, int64(ttl.Seconds()))
}
