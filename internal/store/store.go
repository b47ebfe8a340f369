package store

import (
	"context"

	"github.com/arjunmehta31/forkcast/internal/search"
)

type Store interface {
	// Restaurants
	SaveRestaurants(ctx context.Context, records []search.Ranked) error
	FindByNameSubstring(ctx context.Context, fragment string, limit int) ([]search.Ranked, error)

	// Cache entries
	CacheGet(ctx context.Context, key string) ([]byte, bool, error)
	CacheSet(ctx context.Context, key string, payload []byte, ttlSeconds int64) error
	PurgeExpired(ctx context.Context) (int64, error)

	// General
	Close()
}
