package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a key-value store with TTL semantics. The result cache and the
// generated-content cache both run on this contract; any backend with
// expiry satisfies it. Read failures are treated as misses by callers,
// write failures are logged and swallowed.
type Cache interface {
	// Get returns the payload and true when the key exists and has not
	// expired
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the payload under key for ttl
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// ResultKey builds the aggregated-result cache key from the search origin
// and query. Coordinates are rounded to precision decimal places so nearby
// origins share entries; the precision is a tunable, not a contract.
func ResultKey(lat, lng float64, query string, precision int) string {
	if precision < 0 {
		precision = 0
	}
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))
	return fmt.Sprintf("results:%.*f:%.*f:%s", precision, lat, precision, lng, q)
}

// ContentKey builds the generated-content cache key for one restaurant and
// content type ("description", "vibe_tags", "top_picks").
func ContentKey(restaurantID, contentType string) string {
	return fmt.Sprintf("content:%s:%s", restaurantID, contentType)
}
