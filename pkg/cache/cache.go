package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache contract used on the catalog read path.
// The request lifecycle engine never goes through it; availability checks
// inside a resolution always read the committed row.
type Cache interface {
	// Get unmarshals the cached value into dest. found=false means a miss;
	// dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
