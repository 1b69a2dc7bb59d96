package cache

import (
	"context"
	"time"
)

// TTL is the lifetime of every entry written by the retrieval services.
const TTL = 300 * time.Second

// KeySerializer builds a cache key from a namespace + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

// Store is a string-keyed byte store with expiring keys.
//
// Get reports found=false on a miss. Connectivity failures are returned as
// errors and are never masked here; callers decide to treat them as a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}
