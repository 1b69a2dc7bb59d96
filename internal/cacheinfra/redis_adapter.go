package cacheinfra

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultQueryTimeout bounds a single Redis round trip.
const DefaultQueryTimeout = 2 * time.Second

// RedisConfig configures the Redis backed store.
type RedisConfig struct {
	// Prefix namespaces every key as "<prefix>:<key>". Empty means no prefix.
	Prefix string

	// QueryTimeout bounds each GET/SET. Zero uses DefaultQueryTimeout.
	QueryTimeout time.Duration
}

// RedisStore keeps cache payloads in Redis as plain string values with EX.
// The caller owns the client lifecycle.
type RedisStore struct {
	client redis.UniversalClient
	cfg    RedisConfig
}

// NewRedisStore wraps client. Close does not close the client.
func NewRedisStore(client redis.UniversalClient, cfg RedisConfig) (*RedisStore, error) {
	if client == nil {
		return nil, &ConfigError{Field: "client", Message: "cannot be nil"}
	}
	if cfg.QueryTimeout < 0 {
		return nil, &ConfigError{Field: "QueryTimeout", Message: "must be non-negative"}
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}
	return &RedisStore{client: client, cfg: cfg}, nil
}

func (s *RedisStore) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.cfg.QueryTimeout)
}

func (s *RedisStore) prefixKey(key string) string {
	if s.cfg.Prefix == "" {
		return key
	}
	return s.cfg.Prefix + ":" + key
}

// Get returns the payload stored under key. redis.Nil is a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	data, err := s.client.Get(qctx, s.prefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", key)
	}
	return data, true, nil
}

// Set writes value with the given expiration.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return &ConfigError{Field: "ttl", Message: "must be greater than 0"}
	}

	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	if err := s.client.Set(qctx, s.prefixKey(key), value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	return errors.Wrap(s.client.Ping(qctx).Err(), "redis ping")
}

// Close is a no-op, the caller owns the redis client.
func (s *RedisStore) Close() error {
	return nil
}
