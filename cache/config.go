package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Backend selects the Store implementation.
type Backend string

const (
	// BackendRedis shares entries across processes through Redis.
	BackendRedis Backend = "redis"
	// BackendMemory keeps entries in process memory (sturdyc).
	BackendMemory Backend = "memory"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend      Backend
	TTL          time.Duration
	Prefix       string
	QueryTimeout time.Duration

	// In-process store tuning, used by BackendMemory only.
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendRedis,
		TTL:                TTL,
		QueryTimeout:       2 * time.Second,
		Capacity:           10000,
		NumShards:          256,
		EvictionPercentage: 10,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendRedis, BackendMemory)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.QueryTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Capacity, validation.When(c.Backend == BackendMemory, validation.Required, validation.Min(1))),
		validation.Field(&c.NumShards, validation.When(c.Backend == BackendMemory, validation.Required, validation.Min(1))),
		validation.Field(&c.EvictionPercentage, validation.When(c.Backend == BackendMemory, validation.Required, validation.Min(1), validation.Max(100))),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}
