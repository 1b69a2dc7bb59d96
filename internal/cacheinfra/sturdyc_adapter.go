package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config sizes the in-process sturdyc store.
type Config struct {
	// Capacity is the entry count at which eviction starts.
	Capacity int

	// NumShards splits the keyspace to reduce lock contention. Default 256.
	NumShards int

	// TTL applies to every entry, whatever lifetime Set is given.
	TTL time.Duration

	// EvictionPercentage is the share of entries dropped once Capacity is
	// reached, 1 to 100.
	EvictionPercentage int

	// EvictionInterval is how often expired entries are swept.
	// Zero keeps the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig matches the catalog cache lifetime of five minutes.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions returns the options that are not constructor arguments
// of sturdyc.New.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Validate returns a *ConfigError naming the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	case c.NumShards <= 0:
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	case c.TTL <= 0:
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	case c.EvictionPercentage < 1 || c.EvictionPercentage > 100:
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	case c.EvictionInterval < 0:
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError reports an invalid store setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cacheinfra: " + e.Field + " " + e.Message
}

// SturdycStore keeps cache payloads in process memory.
// Entries expire after the TTL the client was built with.
type SturdycStore struct {
	client *sturdyc.Client[[]byte]
}

// NewSturdycStore validates cfg and builds the sturdyc client.
func NewSturdycStore(cfg Config) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycStore{client: client}, nil
}

// Get returns a copy of the stored payload.
func (s *SturdycStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value. sturdyc applies the client TTL to every
// entry; ttl only has to be positive.
func (s *SturdycStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return &ConfigError{Field: "ttl", Message: "must be greater than 0"}
	}
	s.client.Set(key, append([]byte(nil), value...))
	return nil
}

// Ping always succeeds for the in-process store.
func (s *SturdycStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op; entries are dropped with the process.
func (s *SturdycStore) Close() error {
	return nil
}

// Size reports the number of entries currently held.
func (s *SturdycStore) Size() int {
	return len(s.client.ScanKeys())
}
