package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, 300*time.Second, cfg.TTL)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"memory backend", func(c *Config) { c.Backend = BackendMemory }, false},
		{"unknown backend", func(c *Config) { c.Backend = "memcached" }, true},
		{"empty backend", func(c *Config) { c.Backend = "" }, true},
		{"zero ttl", func(c *Config) { c.TTL = 0 }, true},
		{"sub second ttl", func(c *Config) { c.TTL = time.Millisecond }, true},
		{"negative query timeout", func(c *Config) { c.QueryTimeout = -time.Second }, true},
		{"memory without capacity", func(c *Config) { c.Backend = BackendMemory; c.Capacity = 0 }, true},
		{"memory with bad eviction", func(c *Config) { c.Backend = BackendMemory; c.EvictionPercentage = 120 }, true},
		{"redis ignores shard tuning", func(c *Config) { c.NumShards = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
