package cacheinfra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisStore_Validation(t *testing.T) {
	_, err := NewRedisStore(nil, RedisConfig{})
	assert.Error(t, err)

	_, client := newTestRedis(t)
	_, err = NewRedisStore(client, RedisConfig{QueryTimeout: -time.Second})
	assert.Error(t, err)

	store, err := NewRedisStore(client, RedisConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultQueryTimeout, store.cfg.QueryTimeout)
}

func TestRedisStore_GetSet(t *testing.T) {
	mr, client := newTestRedis(t)
	store, err := NewRedisStore(client, RedisConfig{Prefix: "catalog"})
	require.NoError(t, err)
	ctx := context.Background()

	// Miss on empty cache.
	data, found, err := store.Get(ctx, "film::get_by_id::\"1\"")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)

	require.NoError(t, store.Set(ctx, "film::get_by_id::\"1\"", []byte("payload"), 300*time.Second))

	data, found, err = store.Get(ctx, "film::get_by_id::\"1\"")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), data)

	// Keys are namespaced by the prefix and carry the TTL.
	assert.True(t, mr.Exists("catalog:film::get_by_id::\"1\""))
	assert.Equal(t, 300*time.Second, mr.TTL("catalog:film::get_by_id::\"1\""))
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, client := newTestRedis(t)
	store, err := NewRedisStore(client, RedisConfig{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("value"), 2*time.Second))
	_, found, err := store.Get(ctx, "key")
	assert.NoError(t, err)
	assert.True(t, found)

	mr.FastForward(3 * time.Second)

	_, found, err = store.Get(ctx, "key")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_RejectsNonPositiveTTL(t *testing.T) {
	_, client := newTestRedis(t)
	store, err := NewRedisStore(client, RedisConfig{})
	require.NoError(t, err)

	assert.Error(t, store.Set(context.Background(), "key", []byte("value"), 0))
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	store, err := NewRedisStore(client, RedisConfig{QueryTimeout: 200 * time.Millisecond})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	mr.Close()

	_, found, err := store.Get(ctx, "key")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, store.Set(ctx, "key", []byte("value"), time.Minute))
	assert.Error(t, store.Ping(ctx))
}

func TestRedisStore_CloseLeavesClientOpen(t *testing.T) {
	_, client := newTestRedis(t)
	store, err := NewRedisStore(client, RedisConfig{})
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.NoError(t, client.Ping(context.Background()).Err())
}
