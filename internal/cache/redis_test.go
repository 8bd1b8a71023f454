package cache

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*mr.Miniredis, *RedisCache) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return m, NewRedisCache(client, "test:")
}

func TestRedisCache_SetGetTTL(t *testing.T) {
	m, c := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", "v1", 2*time.Second))

	v, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", v)

	// expired entries behave as absent
	m.FastForward(3 * time.Second)
	_, ok, err = c.Get(ctx, "k1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_ListOps(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Append(ctx, "l1", "a"))
	require.NoError(t, c.Append(ctx, "l1", "b", "c"))

	got, err := c.Range(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, got)

	removed, err := c.RemoveValue(ctx, "l1", "b")
	require.NoError(t, err)
	require.True(t, removed)

	got, err = c.Range(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, got)

	// removing an absent value is a no-op
	removed, err = c.RemoveValue(ctx, "l1", "b")
	require.NoError(t, err)
	require.False(t, removed)

	require.NoError(t, c.Clear(ctx, "l1"))
	got, err = c.Range(ctx, "l1")
	require.NoError(t, err)
	require.Empty(t, got)
}
