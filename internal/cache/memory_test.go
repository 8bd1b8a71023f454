package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCache_RemoveValueKeepsSiblings(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Append(ctx, "l", "a", "b", "a"))
	removed, err := c.RemoveValue(ctx, "l", "a")
	require.NoError(t, err)
	require.True(t, removed)

	got, err := c.Range(ctx, "l")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, got)
}

// Concurrent removals of distinct values must not drop each other's siblings.
func TestMemoryCache_ConcurrentRemove(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	values := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	require.NoError(t, c.Append(ctx, "l", values...))

	var wg sync.WaitGroup
	for _, v := range []string{"a", "c", "e", "g"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			_, _ = c.RemoveValue(ctx, "l", v)
		}(v)
	}
	wg.Wait()

	got, err := c.Range(ctx, "l")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "d", "f", "h"}, got)
}
