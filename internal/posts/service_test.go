package posts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postline/postline/backend/go-services/internal/cache"
)

func TestService_CreateListGet(t *testing.T) {
	svc := NewService(NewMemoryRepository(), cache.NewMemoryCache())
	ctx := context.Background()

	p1, err := svc.Create(ctx, "first", "hello")
	require.NoError(t, err)
	p2, err := svc.Create(ctx, "second", "world")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, p1.ID, list[0].ID)
	require.Equal(t, p2.ID, list[1].ID)

	got, err := svc.Get(ctx, p1.ID)
	require.NoError(t, err)
	require.Equal(t, "first", got.Title)

	_, err = svc.Get(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetServesFromCache(t *testing.T) {
	repo := NewMemoryRepository()
	c := cache.NewMemoryCache()
	svc := NewService(repo, c)
	ctx := context.Background()

	p, err := svc.Create(ctx, "cached", "body")
	require.NoError(t, err)

	// first read populates the cache
	_, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)

	// second read is served from the cache even if the repo loses the row
	repo.store = nil
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "cached", got.Title)
}

func TestService_NilCache(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, "plain", "body")
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}
