package sessions

import (
	"context"

	"github.com/postline/postline/backend/go-services/internal/cache"
)

// RefreshTokenRegistry keeps the ordered list of currently-valid refresh
// token jti values per user, one entry per logged-in device. Membership in
// the registry is the sole revocation mechanism for refresh tokens: a signed
// refresh token whose jti is absent here is dead.
type RefreshTokenRegistry struct {
	cache cache.ListCache
}

func NewRefreshTokenRegistry(c cache.ListCache) *RefreshTokenRegistry {
	return &RefreshTokenRegistry{cache: c}
}

// List returns the user's active refresh jti values in insertion order.
func (r *RefreshTokenRegistry) List(ctx context.Context, userID string) ([]string, error) {
	return r.cache.Range(ctx, userID)
}

// Add appends a jti to the user's list. No deduplication: the caller is
// responsible for only registering freshly minted jti values.
func (r *RefreshTokenRegistry) Add(ctx context.Context, userID, jti string) error {
	return r.cache.Append(ctx, userID, jti)
}

// Remove deletes the first occurrence of jti from the user's list and reports
// whether anything was removed. Removing an absent jti is a no-op, not an
// error. The underlying remove-by-value is atomic, so concurrent removals
// for different devices never lose sibling entries.
func (r *RefreshTokenRegistry) Remove(ctx context.Context, userID, jti string) (bool, error) {
	return r.cache.RemoveValue(ctx, userID, jti)
}

// Clear drops every active refresh session for the user.
func (r *RefreshTokenRegistry) Clear(ctx context.Context, userID string) error {
	return r.cache.Clear(ctx, userID)
}
