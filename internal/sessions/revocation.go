package sessions

import (
	"context"
	"time"

	"github.com/postline/postline/backend/go-services/internal/cache"
)

const blockedSentinel = "blocked"

// RevocationStore tracks blocklisted access-token jti values. Entries expire
// with the token they reject, so the blocklist stays bounded by the access
// token lifetime window.
type RevocationStore struct {
	cache cache.Cache
}

func NewRevocationStore(c cache.Cache) *RevocationStore {
	return &RevocationStore{cache: c}
}

// Block marks the jti as revoked for ttl. Blocking an already-blocked jti
// overwrites the entry; the operation is idempotent.
func (s *RevocationStore) Block(ctx context.Context, jti string, ttl time.Duration) error {
	return s.cache.Set(ctx, jti, blockedSentinel, ttl)
}

// IsBlocked reports whether the jti is currently blocklisted. An expired
// entry is equivalent to absent.
func (s *RevocationStore) IsBlocked(ctx context.Context, jti string) (bool, error) {
	_, ok, err := s.cache.Get(ctx, jti)
	if err != nil {
		return false, err
	}
	return ok, nil
}
