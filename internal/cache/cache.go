package cache

import (
	"context"
	"time"
)

// Cache is the minimal key-value surface the service needs from its cache
// backend. Implementations must treat an expired entry as absent.
type Cache interface {
	// Get returns the value for key, or ("", false, nil) when the key is
	// missing or expired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// ListCache extends Cache with ordered-list operations, used to track the
// active refresh sessions per user.
type ListCache interface {
	Cache
	// Append adds values to the end of the list at key, preserving order.
	Append(ctx context.Context, key string, values ...string) error
	// Range returns the full list at key, oldest first; empty when absent.
	Range(ctx context.Context, key string) ([]string, error)
	// RemoveValue removes the first occurrence of value from the list at key.
	// Returns false when the value was not present. Removal must be atomic
	// with respect to concurrent Append/RemoveValue on the same key.
	RemoveValue(ctx context.Context, key, value string) (bool, error)
	// Clear removes the whole list at key.
	Clear(ctx context.Context, key string) error
}
