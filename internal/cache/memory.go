package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-process Cache/ListCache used for unit tests and
// single-node development. Expiry is lazy: entries are dropped on read.
// The single mutex serializes list rewrites, so RemoveValue cannot lose
// sibling entries under concurrent logouts.
type MemoryCache struct {
	mu    sync.Mutex
	kv    map[string]memoryEntry
	lists map[string][]string
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		kv:    make(map[string]memoryEntry),
		lists: make(map[string][]string),
		now:   time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.kv[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.kv, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.kv[key] = e
	return nil
}

func (m *MemoryCache) Close() error { return nil }

func (m *MemoryCache) Append(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *MemoryCache) Range(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.lists[key]
	out := make([]string, len(src))
	copy(out, src)
	return out, nil
}

func (m *MemoryCache) RemoveValue(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	for i, v := range list {
		if v == value {
			m.lists[key] = append(list[:i:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryCache) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lists, key)
	return nil
}
