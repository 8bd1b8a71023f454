package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache and ListCache on top of a Redis client.
// Keys are namespaced with an optional prefix so independent stores
// (blocklist, registry, post cache) can share one client.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed cache. Prefix may be empty.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) key(k string) string {
	return r.prefix + k
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Append(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return r.client.RPush(ctx, r.key(key), args...).Err()
}

func (r *RedisCache) Range(ctx context.Context, key string) ([]string, error) {
	return r.client.LRange(ctx, r.key(key), 0, -1).Result()
}

// RemoveValue uses LREM so removal is a single atomic server-side operation;
// concurrent appends of sibling values are never lost.
func (r *RedisCache) RemoveValue(ctx context.Context, key, value string) (bool, error) {
	n, err := r.client.LRem(ctx, r.key(key), 1, value).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisCache) Clear(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}
