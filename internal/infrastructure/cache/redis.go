// Package cache is a thin Redis-backed cache-aside layer used by
// infrastructure/store for scenario listing caches.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with a key prefix.
type Cache struct {
	client *redis.Client
	prefix string
}

func NewCache(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// NewRedisClient parses redisURL, connects, and verifies the
// connection before returning.
func NewRedisClient(redisURL, prefix string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewCache(client, prefix), nil
}

func (c *Cache) getFullKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.getFullKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("key not found: %s", key)
		}
		return "", fmt.Errorf("failed to get from cache: %w", err)
	}
	return val, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.getFullKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return c.Set(ctx, key, string(jsonData), ttl)
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	jsonStr, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), dest); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// FlushPattern deletes all keys matching pattern under this cache's prefix.
func (c *Cache) FlushPattern(ctx context.Context, pattern string) error {
	keys, err := c.client.Keys(ctx, c.getFullKey(pattern)).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys by pattern: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
	}
	return nil
}

func (c *Cache) Health(ctx context.Context) error {
	if _, err := c.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
