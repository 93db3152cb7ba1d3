package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/inkstream/inkstream/pkg/config"
	"github.com/inkstream/inkstream/pkg/logging"
)

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = fmt.Errorf("cache is disabled")
)

// CountTTL bounds staleness of cached follow counts between invalidations.
const CountTTL = 5 * time.Minute

// Cache wraps Redis client. A nil *Cache is valid and behaves as disabled,
// so callers never need to branch on whether caching is configured.
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing Redis client (used by tests)
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// NamespaceKey prefixes a key with the application namespace
func (c *Cache) NamespaceKey(key string) string {
	return "inkstream:" + key
}

// GetCount retrieves a cached counter; ok is false on miss or any failure
func (c *Cache) GetCount(ctx context.Context, key string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, c.NamespaceKey(key)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetCount stores a counter with the count TTL
func (c *Cache) SetCount(ctx context.Context, key string, value int64) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Set(ctx, c.NamespaceKey(key), strconv.FormatInt(value, 10), CountTTL).Err()
}

// Delete removes keys from the cache
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = c.NamespaceKey(k)
	}
	return c.client.Del(ctx, namespaced...).Err()
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}

// FollowingCountKey is the cache key for a user's following count
func FollowingCountKey(userID string) string {
	return "follow:following:" + userID
}

// FollowersCountKey is the cache key for a user's followers count
func FollowersCountKey(userID string) string {
	return "follow:followers:" + userID
}
