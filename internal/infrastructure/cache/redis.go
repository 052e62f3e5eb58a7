package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/infrastructure/metrics"
)

const (
	// searchKeyPrefix is the prefix for search result keys in Redis.
	searchKeyPrefix = "search:"
)

// RedisResultCache implements ResultCache using Redis as the backing store.
// Expiry is delegated to Redis server-side TTLs, so expired entries vanish
// instead of lingering like the filesystem backend's.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ResultCache = (*RedisResultCache)(nil)

// NewRedisResultCache creates a new Redis-backed result cache.
func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a result set from Redis. A corrupt entry is a miss.
func (c *RedisResultCache) Get(ctx context.Context, key string) (model.ResultSet, bool, error) {
	data, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheBackendRedis).Inc()
			return nil, false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheBackendRedis).Inc()
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var entry entryJSON
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Warn("discarding corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusCorrupt, metrics.CacheBackendRedis).Inc()
		return nil, false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheBackendRedis).Inc()
	return decodeResults(entry.Results), true, nil
}

// Put stores a result set in Redis with the cache TTL.
func (c *RedisResultCache) Put(ctx context.Context, key string, results model.ResultSet) error {
	entry := entryJSON{
		StoredAt: time.Now().Unix(),
		Results:  encodeResults(results),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("serialize cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.buildKey(key), data, c.ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheBackendRedis).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheBackendRedis).Inc()
	return nil
}

// ClearAll removes every search entry and reports the count.
func (c *RedisResultCache) ClearAll(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, searchKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("redis del: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpClear, metrics.CacheStatusSuccess, metrics.CacheBackendRedis).Inc()
	return removed, nil
}

func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

// buildKey constructs the Redis key for a query digest.
func (c *RedisResultCache) buildKey(key string) string {
	return searchKeyPrefix + key
}
