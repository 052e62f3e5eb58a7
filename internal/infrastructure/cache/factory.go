package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/tunestream/internal/config"
)

// New selects a ResultCache backend from configuration.
// redisClient may be nil unless the redis backend is selected.
func New(cfg config.CacheConfig, redisClient *redis.Client) (ResultCache, error) {
	switch cfg.Backend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("redis cache backend selected but no redis client configured")
		}
		return NewRedisResultCache(redisClient, cfg.TTL), nil
	default:
		return NewFilesystemCache(cfg.Dir, cfg.TTL)
	}
}
