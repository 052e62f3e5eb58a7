package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/infrastructure/metrics"
)

const (
	entryPrefix = "search_"
	entrySuffix = ".json"
)

// FilesystemCache stores one JSON file per cache key under a dedicated
// directory. Entries survive process restarts. Expiry is lazy: expired
// files are treated as absent on Get but stay on disk until ClearAll.
type FilesystemCache struct {
	dir string
	ttl time.Duration

	// now is swapped out in tests to exercise expiry.
	now func() time.Time
}

// Compile-time verification that FilesystemCache implements ResultCache.
var _ ResultCache = (*FilesystemCache)(nil)

// NewFilesystemCache creates the cache directory if needed and returns a
// filesystem-backed result cache.
func NewFilesystemCache(dir string, ttl time.Duration) (*FilesystemCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir %q: %w", dir, err)
	}
	return &FilesystemCache{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}, nil
}

// Get returns the result set stored under key if the entry exists and is
// within its TTL. A missing, expired, or corrupt entry is a miss.
func (c *FilesystemCache) Get(ctx context.Context, key string) (model.ResultSet, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheBackendFilesystem).Inc()
			return nil, false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheBackendFilesystem).Inc()
		return nil, false, fmt.Errorf("read cache entry %q: %w", key, err)
	}

	var entry entryJSON
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt entry: degrade to a miss, never propagate.
		slog.Warn("discarding corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusCorrupt, metrics.CacheBackendFilesystem).Inc()
		return nil, false, nil
	}

	storedAt := time.Unix(entry.StoredAt, 0)
	if c.now().Sub(storedAt) > c.ttl {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheBackendFilesystem).Inc()
		return nil, false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheBackendFilesystem).Inc()
	return decodeResults(entry.Results), true, nil
}

// Put stores the result set under key with storedAt = now.
// The write goes through a temp file and rename so a concurrent reader
// never observes a torn entry.
func (c *FilesystemCache) Put(ctx context.Context, key string, results model.ResultSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := entryJSON{
		StoredAt: c.now().Unix(),
		Results:  encodeResults(results),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("serialize cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, entryPrefix+"*.tmp")
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheBackendFilesystem).Inc()
		return fmt.Errorf("create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheBackendFilesystem).Inc()
		return fmt.Errorf("write cache entry %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.entryPath(key)); err != nil {
		os.Remove(tmp.Name())
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheBackendFilesystem).Inc()
		return fmt.Errorf("commit cache entry %q: %w", key, err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheBackendFilesystem).Inc()
	return nil
}

// ClearAll removes every cache entry file and reports the count.
func (c *FilesystemCache) ClearAll(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, entryPrefix) || !strings.HasSuffix(name, entrySuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil {
			slog.Warn("failed to remove cache entry",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		removed++
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpClear, metrics.CacheStatusSuccess, metrics.CacheBackendFilesystem).Inc()
	return removed, nil
}

func (c *FilesystemCache) Close() error {
	return nil
}

func (c *FilesystemCache) entryPath(key string) string {
	return filepath.Join(c.dir, entryPrefix+key+entrySuffix)
}
