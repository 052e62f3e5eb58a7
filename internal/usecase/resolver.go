package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/domain/repository"
	"github.com/hszk-dev/tunestream/internal/infrastructure/cache"
	"github.com/hszk-dev/tunestream/internal/infrastructure/metrics"
	"github.com/hszk-dev/tunestream/internal/worker"
)

// ResolveService defines the interface for turning a free-text query into
// a playable target.
type ResolveService interface {
	// Resolve runs the fast path: cached search plus background stream
	// extraction. It returns as soon as a candidate is known; the stream
	// URL arrives through Resolution.Wait while the caller prints status.
	Resolve(ctx context.Context, query string) (*Resolution, error)

	// ResolveDirect runs the slow correctness backstop: one blocking
	// search-and-extract call, no cache, no parallelism.
	ResolveDirect(ctx context.Context, query string) (*model.PlaybackTarget, error)

	// ClearCache drops every cached search result set and reports how
	// many entries were removed.
	ClearCache(ctx context.Context) (int, error)
}

// Resolution is a provisional resolve result: the candidate is chosen but
// the stream URL may still be extracting in the background.
type Resolution struct {
	Title   string
	VideoID string

	wait func(ctx context.Context) (string, error)
}

// NewResolution builds a resolution whose stream URL arrives through wait.
func NewResolution(title, videoID string, wait func(ctx context.Context) (string, error)) *Resolution {
	return &Resolution{
		Title:   title,
		VideoID: videoID,
		wait:    wait,
	}
}

// Wait blocks until the background extraction delivers the stream URL.
func (r *Resolution) Wait(ctx context.Context) (string, error) {
	return r.wait(ctx)
}

// Target waits for extraction and assembles the playback target.
func (r *Resolution) Target(ctx context.Context) (*model.PlaybackTarget, error) {
	url, err := r.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return &model.PlaybackTarget{Title: r.Title, StreamURL: url}, nil
}

// ResolveServiceConfig holds configuration for the resolve service.
type ResolveServiceConfig struct {
	// MaxResults caps how many candidates a live search fetches and caches.
	MaxResults int
}

// DefaultResolveServiceConfig returns the default configuration.
func DefaultResolveServiceConfig() ResolveServiceConfig {
	return ResolveServiceConfig{
		MaxResults: 3,
	}
}

type resolveService struct {
	search    repository.SearchService
	extractor repository.Extractor
	cache     cache.ResultCache
	pool      *worker.Pool
	sfGroup   singleflight.Group

	maxResults int
}

// NewResolveService creates a ResolveService wired to the given
// collaborators.
func NewResolveService(
	search repository.SearchService,
	extractor repository.Extractor,
	resultCache cache.ResultCache,
	pool *worker.Pool,
	cfg ResolveServiceConfig,
) ResolveService {
	return &resolveService{
		search:     search,
		extractor:  extractor,
		cache:      resultCache,
		pool:       pool,
		maxResults: cfg.MaxResults,
	}
}

// Resolve implements the fast path: cache-aside search, first-is-best
// candidate selection, then extraction submitted to the pool so the caller
// can overlap it with status printing.
func (s *resolveService) Resolve(ctx context.Context, query string) (*Resolution, error) {
	start := time.Now()
	key := cache.Key(query)

	// Coalesce concurrent identical searches.
	v, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.lookup(ctx, key, query)
	})
	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(metrics.ResolutionModeFast, metrics.ResolutionOutcomeError).Inc()
		return nil, err
	}

	results := v.(model.ResultSet)
	candidate, ok := results.First()
	if !ok {
		metrics.ResolutionsTotal.WithLabelValues(metrics.ResolutionModeFast, metrics.ResolutionOutcomeError).Inc()
		return nil, fmt.Errorf("%w: %q", repository.ErrNoResults, query)
	}

	task, err := s.pool.Submit(func(taskCtx context.Context) (string, error) {
		return s.extractStreamURL(taskCtx, candidate.VideoID)
	})
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(metrics.ResolutionModeFast, metrics.ResolutionOutcomeError).Inc()
		return nil, fmt.Errorf("submit extraction: %w", err)
	}

	metrics.ResolutionsTotal.WithLabelValues(metrics.ResolutionModeFast, metrics.ResolutionOutcomeSuccess).Inc()
	metrics.ResolutionDuration.WithLabelValues(metrics.ResolutionModeFast).Observe(time.Since(start).Seconds())

	return NewResolution(candidate.Title, candidate.VideoID, task.Wait), nil
}

// lookup implements the cache-aside pattern: cached result set if fresh,
// live search otherwise, storing the live result for next time.
func (s *resolveService) lookup(ctx context.Context, key, query string) (any, error) {
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		// Cache faults degrade to a miss; the live search below covers us.
		slog.Warn("cache get failed, falling through to live search",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	if ok {
		return cached, nil
	}

	results, err := s.search.Search(ctx, query, s.maxResults)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, key, results); err != nil {
		slog.Warn("failed to cache search results",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return results, nil
}

// extractStreamURL probes the candidate's formats and applies the audio
// selection policy. Runs on a pool worker.
func (s *resolveService) extractStreamURL(ctx context.Context, videoID string) (string, error) {
	info, err := s.extractor.ListFormats(ctx, videoID)
	if err != nil {
		return "", err
	}
	return SelectAudioStream(info)
}

// ResolveDirect delegates to the extraction service's blocking
// search-and-extract form.
func (s *resolveService) ResolveDirect(ctx context.Context, query string) (*model.PlaybackTarget, error) {
	start := time.Now()

	target, err := s.extractor.DirectResolve(ctx, query)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(metrics.ResolutionModeDirect, metrics.ResolutionOutcomeError).Inc()
		return nil, err
	}

	metrics.ResolutionsTotal.WithLabelValues(metrics.ResolutionModeDirect, metrics.ResolutionOutcomeSuccess).Inc()
	metrics.ResolutionDuration.WithLabelValues(metrics.ResolutionModeDirect).Observe(time.Since(start).Seconds())
	return target, nil
}

// ClearCache drops all cached result sets.
func (s *resolveService) ClearCache(ctx context.Context) (int, error) {
	return s.cache.ClearAll(ctx)
}
