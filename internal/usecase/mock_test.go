package usecase

import (
	"context"

	"github.com/hszk-dev/tunestream/internal/domain/model"
)

// mockSearchService provides a configurable mock for SearchService.
type mockSearchService struct {
	searchFn func(ctx context.Context, query string, maxResults int) (model.ResultSet, error)

	searchCalls int
}

func (m *mockSearchService) Search(ctx context.Context, query string, maxResults int) (model.ResultSet, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, query, maxResults)
	}
	return nil, nil
}

// mockExtractor provides a configurable mock for Extractor.
type mockExtractor struct {
	listFormatsFn   func(ctx context.Context, videoID string) (*model.MediaInfo, error)
	directResolveFn func(ctx context.Context, query string) (*model.PlaybackTarget, error)

	listFormatsCalls   int
	directResolveCalls int
}

func (m *mockExtractor) ListFormats(ctx context.Context, videoID string) (*model.MediaInfo, error) {
	m.listFormatsCalls++
	if m.listFormatsFn != nil {
		return m.listFormatsFn(ctx, videoID)
	}
	return &model.MediaInfo{}, nil
}

func (m *mockExtractor) DirectResolve(ctx context.Context, query string) (*model.PlaybackTarget, error) {
	m.directResolveCalls++
	if m.directResolveFn != nil {
		return m.directResolveFn(ctx, query)
	}
	return &model.PlaybackTarget{}, nil
}

// mockResultCache provides a configurable mock for cache.ResultCache.
type mockResultCache struct {
	getFn      func(ctx context.Context, key string) (model.ResultSet, bool, error)
	putFn      func(ctx context.Context, key string, results model.ResultSet) error
	clearAllFn func(ctx context.Context) (int, error)

	getCalls int
	putCalls int
}

func (m *mockResultCache) Get(ctx context.Context, key string) (model.ResultSet, bool, error) {
	m.getCalls++
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockResultCache) Put(ctx context.Context, key string, results model.ResultSet) error {
	m.putCalls++
	if m.putFn != nil {
		return m.putFn(ctx, key, results)
	}
	return nil
}

func (m *mockResultCache) ClearAll(ctx context.Context) (int, error) {
	if m.clearAllFn != nil {
		return m.clearAllFn(ctx)
	}
	return 0, nil
}

func (m *mockResultCache) Close() error {
	return nil
}
