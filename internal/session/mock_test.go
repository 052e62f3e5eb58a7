package session

import (
	"context"
	"sync"

	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/usecase"
)

// mockResolveService provides a configurable mock for ResolveService.
type mockResolveService struct {
	resolveFn       func(ctx context.Context, query string) (*usecase.Resolution, error)
	resolveDirectFn func(ctx context.Context, query string) (*model.PlaybackTarget, error)
	clearCacheFn    func(ctx context.Context) (int, error)

	directCalls int
}

func (m *mockResolveService) Resolve(ctx context.Context, query string) (*usecase.Resolution, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, query)
	}
	return usecase.NewResolution("default title", "vid000",
		func(ctx context.Context) (string, error) { return "https://cdn.example.com/default", nil },
	), nil
}

func (m *mockResolveService) ResolveDirect(ctx context.Context, query string) (*model.PlaybackTarget, error) {
	m.directCalls++
	if m.resolveDirectFn != nil {
		return m.resolveDirectFn(ctx, query)
	}
	return &model.PlaybackTarget{Title: "direct title", StreamURL: "https://cdn.example.com/direct"}, nil
}

func (m *mockResolveService) ClearCache(ctx context.Context) (int, error) {
	if m.clearCacheFn != nil {
		return m.clearCacheFn(ctx)
	}
	return 0, nil
}

// fakePlayer records the commands it receives.
type fakePlayer struct {
	mu sync.Mutex

	loads     []string
	volume    int
	paused    bool
	stopped   bool
	loadErr   error
	volumeErr error
}

func (p *fakePlayer) Load(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return p.loadErr
	}
	p.loads = append(p.loads, url)
	return nil
}

func (p *fakePlayer) SetVolume(ctx context.Context, volume int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.volumeErr != nil {
		return p.volumeErr
	}
	p.volume = volume
	return nil
}

func (p *fakePlayer) TogglePause(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	return p.paused, nil
}

func (p *fakePlayer) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	return nil
}

func (p *fakePlayer) Duration(ctx context.Context) (float64, error) {
	return 0, nil
}

func (p *fakePlayer) Volume(ctx context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float64(p.volume), nil
}

func (p *fakePlayer) Paused(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused, nil
}

func (p *fakePlayer) Terminate() error {
	return nil
}

func (p *fakePlayer) loadedURLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.loads...)
}
