package repository

import (
	"context"

	"github.com/hszk-dev/tunestream/internal/domain/model"
)

// Extractor defines the interface for the remote stream extraction service.
// Implementations should be provided by the infrastructure layer (e.g. yt-dlp).
type Extractor interface {
	// ListFormats returns the available stream formats for a video,
	// together with the top-level pre-muxed URL if the service supplies
	// one. Returns ErrExtractionFailed when the video cannot be probed.
	ListFormats(ctx context.Context, videoID string) (*model.MediaInfo, error)

	// DirectResolve performs a single blocking search-and-extract call
	// using the service's site-search query form and returns the first
	// result. This is the correctness backstop for the cached path.
	// Returns ErrSearchUnavailable when the service is unreachable and
	// ErrNoResults when nothing matches.
	DirectResolve(ctx context.Context, query string) (*model.PlaybackTarget, error)
}
