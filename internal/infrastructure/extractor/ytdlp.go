// Package extractor wraps the yt-dlp CLI as the stream extraction service.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/domain/repository"
)

// Config holds configuration for the yt-dlp extractor.
type Config struct {
	// Path is the path to the yt-dlp binary.
	// If empty, "yt-dlp" will be used (assumes it's in PATH).
	Path string

	// SocketTimeout bounds each network operation inside yt-dlp.
	// Default: 10s
	SocketTimeout time.Duration

	// Retries is the number of retries yt-dlp performs per fragment.
	// Default: 3
	Retries int
}

// DefaultConfig returns a Config with production-ready defaults.
func DefaultConfig() Config {
	return Config{
		Path:          "yt-dlp",
		SocketTimeout: 10 * time.Second,
		Retries:       3,
	}
}

// YtdlpExtractor implements repository.Extractor using the yt-dlp CLI.
type YtdlpExtractor struct {
	config Config
}

// Compile-time verification that YtdlpExtractor implements Extractor.
var _ repository.Extractor = (*YtdlpExtractor)(nil)

// NewYtdlpExtractor creates a new yt-dlp based extractor.
func NewYtdlpExtractor(cfg Config) *YtdlpExtractor {
	if cfg.Path == "" {
		cfg.Path = "yt-dlp"
	}
	return &YtdlpExtractor{
		config: cfg,
	}
}

// dumpJSON is the slice of yt-dlp's -J output we consume.
type dumpJSON struct {
	Title   string       `json:"title"`
	URL     string       `json:"url"`
	Formats []formatJSON `json:"formats"`
	Entries []dumpJSON   `json:"entries"`
}

type formatJSON struct {
	ACodec string `json:"acodec"`
	URL    string `json:"url"`
}

// ListFormats probes a video and returns its available formats plus the
// top-level URL yt-dlp selects, if any.
func (e *YtdlpExtractor) ListFormats(ctx context.Context, videoID string) (*model.MediaInfo, error) {
	args := append(e.commonArgs(), "https://youtu.be/"+videoID)

	out, err := e.runDump(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %v", repository.ErrExtractionFailed, videoID, err)
	}

	info, err := parseDump(out)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %v", repository.ErrExtractionFailed, videoID, err)
	}
	return info, nil
}

// DirectResolve performs a blocking search-and-extract using yt-dlp's
// ytsearch1: query form and returns the first match.
func (e *YtdlpExtractor) DirectResolve(ctx context.Context, query string) (*model.PlaybackTarget, error) {
	args := append(e.commonArgs(), "-f", "bestaudio/best", "ytsearch1:"+query)

	out, err := e.runDump(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSearchUnavailable, err)
	}

	target, err := parseSearchDump(out)
	if err != nil {
		return nil, err
	}
	return target, nil
}

// commonArgs returns the flags shared by both dump invocations.
func (e *YtdlpExtractor) commonArgs() []string {
	return []string{
		"-J",
		"--no-playlist",
		"--no-warnings",
		"--socket-timeout", strconv.Itoa(int(e.config.SocketTimeout.Seconds())),
		"--retries", strconv.Itoa(e.config.Retries),
	}
}

// runDump executes yt-dlp and returns its stdout.
func (e *YtdlpExtractor) runDump(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.config.Path, args...)
	cmd.Stderr = nil // Discard stderr (yt-dlp outputs progress there)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("extraction cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("yt-dlp execution failed: %w", err)
	}
	return out, nil
}

// parseDump decodes a single-video -J dump into MediaInfo.
func parseDump(out []byte) (*model.MediaInfo, error) {
	var dump dumpJSON
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}

	formats := make([]model.MediaFormat, 0, len(dump.Formats))
	for _, f := range dump.Formats {
		formats = append(formats, model.MediaFormat{
			ACodec: f.ACodec,
			URL:    f.URL,
		})
	}

	return &model.MediaInfo{
		Title:   dump.Title,
		URL:     dump.URL,
		Formats: formats,
	}, nil
}

// parseSearchDump decodes a ytsearch1: dump and takes the first entry.
func parseSearchDump(out []byte) (*model.PlaybackTarget, error) {
	var dump dumpJSON
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, fmt.Errorf("%w: decode yt-dlp output: %v", repository.ErrSearchUnavailable, err)
	}

	entry := dump
	if len(dump.Entries) > 0 {
		entry = dump.Entries[0]
	} else if dump.URL == "" {
		return nil, repository.ErrNoResults
	}

	if entry.URL == "" {
		return nil, fmt.Errorf("%w: first entry carries no stream URL", repository.ErrExtractionFailed)
	}

	return &model.PlaybackTarget{
		Title:     entry.Title,
		StreamURL: entry.URL,
	}, nil
}
