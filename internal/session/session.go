// Package session owns the interactive playback session: the command
// loop, the shared player handle, and the query generation counter that
// makes "last command wins" explicit.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/player"
	"github.com/hszk-dev/tunestream/internal/usecase"
)

// statusDelay is how long the detached status monitor sleeps before
// reading player state, giving mpv time to open the stream.
const statusDelay = 500 * time.Millisecond

// PlayerError marks a failure in a player command, as opposed to a
// resolution failure. The loop reports these without re-running the
// fallback resolver: re-searching cannot fix a broken player.
type PlayerError struct {
	Err error
}

func (e *PlayerError) Error() string { return "player: " + e.Err.Error() }
func (e *PlayerError) Unwrap() error { return e.Err }

// Config holds session options.
type Config struct {
	// FastMode selects the cached/parallel resolution path. Toggled at
	// runtime with /fast.
	FastMode bool
}

// Session drives one interactive run: a foreground command loop plus the
// background extraction pool reached through the resolver.
type Session struct {
	resolver usecase.ResolveService
	player   player.Player
	logger   *slog.Logger

	in  io.Reader
	out io.Writer

	fastMode bool

	// generation identifies the most recent query. Background results
	// are applied to the player only while their generation is current.
	generation atomic.Uint64
}

// New creates a session. in and out are the interactive terminal streams.
func New(resolver usecase.ResolveService, p player.Player, logger *slog.Logger, in io.Reader, out io.Writer, cfg Config) *Session {
	return &Session{
		resolver: resolver,
		player:   p,
		logger:   logger,
		in:       in,
		out:      out,
		fastMode: cfg.FastMode,
	}
}

// Play resolves query and hands the stream to the player. Resolution
// failures on the fast path fall back to the direct path once; the
// returned error is a *PlayerError only when resolution succeeded and the
// player itself failed.
func (s *Session) Play(ctx context.Context, query string) error {
	gen := s.generation.Add(1)
	start := time.Now()

	target, err := s.resolveTarget(ctx, query, start)
	if err != nil {
		return err
	}

	return s.load(ctx, gen, target)
}

// resolveTarget runs the mode-appropriate resolution pipeline and prints
// the provisional result as soon as the candidate is known, so extraction
// latency overlaps the printing.
func (s *Session) resolveTarget(ctx context.Context, query string, start time.Time) (*model.PlaybackTarget, error) {
	if !s.fastMode {
		target, err := s.resolver.ResolveDirect(ctx, query)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(s.out, "\n[%.2fs] Playing: %s\n", time.Since(start).Seconds(), target.Title)
		return target, nil
	}

	res, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		s.logger.Warn("fast path failed, using direct resolver",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return s.fallback(ctx, query, start)
	}

	fmt.Fprintf(s.out, "\n[%.2fs] Playing: %s\n", time.Since(start).Seconds(), res.Title)

	url, err := res.Wait(ctx)
	if err != nil {
		s.logger.Warn("extraction failed, using direct resolver",
			slog.String("video_id", res.VideoID),
			slog.String("error", err.Error()),
		)
		return s.fallback(ctx, query, start)
	}

	return &model.PlaybackTarget{Title: res.Title, StreamURL: url}, nil
}

func (s *Session) fallback(ctx context.Context, query string, start time.Time) (*model.PlaybackTarget, error) {
	target, err := s.resolver.ResolveDirect(ctx, query)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "\n[%.2fs] Playing (fallback): %s\n", time.Since(start).Seconds(), target.Title)
	return target, nil
}

// load hands the target to the player unless a newer query has superseded
// gen. Stale completions are discarded harmlessly.
func (s *Session) load(ctx context.Context, gen uint64, target *model.PlaybackTarget) error {
	if s.generation.Load() != gen {
		s.logger.Debug("discarding superseded stream",
			slog.String("title", target.Title),
			slog.Uint64("generation", gen),
		)
		return nil
	}

	if err := s.player.Load(ctx, target.StreamURL); err != nil {
		return &PlayerError{Err: err}
	}

	go s.statusMonitor(ctx)
	return nil
}

// statusMonitor is a one-shot detached reporter: it sleeps briefly, then
// prints the current stream's duration and volume. Fire-and-forget; it
// reads player state without synchronizing with later commands.
func (s *Session) statusMonitor(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(statusDelay):
	}

	duration, err := s.player.Duration(ctx)
	if err != nil || duration <= 0 {
		return
	}
	volume, err := s.player.Volume(ctx)
	if err != nil {
		return
	}
	fmt.Fprintf(s.out, "Duration: %.0fs | Volume: %.0f%%\n", duration, volume)
}

// handleQuery wraps one query attempt in the loop's last-resort recovery:
// resolution-stage failures get a single direct retry, player-stage
// failures are reported as-is.
func (s *Session) handleQuery(ctx context.Context, query string) {
	err := s.Play(ctx, query)
	if err == nil {
		return
	}

	var perr *PlayerError
	if errors.As(err, &perr) {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	s.logger.Warn("resolution failed, retrying via direct path",
		slog.String("query", query),
		slog.String("error", err.Error()),
	)

	target, derr := s.resolver.ResolveDirect(ctx, query)
	if derr != nil {
		fmt.Fprintln(s.out, "Please try another search.")
		return
	}

	gen := s.generation.Load()
	if lerr := s.load(ctx, gen, target); lerr != nil {
		fmt.Fprintf(s.out, "Error: %v\n", lerr)
		return
	}
	fmt.Fprintf(s.out, "Playing (fallback): %s\n", target.Title)
}
