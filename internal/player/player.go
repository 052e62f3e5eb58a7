// Package player controls an external audio player process.
package player

import "context"

// Player defines the interface for the audio player the session drives.
// Implementations wrap an external process; all commands target the single
// shared player instance and the newest load supersedes the previous one.
type Player interface {
	// Load replaces the current stream with url and starts playback.
	Load(ctx context.Context, url string) error

	// SetVolume sets the playback volume (0-100).
	SetVolume(ctx context.Context, volume int) error

	// TogglePause flips the pause state and returns the new state.
	TogglePause(ctx context.Context) (paused bool, err error)

	// Stop stops playback and clears the current stream.
	Stop(ctx context.Context) error

	// Duration returns the current stream's duration in seconds.
	// Returns 0 when nothing is loaded or the duration is unknown yet.
	Duration(ctx context.Context) (float64, error)

	// Volume returns the current volume.
	Volume(ctx context.Context) (float64, error)

	// Paused reports the current pause state.
	Paused(ctx context.Context) (bool, error)

	// Terminate shuts the player process down.
	Terminate() error
}
