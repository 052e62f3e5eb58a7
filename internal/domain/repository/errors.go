package repository

import "errors"

var (
	// ErrSearchUnavailable is returned when the remote search service is
	// unreachable or returns a malformed response.
	ErrSearchUnavailable = errors.New("remote search unavailable")

	// ErrExtractionFailed is returned when no usable audio stream can be
	// extracted for a video.
	ErrExtractionFailed = errors.New("no playable audio format found")

	// ErrNoResults is returned when a search succeeds but matches nothing.
	ErrNoResults = errors.New("no results for query")
)
