package model

import "errors"

// SearchResult is a single candidate match returned by the remote search
// service. VideoID is the platform's opaque video identifier.
type SearchResult struct {
	VideoID string
	Title   string
}

// WatchURL returns the short-form watch page URL for the candidate.
func (r SearchResult) WatchURL() string {
	return "https://youtu.be/" + r.VideoID
}

// ResultSet is an ordered set of search candidates.
// Insertion order is relevance order as returned by the search service.
type ResultSet []SearchResult

// First returns the most relevant candidate, if any.
func (rs ResultSet) First() (SearchResult, bool) {
	if len(rs) == 0 {
		return SearchResult{}, false
	}
	return rs[0], true
}

// MediaFormat describes one downloadable stream variant of a video.
// ACodec is the audio codec identifier; "none" marks video-only formats.
type MediaFormat struct {
	ACodec string
	URL    string
}

// HasAudio reports whether the format carries a usable audio stream.
func (f MediaFormat) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none" && f.URL != ""
}

// MediaInfo is the extraction service's view of a single video: its
// available formats plus an optional top-level pre-muxed URL.
type MediaInfo struct {
	Title   string
	URL     string
	Formats []MediaFormat
}

// PlaybackTarget is what the player consumes. Ephemeral, never persisted.
type PlaybackTarget struct {
	Title     string
	StreamURL string
}

var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEmptyStreamURL = errors.New("stream URL cannot be empty")
)

// NewPlaybackTarget validates and builds a playback target.
func NewPlaybackTarget(title, streamURL string) (*PlaybackTarget, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if streamURL == "" {
		return nil, ErrEmptyStreamURL
	}
	return &PlaybackTarget{
		Title:     title,
		StreamURL: streamURL,
	}, nil
}
