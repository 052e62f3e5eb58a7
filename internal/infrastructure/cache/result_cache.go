package cache

import (
	"context"

	"github.com/hszk-dev/tunestream/internal/domain/model"
)

// ResultCache defines the interface for persisting search result sets
// keyed by query digest. Implementations handle serialization and expiry
// transparently.
type ResultCache interface {
	// Get retrieves the result set cached under key.
	// ok is false on a miss; an expired or unreadable entry is a miss,
	// never an error. The error return is reserved for backend I/O
	// faults, which callers should log and treat as a miss anyway.
	Get(ctx context.Context, key string) (results model.ResultSet, ok bool, err error)

	// Put stores the result set under key, overwriting any prior entry.
	// Concurrent Puts for the same key are last-write-wins.
	Put(ctx context.Context, key string, results model.ResultSet) error

	// ClearAll removes every cached entry and reports how many were
	// removed.
	ClearAll(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// entryJSON is the serialized form of one cache entry.
// Using an explicit struct keeps the on-disk/wire shape decoupled from the
// domain model.
type entryJSON struct {
	StoredAt int64        `json:"stored_at"`
	Results  []resultJSON `json:"results"`
}

type resultJSON struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
}

func encodeResults(results model.ResultSet) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, resultJSON{VideoID: r.VideoID, Title: r.Title})
	}
	return out
}

func decodeResults(in []resultJSON) model.ResultSet {
	out := make(model.ResultSet, 0, len(in))
	for _, r := range in {
		out = append(out, model.SearchResult{VideoID: r.VideoID, Title: r.Title})
	}
	return out
}
