package repository

import (
	"context"

	"github.com/hszk-dev/tunestream/internal/domain/model"
)

// SearchService defines the interface for the remote video search service.
// Implementations should be provided by the infrastructure layer.
type SearchService interface {
	// Search returns up to maxResults candidates for the query, most
	// relevant first. Returns ErrSearchUnavailable on network or parse
	// failure.
	Search(ctx context.Context, query string, maxResults int) (model.ResultSet, error)
}
