package driving

import (
	"context"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// SearchService handles content search operations.
// Search always produces a ranked result list or a validation error; an
// AI-path outage is never surfaced to the caller.
type SearchService interface {
	// Search performs a semantic search, falling back to keyword search
	// when the semantic path is disabled or unavailable
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error)

	// Status reports which search path is currently live
	Status(ctx context.Context) (*domain.SearchStatus, error)
}
