package driven

import (
	"context"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// ContentStore supplies indexing candidates from the content platform.
// Read-only from this subsystem's perspective.
type ContentStore interface {
	// ListIndexable returns all posts eligible for indexing, optionally
	// filtered by post type. The returned snapshot is taken once per run.
	ListIndexable(ctx context.Context, types []string) ([]*domain.Post, error)
}
