package driving

import (
	"context"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// IndexingService coordinates indexing runs.
// StartIndexing returns immediately; callers poll GetStatus for the outcome.
type IndexingService interface {
	// StartIndexing resolves candidates, creates a trigger and hands the
	// run to the background runner. Returns item_count 0 and no trigger
	// when nothing needs indexing.
	StartIndexing(ctx context.Context, req domain.IndexRequest) (*domain.IndexStartResult, error)

	// GetStatus returns the progress of a trigger; domain.ErrNotFound
	// when the trigger id is unknown
	GetStatus(ctx context.Context, triggerID string) (*domain.TriggerProgress, error)

	// ClearIndex removes every stored vector and all generation records.
	// Administrative, irreversible. Returns the number of vectors removed.
	ClearIndex(ctx context.Context) (int, error)
}
