package driven

import (
	"context"
	"time"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// IndexStore persists indexing triggers and their per-item records
// (PostgreSQL). Triggers are updated exactly once, at run end; records are
// append-only.
type IndexStore interface {
	// CreateTrigger persists a new trigger in processing state
	CreateTrigger(ctx context.Context, trigger *domain.IndexTrigger) error

	// FinishTrigger sets the terminal status of a trigger
	FinishTrigger(ctx context.Context, id string, status domain.TriggerStatus, at time.Time) error

	// GetTrigger retrieves a trigger by id; domain.ErrNotFound when unknown
	GetTrigger(ctx context.Context, id string) (*domain.IndexTrigger, error)

	// AddRecord appends a per-item outcome record
	AddRecord(ctx context.Context, record *domain.IndexRecord) error

	// CountRecords returns the completed/failed record counts for a trigger
	CountRecords(ctx context.Context, triggerID string) (completed int, failed int, err error)

	// ListCompletedItemIDs returns the ids of items that already have a
	// completed generation record. Used to skip items on non-force runs.
	ListCompletedItemIDs(ctx context.Context) (map[string]bool, error)

	// DeleteRecords removes all index records, so a subsequent non-force
	// run re-indexes everything. Used by the administrative index clear.
	DeleteRecords(ctx context.Context) error
}
