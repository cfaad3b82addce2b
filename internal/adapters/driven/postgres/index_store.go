package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore implements driven.IndexStore using PostgreSQL
type IndexStore struct {
	db *DB
}

// NewIndexStore creates a new IndexStore
func NewIndexStore(db *DB) *IndexStore {
	return &IndexStore{db: db}
}

// CreateTrigger persists a new trigger in processing state
func (s *IndexStore) CreateTrigger(ctx context.Context, trigger *domain.IndexTrigger) error {
	query := `
		INSERT INTO index_triggers (id, initiated_by, kind, expected_items, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		trigger.ID,
		trigger.InitiatedBy,
		trigger.Kind,
		trigger.ExpectedItems,
		trigger.Status,
		trigger.CreatedAt,
		trigger.UpdatedAt,
	)
	return err
}

// FinishTrigger sets the terminal status of a trigger
func (s *IndexStore) FinishTrigger(ctx context.Context, id string, status domain.TriggerStatus, at time.Time) error {
	query := `UPDATE index_triggers SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, status, at, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// GetTrigger retrieves a trigger by id
func (s *IndexStore) GetTrigger(ctx context.Context, id string) (*domain.IndexTrigger, error) {
	query := `
		SELECT id, initiated_by, kind, expected_items, status, created_at, updated_at
		FROM index_triggers
		WHERE id = $1
	`

	var trigger domain.IndexTrigger
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&trigger.ID,
		&trigger.InitiatedBy,
		&trigger.Kind,
		&trigger.ExpectedItems,
		&trigger.Status,
		&trigger.CreatedAt,
		&trigger.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &trigger, nil
}

// AddRecord appends a per-item outcome record and bumps the trigger's
// updated_at so progress polling sees recent activity.
func (s *IndexStore) AddRecord(ctx context.Context, record *domain.IndexRecord) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO index_records (id, trigger_id, item_id, status, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.ExecContext(ctx, query,
			record.ID,
			record.TriggerID,
			record.ItemID,
			record.Status,
			record.CreatedBy,
			record.CreatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE index_triggers SET updated_at = $1 WHERE id = $2`,
			record.CreatedAt, record.TriggerID,
		)
		return err
	})
}

// CountRecords returns the completed/failed record counts for a trigger
func (s *IndexStore) CountRecords(ctx context.Context, triggerID string) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2)
		FROM index_records
		WHERE trigger_id = $3
	`

	var completed, failed int
	err := s.db.QueryRowContext(ctx, query,
		domain.GenerationCompleted,
		domain.GenerationFailed,
		triggerID,
	).Scan(&completed, &failed)
	if err != nil {
		return 0, 0, err
	}

	return completed, failed, nil
}

// ListCompletedItemIDs returns the ids of items with a completed record
func (s *IndexStore) ListCompletedItemIDs(ctx context.Context) (map[string]bool, error) {
	query := `SELECT DISTINCT item_id FROM index_records WHERE status = $1`

	rows, err := s.db.QueryContext(ctx, query, domain.GenerationCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// DeleteRecords removes all index records
func (s *IndexStore) DeleteRecords(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM index_records`)
	return err
}
