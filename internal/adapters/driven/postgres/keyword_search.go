package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.KeywordSearchEngine = (*KeywordSearch)(nil)

// KeywordSearch implements the fallback search directly on the posts table.
// Ranking is a fixed three-tier priority: a title match always outranks a
// body match, which always outranks a label match. Ties break newest-first.
type KeywordSearch struct {
	db *DB
}

// NewKeywordSearch creates a new KeywordSearch
func NewKeywordSearch(db *DB) *KeywordSearch {
	return &KeywordSearch{db: db}
}

// Search performs a case-insensitive substring match over title, body and
// labels. Results carry no similarity score.
func (s *KeywordSearch) Search(ctx context.Context, query string, limit int, types []string) ([]*domain.SearchResult, error) {
	pattern := "%" + query + "%"

	sqlQuery := `
		SELECT id, title, body, author_name, post_type, labels, created_at
		FROM posts
		WHERE (
			title ILIKE $1
			OR body ILIKE $1
			OR EXISTS (SELECT 1 FROM unnest(labels) AS label WHERE label ILIKE $1)
		)
	`
	args := []interface{}{pattern}

	if len(types) > 0 {
		sqlQuery += ` AND post_type = ANY($2)`
		args = append(args, pq.Array(types))
	}

	sqlQuery += `
		ORDER BY
			CASE
				WHEN title ILIKE $1 THEN 1
				WHEN body ILIKE $1 THEN 2
				ELSE 3
			END,
			created_at DESC
	`

	args = append(args, limit)
	if len(types) > 0 {
		sqlQuery += ` LIMIT $3`
	} else {
		sqlQuery += ` LIMIT $2`
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.SearchResult
	for rows.Next() {
		var (
			result domain.SearchResult
			body   string
		)
		err := rows.Scan(
			&result.ItemID,
			&result.Title,
			&body,
			&result.AuthorName,
			&result.Type,
			pq.Array(&result.Labels),
			&result.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result.Snippet = domain.Snippet(body)
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
