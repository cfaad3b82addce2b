package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore implements driven.ContentStore using PostgreSQL.
// The posts table is owned by the content platform; this adapter only reads.
type ContentStore struct {
	db *DB
}

// NewContentStore creates a new ContentStore
func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// ListIndexable returns all posts eligible for indexing,
// optionally filtered by post type
func (s *ContentStore) ListIndexable(ctx context.Context, types []string) ([]*domain.Post, error) {
	query := `
		SELECT id, title, body, author_name, post_type, labels, created_at
		FROM posts
	`
	var args []interface{}
	if len(types) > 0 {
		query += ` WHERE post_type = ANY($1)`
		args = append(args, pq.Array(types))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var post domain.Post
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Body,
			&post.AuthorName,
			&post.Type,
			pq.Array(&post.Labels),
			&post.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
