package driven

import (
	"context"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// KeywordSearchEngine is the always-available fallback search: a
// case-insensitive substring match over title, body and labels, ranked by a
// three-tier priority (title > body > label) with ties broken newest-first.
// Results carry no similarity score.
type KeywordSearchEngine interface {
	Search(ctx context.Context, query string, limit int, types []string) ([]*domain.SearchResult, error)
}
