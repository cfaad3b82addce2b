package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// MockKeywordSearchEngine is an in-memory KeywordSearchEngine that mirrors
// the relational adapter's ranking: title match > body match > label-only
// match, ties broken by recency descending.
type MockKeywordSearchEngine struct {
	mu    sync.RWMutex
	posts []*domain.Post
	err   error
}

// NewMockKeywordSearchEngine creates a new MockKeywordSearchEngine
func NewMockKeywordSearchEngine() *MockKeywordSearchEngine {
	return &MockKeywordSearchEngine{}
}

func (m *MockKeywordSearchEngine) Search(ctx context.Context, query string, limit int, types []string) ([]*domain.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	type ranked struct {
		post *domain.Post
		tier int
	}

	q := strings.ToLower(query)
	var hits []ranked
	for _, p := range m.posts {
		if len(wanted) > 0 && !wanted[p.Type] {
			continue
		}
		tier := matchTier(p, q)
		if tier == 0 {
			continue
		}
		hits = append(hits, ranked{post: p, tier: tier})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].tier != hits[j].tier {
			return hits[i].tier < hits[j].tier
		}
		return hits[i].post.CreatedAt.After(hits[j].post.CreatedAt)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]*domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, &domain.SearchResult{
			ItemID:     h.post.ID,
			Title:      h.post.Title,
			Snippet:    domain.Snippet(h.post.Body),
			AuthorName: h.post.AuthorName,
			Type:       h.post.Type,
			Labels:     h.post.Labels,
			CreatedAt:  h.post.CreatedAt,
		})
	}
	return results, nil
}

// matchTier returns 1 for a title hit, 2 for a body hit, 3 for a label-only
// hit and 0 for no match.
func matchTier(p *domain.Post, lowerQuery string) int {
	if strings.Contains(strings.ToLower(p.Title), lowerQuery) {
		return 1
	}
	if strings.Contains(strings.ToLower(p.Body), lowerQuery) {
		return 2
	}
	for _, l := range p.Labels {
		if strings.Contains(strings.ToLower(l), lowerQuery) {
			return 3
		}
	}
	return 0
}

// Helper methods for testing

// AddPost registers a post as searchable content
func (m *MockKeywordSearchEngine) AddPost(p *domain.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, p)
}

// SetError makes Search fail with err
func (m *MockKeywordSearchEngine) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
