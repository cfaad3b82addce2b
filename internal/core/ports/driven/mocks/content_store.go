package mocks

import (
	"context"
	"sync"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// MockContentStore is an in-memory ContentStore for testing
type MockContentStore struct {
	mu    sync.RWMutex
	posts []*domain.Post
	err   error
}

// NewMockContentStore creates a new MockContentStore
func NewMockContentStore() *MockContentStore {
	return &MockContentStore{}
}

func (m *MockContentStore) ListIndexable(ctx context.Context, types []string) ([]*domain.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	if len(types) == 0 {
		out := make([]*domain.Post, len(m.posts))
		copy(out, m.posts)
		return out, nil
	}

	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var out []*domain.Post
	for _, p := range m.posts {
		if wanted[p.Type] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Helper methods for testing

// AddPost registers a post as indexable content
func (m *MockContentStore) AddPost(p *domain.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, p)
}

// SetError makes ListIndexable fail with err
func (m *MockContentStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
