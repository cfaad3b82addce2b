package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// MockVectorStore is an in-memory VectorStore for testing
type MockVectorStore struct {
	mu          sync.RWMutex
	entries     map[string]driven.VectorEntry
	unavailable bool
}

// NewMockVectorStore creates a new MockVectorStore
func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{
		entries: make(map[string]driven.VectorEntry),
	}
}

func (m *MockVectorStore) Put(ctx context.Context, chunkID string, vector []float32, meta domain.ChunkMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return fmt.Errorf("%w: mock store down", domain.ErrVectorStoreUnavailable)
	}

	vec := make([]float32, len(vector))
	copy(vec, vector)
	m.entries[chunkID] = driven.VectorEntry{ChunkID: chunkID, Vector: vec, Meta: meta}
	return nil
}

func (m *MockVectorStore) Enumerate(ctx context.Context, fn func(entry driven.VectorEntry) error) error {
	m.mu.RLock()
	if m.unavailable {
		m.mu.RUnlock()
		return fmt.Errorf("%w: mock store down", domain.ErrVectorStoreUnavailable)
	}

	// Stable order keeps tests deterministic.
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]driven.VectorEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, m.entries[id])
	}
	m.mu.RUnlock()

	for _, e := range entries {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockVectorStore) DeleteAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return 0, fmt.Errorf("%w: mock store down", domain.ErrVectorStoreUnavailable)
	}

	n := len(m.entries)
	m.entries = make(map[string]driven.VectorEntry)
	return n, nil
}

func (m *MockVectorStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.unavailable {
		return 0, fmt.Errorf("%w: mock store down", domain.ErrVectorStoreUnavailable)
	}
	return len(m.entries), nil
}

func (m *MockVectorStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.unavailable {
		return domain.ErrVectorStoreUnavailable
	}
	return nil
}

// Helper methods for testing

// SetUnavailable simulates a vector store outage
func (m *MockVectorStore) SetUnavailable(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = down
}

// Get returns a stored entry directly
func (m *MockVectorStore) Get(chunkID string) (driven.VectorEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[chunkID]
	return e, ok
}

// Len returns the number of stored entries without error plumbing
func (m *MockVectorStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
