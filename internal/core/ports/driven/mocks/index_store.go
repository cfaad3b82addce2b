package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// MockIndexStore is an in-memory IndexStore for testing
type MockIndexStore struct {
	mu       sync.RWMutex
	triggers map[string]*domain.IndexTrigger
	records  []*domain.IndexRecord
}

// NewMockIndexStore creates a new MockIndexStore
func NewMockIndexStore() *MockIndexStore {
	return &MockIndexStore{
		triggers: make(map[string]*domain.IndexTrigger),
	}
}

func (m *MockIndexStore) CreateTrigger(ctx context.Context, trigger *domain.IndexTrigger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *trigger
	m.triggers[trigger.ID] = &cp
	return nil
}

func (m *MockIndexStore) FinishTrigger(ctx context.Context, id string, status domain.TriggerStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.triggers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = at
	return nil
}

func (m *MockIndexStore) GetTrigger(ctx context.Context, id string) (*domain.IndexTrigger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.triggers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockIndexStore) AddRecord(ctx context.Context, record *domain.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *record
	m.records = append(m.records, &cp)
	return nil
}

func (m *MockIndexStore) CountRecords(ctx context.Context, triggerID string) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var completed, failed int
	for _, r := range m.records {
		if r.TriggerID != triggerID {
			continue
		}
		if r.Status == domain.GenerationCompleted {
			completed++
		} else {
			failed++
		}
	}
	return completed, failed, nil
}

func (m *MockIndexStore) ListCompletedItemIDs(ctx context.Context) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make(map[string]bool)
	for _, r := range m.records {
		if r.Status == domain.GenerationCompleted {
			ids[r.ItemID] = true
		}
	}
	return ids, nil
}

func (m *MockIndexStore) DeleteRecords(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	return nil
}

// Helper methods for testing

// Records returns a copy of all stored records
func (m *MockIndexStore) Records() []*domain.IndexRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.IndexRecord, len(m.records))
	copy(out, m.records)
	return out
}

// TriggerCount returns the number of stored triggers
func (m *MockIndexStore) TriggerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.triggers)
}
