package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockDistributedLock is an in-memory DistributedLock for testing.
// TTLs are tracked but only honored on Acquire, which treats an expired
// lease as free.
type MockDistributedLock struct {
	mu    sync.Mutex
	held  map[string]time.Time
	down  bool
}

// NewMockDistributedLock creates a new MockDistributedLock
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{
		held: make(map[string]time.Time),
	}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.down {
		return false, fmt.Errorf("lock backend down")
	}

	if expiry, ok := m.held[name]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	m.held[name] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.held, name)
	return nil
}

func (m *MockDistributedLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.held[name]; !ok {
		return fmt.Errorf("lock %s not held", name)
	}
	m.held[name] = time.Now().Add(ttl)
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.down {
		return fmt.Errorf("lock backend down")
	}
	return nil
}

// Helper methods for testing

// IsHeld reports whether a lock name is currently leased
func (m *MockDistributedLock) IsHeld(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.held[name]
	return ok && time.Now().Before(expiry)
}

// SetDown simulates a lock backend outage
func (m *MockDistributedLock) SetDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = down
}
