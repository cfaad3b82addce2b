package mocks

import (
	"context"
	"sync"
)

// MockTaskRunner runs submitted tasks synchronously, so tests observe the
// completed outcome immediately after Submit returns.
type MockTaskRunner struct {
	mu        sync.Mutex
	submitted []string
	err       error
}

// NewMockTaskRunner creates a new MockTaskRunner
func NewMockTaskRunner() *MockTaskRunner {
	return &MockTaskRunner{}
}

func (m *MockTaskRunner) Submit(name string, task func(ctx context.Context)) error {
	m.mu.Lock()
	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return err
	}
	m.submitted = append(m.submitted, name)
	m.mu.Unlock()

	task(context.Background())
	return nil
}

// Helper methods for testing

// Submitted returns the names of submitted tasks
func (m *MockTaskRunner) Submitted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.submitted))
	copy(out, m.submitted)
	return out
}

// SetError makes Submit fail with err
func (m *MockTaskRunner) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
