package mocks

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// MockEmbeddingService is a deterministic in-memory EmbeddingService for
// testing. Vectors are derived from a hash of the text, so identical texts
// always embed identically.
type MockEmbeddingService struct {
	mu          sync.Mutex
	dimensions  int
	model       string
	failAlways  bool
	failOnMatch []string
	calls       int
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 8,
		model:      "mock-embedding-model",
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.failAlways {
		return nil, fmt.Errorf("%w: mock failure", domain.ErrEmbeddingUnavailable)
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		for _, marker := range m.failOnMatch {
			if strings.Contains(text, marker) {
				return nil, fmt.Errorf("%w: mock failure on %q", domain.ErrEmbeddingUnavailable, marker)
			}
		}
		result[i] = m.generateEmbedding(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := m.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	if m.failAlways {
		return domain.ErrEmbeddingUnavailable
	}
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// generateEmbedding generates a deterministic embedding based on text hash
func (m *MockEmbeddingService) generateEmbedding(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000)/1000.0 + 0.001
	}
	return embedding
}

// Helper methods for testing

// SetFailAlways makes every call fail with ErrEmbeddingUnavailable
func (m *MockEmbeddingService) SetFailAlways(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAlways = fail
}

// FailOnTextContaining makes embedding fail for any text containing marker
func (m *MockEmbeddingService) FailOnTextContaining(marker string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOnMatch = append(m.failOnMatch, marker)
}

// SetDimensions overrides the embedding dimension
func (m *MockEmbeddingService) SetDimensions(dim int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dim
}

// Calls returns how many Embed/EmbedQuery calls were made
func (m *MockEmbeddingService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
