// Package runtime holds the dynamically configurable pieces of the search
// subsystem: the embedding service and the runtime search settings. Both can
// be swapped while the process is running, e.g. via the settings API.
//
// A single Services value is constructed in main and injected into the
// orchestrators; nothing in the module reaches for a global provider handle.
package runtime

import (
	"context"
	"sync"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// Services is the thread-safe registry of runtime-swappable services.
type Services struct {
	mu sync.RWMutex

	settings  domain.SearchSettings
	embedding driven.EmbeddingService
}

// NewServices creates a new Services registry
func NewServices(settings domain.SearchSettings) *Services {
	return &Services{
		settings: settings,
	}
}

// Settings returns a snapshot of the current search settings
func (s *Services) Settings() domain.SearchSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings replaces the search settings
func (s *Services) UpdateSettings(settings domain.SearchSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// EmbeddingService returns the current embedding service (may be nil)
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embedding
}

// SetEmbeddingService updates the embedding service, closing the old one.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedding != nil {
		_ = s.embedding.Close()
	}
	s.embedding = svc
}

// ValidateAndSetEmbedding verifies connectivity before installing the
// embedding service. A nil service clears the current one.
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		s.SetEmbeddingService(nil)
		return nil
	}

	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetEmbeddingService(svc)
	return nil
}

// Close shuts down all held services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedding != nil {
		_ = s.embedding.Close()
		s.embedding = nil
	}
	return nil
}
