package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
	"github.com/plexashare/plexa-core/internal/core/ports/driving"
	"github.com/plexashare/plexa-core/internal/runtime"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService decides between the semantic path and the keyword fallback.
// The guiding policy: a query always returns some ranked list or a
// validation error, never an availability error caused by the AI path.
type searchService struct {
	vectorStore   driven.VectorStore
	keywordEngine driven.KeywordSearchEngine
	services      *runtime.Services
	logger        *slog.Logger
}

// NewSearchService creates a new SearchService.
// The embedding service is accessed dynamically via runtime.Services.
func NewSearchService(
	vectorStore driven.VectorStore,
	keywordEngine driven.KeywordSearchEngine,
	services *runtime.Services,
	logger *slog.Logger,
) driving.SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		vectorStore:   vectorStore,
		keywordEngine: keywordEngine,
		services:      services,
		logger:        logger,
	}
}

// Search performs a semantic search with silent keyword fallback
func (s *searchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	// Apply defaults
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	settings := s.services.Settings()
	threshold := settings.DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}

	embedder := s.services.EmbeddingService()
	if settings.AISearchEnabled && embedder != nil {
		results, err := s.semanticSearch(ctx, embedder, query, threshold, opts)
		if err == nil {
			// An empty semantic result set is a valid answer, not a
			// reason to fall back. Only failures degrade the path.
			return &domain.SearchResponse{
				Query:   query,
				Path:    domain.SearchPathSemantic,
				Results: results,
				Took:    time.Since(start),
			}, nil
		}
		s.logger.Warn("semantic search failed, falling back to keyword search",
			"query", query,
			"error", err,
		)
	}

	results, err := s.keywordEngine.Search(ctx, query, opts.Limit, opts.Types)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	return &domain.SearchResponse{
		Query:   query,
		Path:    domain.SearchPathKeyword,
		Results: results,
		Took:    time.Since(start),
	}, nil
}

// scoredChunk pairs a stored chunk with its similarity to the query
type scoredChunk struct {
	meta  domain.ChunkMeta
	score float64
}

// semanticSearch embeds the query, scans every stored vector and collapses
// multi-chunk hits to one result per item (highest-scoring chunk wins).
func (s *searchService) semanticSearch(
	ctx context.Context,
	embedder driven.EmbeddingService,
	query string,
	threshold float64,
	opts domain.SearchOptions,
) ([]*domain.SearchResult, error) {
	queryVec, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var scored []scoredChunk
	err = s.vectorStore.Enumerate(ctx, func(entry driven.VectorEntry) error {
		sim := domain.CosineSimilarity(queryVec, entry.Vector)
		if sim >= threshold {
			scored = append(scored, scoredChunk{meta: entry.Meta, score: sim})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vector scan: %w", err)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	wanted := make(map[string]bool, len(opts.Types))
	for _, t := range opts.Types {
		wanted[t] = true
	}

	// First chunk wins: the list is sorted by score, so the first chunk
	// seen for an item is its best one.
	seen := make(map[string]bool)
	results := make([]*domain.SearchResult, 0, opts.Limit)
	for _, sc := range scored {
		if len(results) >= opts.Limit {
			break
		}
		if len(wanted) > 0 && !wanted[sc.meta.Type] {
			continue
		}
		if seen[sc.meta.ItemID] {
			continue
		}
		seen[sc.meta.ItemID] = true

		score := sc.score
		results = append(results, &domain.SearchResult{
			ItemID:     sc.meta.ItemID,
			Title:      sc.meta.Title,
			Snippet:    domain.Snippet(sc.meta.Content),
			AuthorName: sc.meta.AuthorName,
			Type:       sc.meta.Type,
			Labels:     sc.meta.Labels,
			CreatedAt:  sc.meta.CreatedAt,
			Similarity: &score,
		})
	}

	return results, nil
}

// Status reports which path a query would take right now
func (s *searchService) Status(ctx context.Context) (*domain.SearchStatus, error) {
	settings := s.services.Settings()
	embedder := s.services.EmbeddingService()

	status := &domain.SearchStatus{
		AISearchEnabled:     settings.AISearchEnabled,
		EmbeddingConfigured: embedder != nil,
		DefaultThreshold:    settings.DefaultThreshold,
	}
	if embedder != nil {
		status.EmbeddingModel = embedder.Model()
	}

	if err := s.vectorStore.Ping(ctx); err == nil {
		status.VectorStoreReachable = true
		if n, err := s.vectorStore.Count(ctx); err == nil {
			status.VectorCount = n
		}
	}

	return status, nil
}
