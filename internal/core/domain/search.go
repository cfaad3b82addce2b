package domain

import (
	"math"
	"time"
)

// SearchPath reports which strategy produced a result set
type SearchPath string

const (
	SearchPathSemantic SearchPath = "semantic" // embedding + vector scan
	SearchPathKeyword  SearchPath = "keyword"  // relational substring match
)

// SearchOptions configures a search request
type SearchOptions struct {
	Limit     int      `json:"limit"`
	Threshold *float64 `json:"threshold,omitempty"` // nil means use the configured default
	Types     []string `json:"types,omitempty"`     // filter by post type
}

// SearchResult is one ranked hit. Similarity is present only on the
// semantic path; keyword results carry no score.
type SearchResult struct {
	ItemID     string    `json:"item_id"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet"`
	AuthorName string    `json:"author_name"`
	Type       string    `json:"type"`
	Labels     []string  `json:"labels,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Similarity *float64  `json:"similarity_score,omitempty"`
}

// SearchResponse is the full response for a search request
type SearchResponse struct {
	Query   string          `json:"query"`
	Path    SearchPath      `json:"path"`
	Results []*SearchResult `json:"results"`
	Took    time.Duration   `json:"took" swaggertype:"integer" example:"1500000"`
}

// SearchStatus answers "which path would a query take right now".
// Observability only; not required for correctness.
type SearchStatus struct {
	AISearchEnabled      bool    `json:"ai_search_enabled"`
	EmbeddingConfigured  bool    `json:"embedding_configured"`
	VectorStoreReachable bool    `json:"vector_store_reachable"`
	VectorCount          int     `json:"vector_count"`
	DefaultThreshold     float64 `json:"default_threshold"`
	EmbeddingModel       string  `json:"embedding_model,omitempty"`
}

// CosineSimilarity returns dot(a,b) / (||a|| * ||b||), in [-1, 1].
// Returns 0 when either vector has zero magnitude or lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
