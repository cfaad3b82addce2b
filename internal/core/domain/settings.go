package domain

// AIProvider identifies an embedding provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderOllama AIProvider = "ollama"
)

// EmbeddingSettings configures the embedding provider
type EmbeddingSettings struct {
	Provider AIProvider `json:"provider"`
	APIKey   string     `json:"api_key,omitempty"`
	Model    string     `json:"model,omitempty"`
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured reports whether the settings name a provider at all
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// SearchSettings are the runtime-adjustable knobs of the search subsystem.
type SearchSettings struct {
	// AISearchEnabled gates the semantic path. When false every query
	// takes the keyword path directly.
	AISearchEnabled bool `json:"ai_search_enabled"`

	// DefaultThreshold is the minimum cosine similarity for a chunk to
	// count as a hit when a request does not set its own threshold.
	DefaultThreshold float64 `json:"default_threshold"`

	// MaxChunkSize bounds chunk length in characters during indexing.
	MaxChunkSize int `json:"max_chunk_size"`
}

// DefaultSearchSettings returns sensible defaults
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{
		AISearchEnabled:  true,
		DefaultThreshold: 0.3,
		MaxChunkSize:     1000,
	}
}
