package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// Ensure OllamaEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*OllamaEmbedding)(nil)

// OllamaEmbedding implements EmbeddingService against a local Ollama server.
// Ollama embeds one prompt per request, so batch calls loop.
type OllamaEmbedding struct {
	baseURL string
	model   string
	client  *http.Client

	// dimensions is discovered lazily from the first response
	dimensions int
}

// NewOllamaEmbedding creates a new Ollama embedding service
func NewOllamaEmbedding(baseURL, model string) (driven.EmbeddingService, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}

	return &OllamaEmbedding{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// ollamaRequest is the request body for /api/embeddings
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaResponse is the response from /api/embeddings
type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Embed generates embeddings for multiple texts
func (e *OllamaEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}

// EmbedQuery generates an embedding for a search query
func (e *OllamaEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return e.embedOne(ctx, query)
}

// embedOne sends a single prompt to the embeddings endpoint
func (e *OllamaEmbedding) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrEmbeddingUnavailable, err)
	}

	var embResp ollamaResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrEmbeddingUnavailable, err)
	}

	if embResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmbeddingUnavailable, embResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrEmbeddingUnavailable, resp.StatusCode)
	}
	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", domain.ErrEmbeddingUnavailable)
	}

	if e.dimensions == 0 {
		e.dimensions = len(embResp.Embedding)
	}

	return embResp.Embedding, nil
}

// Dimensions returns the embedding dimension size.
// Zero until the first successful call.
func (e *OllamaEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *OllamaEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *OllamaEmbedding) HealthCheck(ctx context.Context) error {
	_, err := e.embedOne(ctx, "health check")
	return err
}

// Close releases resources held by the embedding service
func (e *OllamaEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
