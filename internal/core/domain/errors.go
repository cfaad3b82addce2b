package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding provider could not be
	// reached or returned an error. Recovered locally, never surfaced from search.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store could not be reached
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrIndexingInProgress indicates another indexing run holds the lock
	ErrIndexingInProgress = errors.New("indexing already in progress")

	// ErrInvalidProvider indicates an unknown embedding provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrDimensionMismatch indicates a vector of the wrong length was stored.
	// This is a programming error, not a runtime condition.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
