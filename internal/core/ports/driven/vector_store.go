package driven

import (
	"context"

	"github.com/plexashare/plexa-core/internal/core/domain"
)

// VectorEntry is one stored (vector, metadata) pair
type VectorEntry struct {
	ChunkID string
	Vector  []float32
	Meta    domain.ChunkMeta
}

// VectorStore persists chunk embeddings keyed by chunk id.
// There is no native similarity index; ranking is computed by the caller
// scanning all entries. Writes are additive (new keys) and safe against
// concurrent reads of unrelated keys.
type VectorStore interface {
	// Put stores a vector and its metadata under the chunk id,
	// overwriting any previous entry for the same id.
	Put(ctx context.Context, chunkID string, vector []float32, meta domain.ChunkMeta) error

	// Enumerate streams every stored entry to fn. Enumeration stops at
	// the first error returned by fn.
	Enumerate(ctx context.Context, fn func(entry VectorEntry) error) error

	// DeleteAll removes every entry and returns the number removed
	DeleteAll(ctx context.Context) (int, error)

	// Count returns the number of stored entries
	Count(ctx context.Context) (int, error)

	// Ping checks if the backing store is reachable
	Ping(ctx context.Context) error
}
