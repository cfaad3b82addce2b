// Package redis implements the vector store and the distributed lock on a
// Redis backend.
package redis

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/redis/go-redis/v9"

	"github.com/plexashare/plexa-core/internal/core/domain"
	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorStore = (*VectorStore)(nil)

const (
	chunkKeyPrefix = "vector:chunk:"
	scanBatchSize  = 100
)

// VectorStore stores one hash per chunk: field "v" holds the embedding as
// raw little-endian float32 bytes, field "meta" holds the chunk metadata as
// JSON. There is no native similarity index; Enumerate streams every entry
// so the caller can rank by scanning.
type VectorStore struct {
	client *redis.Client
}

// NewVectorStore creates a new Redis-backed vector store.
func NewVectorStore(client *redis.Client) *VectorStore {
	return &VectorStore{client: client}
}

// Put stores a vector and its metadata under the chunk id,
// overwriting any previous entry for the same id.
func (s *VectorStore) Put(ctx context.Context, chunkID string, vector []float32, meta domain.ChunkMeta) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector for chunk %s", domain.ErrDimensionMismatch, chunkID)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal chunk metadata: %w", err)
	}

	key := chunkKeyPrefix + chunkID
	err = s.client.HSet(ctx, key, map[string]interface{}{
		"v":    encodeVector(vector),
		"meta": metaJSON,
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: store chunk %s: %v", domain.ErrVectorStoreUnavailable, chunkID, err)
	}

	return nil
}

// Enumerate streams every stored entry to fn.
// Enumeration stops at the first error returned by fn.
func (s *VectorStore) Enumerate(ctx context.Context, fn func(entry driven.VectorEntry) error) error {
	iter := s.client.Scan(ctx, 0, chunkKeyPrefix+"*", scanBatchSize).Iterator()

	for iter.Next(ctx) {
		key := iter.Val()

		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("%w: read %s: %v", domain.ErrVectorStoreUnavailable, key, err)
		}
		if len(fields) == 0 {
			// Deleted between SCAN and HGETALL
			continue
		}

		vector, err := decodeVector([]byte(fields["v"]))
		if err != nil {
			return fmt.Errorf("decode vector %s: %w", key, err)
		}

		var meta domain.ChunkMeta
		if err := json.Unmarshal([]byte(fields["meta"]), &meta); err != nil {
			return fmt.Errorf("decode metadata %s: %w", key, err)
		}

		entry := driven.VectorEntry{
			ChunkID: key[len(chunkKeyPrefix):],
			Vector:  vector,
			Meta:    meta,
		}
		if err := fn(entry); err != nil {
			return err
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", domain.ErrVectorStoreUnavailable, err)
	}

	return nil
}

// DeleteAll removes every entry and returns the number removed
func (s *VectorStore) DeleteAll(ctx context.Context) (int, error) {
	iter := s.client.Scan(ctx, 0, chunkKeyPrefix+"*", scanBatchSize).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("%w: scan: %v", domain.ErrVectorStoreUnavailable, err)
	}

	removed := 0
	for start := 0; start < len(keys); start += scanBatchSize {
		end := start + scanBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		deleted, err := s.client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: delete: %v", domain.ErrVectorStoreUnavailable, err)
		}
		removed += int(deleted)
	}

	return removed, nil
}

// Count returns the number of stored entries
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	iter := s.client.Scan(ctx, 0, chunkKeyPrefix+"*", scanBatchSize).Iterator()

	count := 0
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("%w: scan: %v", domain.ErrVectorStoreUnavailable, err)
	}

	return count, nil
}

// Ping checks if the backing store is reachable
func (s *VectorStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// encodeVector packs float32 components as little-endian bytes
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeVector is the inverse of encodeVector
func decodeVector(buf []byte) ([]float32, error) {
	if len(buf) == 0 || len(buf)%4 != 0 {
		return nil, fmt.Errorf("invalid vector payload length %d", len(buf))
	}
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vector, nil
}
