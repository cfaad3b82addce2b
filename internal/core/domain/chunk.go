package domain

import (
	"fmt"
	"time"
)

// ChunkMeta is the denormalized metadata stored alongside each vector so a
// search result can be rendered without a second lookup.
type ChunkMeta struct {
	ItemID     string    `json:"item_id"`
	ChunkIndex int       `json:"chunk_index"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	Type       string    `json:"type"`
	Labels     []string  `json:"labels,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChunkID derives the stable vector-store key for the nth chunk of an item.
// Re-indexing the same content overwrites the same keys (last write wins).
func ChunkID(itemID string, n int) string {
	return fmt.Sprintf("%s-chunk-%d", itemID, n)
}
