package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("a short text", 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, "a short text", chunks[0])
}

func TestSplit_EmptyText(t *testing.T) {
	assert.Empty(t, Split("", 100))
}

func TestSplit_ChunkBound(t *testing.T) {
	// Many short sentences plus one oversized sentence to force the
	// truncation fallback.
	text := strings.Repeat("This is a sentence. ", 50) +
		strings.Repeat("x", 300) + ". " +
		strings.Repeat("Another one. ", 30)

	for _, max := range []int{50, 100, 256, 1000} {
		chunks := Split(text, max)
		require.NotEmpty(t, chunks, "max=%d", max)
		for i, c := range chunks {
			assert.LessOrEqual(t, len(c), max, "chunk %d exceeds max %d", i, max)
			assert.NotEmpty(t, c, "chunk %d is empty", i)
		}
	}
}

func TestSplit_CoveragePreservesOrdering(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one closes it out."
	chunks := Split(text, 30)

	// No sentence is oversized, so concatenation reproduces the input.
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplit_GreedyPacking(t *testing.T) {
	text := "One. Two. Three. Four. Five. Six. Seven. Eight. Nine. Ten. Eleven. Twelve."

	chunks := Split(text, 25)
	require.Greater(t, len(chunks), 1)

	// Each chunk except the last should be packed close to the limit: adding
	// the first sentence of the following chunk would overflow it.
	for i := 0; i < len(chunks)-1; i++ {
		next := strings.SplitAfter(chunks[i+1], ". ")[0]
		assert.Greater(t, len(chunks[i])+len(next), 25,
			"chunk %d under-packed: %q then %q", i, chunks[i], next)
	}
}

func TestSplit_OversizedSentenceTruncated(t *testing.T) {
	long := strings.Repeat("y", 500)
	text := "Short intro. " + long + ". Short outro."

	chunks := Split(text, 100)
	found := false
	for _, c := range chunks {
		require.LessOrEqual(t, len(c), 100)
		if strings.HasPrefix(c, "yyy") {
			found = true
			assert.Len(t, c, 100)
		}
	}
	assert.True(t, found, "expected a truncated chunk from the oversized sentence")
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("Deterministic output matters for restartable indexing runs. ", 40)

	first := Split(text, 200)
	second := Split(text, 200)
	assert.Equal(t, first, second)
}

func TestSplit_ZeroMaxUsesDefault(t *testing.T) {
	text := strings.Repeat("Filler sentence. ", 200)

	chunks := Split(text, 0)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), DefaultMaxChunkSize)
	}
}
