// Package chunker splits item text into bounded segments suitable for
// embedding. Splitting is greedy on sentence boundaries; the output is
// deterministic for a given input.
package chunker

import "strings"

// DefaultMaxChunkSize is used when no explicit limit is configured.
const DefaultMaxChunkSize = 1000

// Split breaks text into non-empty chunks of at most maxChunkSize characters.
// Text that already fits is returned as a single chunk. Otherwise sentences
// (". " boundaries) are packed greedily into a buffer that is flushed
// whenever the next sentence would overflow it. A single sentence longer
// than maxChunkSize is hard-truncated so progress is always made.
func Split(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	if text == "" {
		return nil
	}

	if len(text) <= maxChunkSize {
		return []string{text}
	}

	sentences := strings.Split(text, ". ")

	var chunks []string
	var buf strings.Builder

	for i, sentence := range sentences {
		// Restore the separator consumed by Split on all but the last part.
		if i < len(sentences)-1 {
			sentence += ". "
		}

		if len(sentence) > maxChunkSize {
			if buf.Len() > 0 {
				chunks = append(chunks, buf.String())
				buf.Reset()
			}
			chunks = append(chunks, sentence[:maxChunkSize])
			continue
		}

		if buf.Len()+len(sentence) > maxChunkSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		buf.WriteString(sentence)
	}

	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks
}
