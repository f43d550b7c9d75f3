package types

import (
	"errors"
	"fmt"
)

// CharsPerToken is the heuristic used to estimate token counts when no
// tokenizer is available: 4 characters per token. This is a stated
// approximation, not an exact count; it tracks real tokenizers to within
// roughly 20% on English prose.
const CharsPerToken = 4

// Chunk is the atomic retrievable unit: a contiguous span of document text
// assigned to exactly one document. Chunks are created once during
// ingestion and immutable afterwards; they disappear only when their
// collection is deleted.
type Chunk struct {
	// ID is unique within a collection and stable across re-ingestion of
	// the same document and position. Structure-aware chunking encodes
	// "{document}_{section}_{position}", flat chunking "{document}_{position}".
	ID string

	// DocumentID identifies the source document.
	DocumentID string

	// Text is the chunk content. Never empty for a valid chunk.
	Text string

	// Metadata holds scalar provenance values. Null-valued entries must be
	// stripped (see Metadata.StripNulls) before the chunk reaches storage.
	Metadata Metadata

	// SectionTitle is the title of the originating section, if any.
	SectionTitle string

	// SectionIndex is the position of the originating section in the
	// extractor's section list, or -1 for flat chunking.
	SectionIndex int

	// PositionIndex is the ordinal of this chunk within its section (or
	// within the document for flat chunking). Insertion order matters.
	PositionIndex int

	// TokenCount is the estimated token count (see EstimateTokens).
	TokenCount int
}

// EstimateTokens estimates the number of tokens in text using the chars/4
// heuristic.
func EstimateTokens(text string) int {
	return len(text) / CharsPerToken
}

// Validate checks the chunk invariants that must hold before indexing.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return errors.New("chunk id cannot be empty")
	}
	if c.Text == "" {
		return fmt.Errorf("chunk %s: text cannot be empty", c.ID)
	}
	if c.PositionIndex < 0 {
		return fmt.Errorf("chunk %s: position index must be >= 0", c.ID)
	}
	return nil
}
