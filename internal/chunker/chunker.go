package chunker

import (
	"fmt"
	"strings"

	"github.com/docfusion/docfusion/pkg/types"
)

const (
	// DefaultChunkSize is the target token budget per chunk.
	DefaultChunkSize = 400

	// DefaultChunkOverlap is the token budget carried between consecutive
	// flat chunks.
	DefaultChunkOverlap = 50
)

// Chunker splits document text into chunks. It is stateless after
// construction and safe for concurrent use; identical input always yields
// identical output.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a Chunker with the given token budgets. Non-positive values
// fall back to defaults; the overlap is clamped below half the chunk size
// so that every chunk makes forward progress.
func New(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize/2 {
		chunkOverlap = chunkSize / 2
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk splits text into an ordered chunk sequence. When sections is
// non-empty the structure-aware mode is used; otherwise the whole text is
// chunked flat. Metadata is copied onto every chunk with null entries
// stripped. Empty input yields an empty slice.
func (c *Chunker) Chunk(docID, text string, metadata types.Metadata, sections []types.Section) []types.Chunk {
	if len(sections) > 0 {
		return c.chunkSections(docID, metadata, sections)
	}
	return c.chunkFlat(docID, text, metadata)
}

// chunkSections chunks each section independently, preserving the original
// section indices even when intervening sections are empty and skipped.
func (c *Chunker) chunkSections(docID string, metadata types.Metadata, sections []types.Section) []types.Chunk {
	chunks := make([]types.Chunk, 0, len(sections))

	for si, sec := range sections {
		content := strings.TrimSpace(sec.Content)
		if content == "" {
			continue
		}

		// Prepend the title as a heading line so each chunk keeps its
		// section context after retrieval.
		body := content
		if sec.Title != "" {
			body = sec.Title + "\n\n" + content
		}

		for pi, piece := range c.split(body) {
			meta := metadata.StripNulls()
			if sec.Title != "" {
				meta["section_title"] = sec.Title
			}
			meta["section"] = int64(si)
			if sec.Page != nil {
				meta["page"] = int64(*sec.Page)
			}

			chunks = append(chunks, types.Chunk{
				ID:            fmt.Sprintf("%s_%d_%d", docID, si, pi),
				DocumentID:    docID,
				Text:          piece,
				Metadata:      meta,
				SectionTitle:  sec.Title,
				SectionIndex:  si,
				PositionIndex: pi,
				TokenCount:    types.EstimateTokens(piece),
			})
		}
	}

	return chunks
}

// chunkFlat splits the whole text at sentence boundaries.
func (c *Chunker) chunkFlat(docID, text string, metadata types.Metadata) []types.Chunk {
	pieces := c.split(text)
	chunks := make([]types.Chunk, 0, len(pieces))

	for pi, piece := range pieces {
		chunks = append(chunks, types.Chunk{
			ID:            fmt.Sprintf("%s_%d", docID, pi),
			DocumentID:    docID,
			Text:          piece,
			Metadata:      metadata.StripNulls(),
			SectionIndex:  -1,
			PositionIndex: pi,
			TokenCount:    types.EstimateTokens(piece),
		})
	}

	return chunks
}

// split groups sentences into pieces within the chunk token budget,
// carrying trailing sentences into the next piece until their cumulative
// length reaches the overlap budget.
func (c *Chunker) split(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	charBudget := c.chunkSize * types.CharsPerToken
	overlapBudget := c.chunkOverlap * types.CharsPerToken

	var pieces []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		pieces = append(pieces, strings.Join(current, " "))

		// Carry the tail of the flushed piece into the next one.
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			if tailLen+len(current[i]) > overlapBudget {
				break
			}
			tail = append([]string{current[i]}, tail...)
			tailLen += len(current[i]) + 1
		}
		current = tail
		currentLen = tailLen
	}

	for _, s := range sentences {
		if currentLen > 0 && currentLen+len(s) > charBudget {
			flush()
		}
		current = append(current, s)
		currentLen += len(s) + 1
	}

	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, " "))
	}

	return pieces
}

// splitSentences breaks text at sentence terminators and newlines,
// keeping the terminator attached and dropping empty fragments.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
