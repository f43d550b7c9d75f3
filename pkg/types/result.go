package types

// ResultSource tags which retrieval path produced a scored result.
type ResultSource string

const (
	SourceSemantic ResultSource = "semantic"
	SourceLexical  ResultSource = "lexical"
	SourceBoth     ResultSource = "both"
)

// ScoredResult is a transient, per-query entity combining one chunk with
// its per-path scores and the final fused score. It exists only for the
// duration of a single search call and is never persisted.
type ScoredResult struct {
	ChunkID  string
	Text     string
	Metadata Metadata

	// SemanticScore is the normalized semantic similarity in [0,1], zero
	// when the chunk was absent from the semantic path.
	SemanticScore float64

	// LexicalScore is the normalized lexical relevance in [0,1], zero when
	// the chunk was absent from the lexical path.
	LexicalScore float64

	// HybridScore is the final fused score in [0,1]. For non-hybrid modes
	// it equals the single path's normalized score.
	HybridScore float64

	// Source records which path(s) matched the chunk.
	Source ResultSource
}
