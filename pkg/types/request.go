package types

import "fmt"

// SearchMode selects the retrieval strategy for a query.
type SearchMode string

const (
	// ModeHybrid fans the query out to both paths and fuses the rankings.
	ModeHybrid SearchMode = "hybrid"
	// ModeSemantic uses only the dense vector path.
	ModeSemantic SearchMode = "semantic"
	// ModeLexical uses only the sparse keyword path.
	ModeLexical SearchMode = "lexical"
)

// SearchRequest carries the parameters of one search call.
//
// Modes semantic and hybrid require QueryVector to be populated before the
// request reaches the engine; lexical mode needs only QueryText.
type SearchRequest struct {
	Collection  string
	QueryText   string
	QueryVector []float32
	TopK        int
	Mode        SearchMode

	// MinScore, when > 0, drops results whose final score falls below it.
	MinScore float64
}

// Validate checks the caller-facing contract. A missing query vector for a
// mode that requires one is reported as ErrMissingQueryVector, never as a
// silent empty result.
func (r *SearchRequest) Validate() error {
	if err := ValidateCollectionName(r.Collection); err != nil {
		return err
	}
	if r.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidTopK, r.TopK)
	}
	switch r.Mode {
	case ModeHybrid, ModeSemantic:
		if len(r.QueryVector) == 0 {
			return fmt.Errorf("%w: mode %s", ErrMissingQueryVector, r.Mode)
		}
	case ModeLexical:
		if r.QueryText == "" {
			return fmt.Errorf("%w: lexical mode requires query text", ErrInvalidQuery)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, r.Mode)
	}
	return nil
}
