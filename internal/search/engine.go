// Package search runs queries against the dense and sparse indices and
// fuses the two ranked lists into hybrid-scored results.
//
// The two legs run in parallel. The dense leg is load-bearing: its
// failure fails the search. The sparse leg is best-effort: on error,
// timeout, or an empty result the engine degrades to semantic-only
// scoring instead of failing.
package search

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/docfusion/docfusion/internal/index"
	"github.com/docfusion/docfusion/pkg/types"
)

const (
	// DefaultSemanticWeight and DefaultLexicalWeight are the default
	// fusion weights before renormalization.
	DefaultSemanticWeight = 0.7
	DefaultLexicalWeight  = 0.3

	// DefaultLexicalTimeout bounds how long a hybrid search waits for
	// the sparse leg before degrading.
	DefaultLexicalTimeout = 2 * time.Second

	// maxLexicalFetch caps sparse candidates fetched per query.
	maxLexicalFetch = 50
)

// Engine fuses dense and sparse retrieval into one ranked list.
type Engine struct {
	vectors        index.VectorIndex
	lexical        index.LexicalIndex
	semanticWeight float64
	lexicalWeight  float64
	lexicalTimeout time.Duration
	abbreviations  map[string]string
	cache          *queryCache
	logger         *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLexicalTimeout overrides the sparse-leg timeout.
func WithLexicalTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.lexicalTimeout = d
		}
	}
}

// WithAbbreviations replaces the abbreviation expansion table.
func WithAbbreviations(table map[string]string) Option {
	return func(e *Engine) {
		if table != nil {
			e.abbreviations = table
		}
	}
}

// WithCache enables the query result cache.
func WithCache(size int, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = newQueryCache(size, ttl)
	}
}

// WithLogger overrides the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine. Weights may be given on any scale (7 and 3
// behave like 0.7 and 0.3); they are renormalized to sum to 1 here.
// Negative, NaN, or all-zero weights are rejected.
func New(vectors index.VectorIndex, lexical index.LexicalIndex, semanticWeight, lexicalWeight float64, opts ...Option) (*Engine, error) {
	if math.IsNaN(semanticWeight) || math.IsNaN(lexicalWeight) ||
		semanticWeight < 0 || lexicalWeight < 0 {
		return nil, fmt.Errorf("%w: semantic=%v lexical=%v", types.ErrInvalidWeights, semanticWeight, lexicalWeight)
	}
	sum := semanticWeight + lexicalWeight
	if sum == 0 || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: weights must have a positive finite sum", types.ErrInvalidWeights)
	}

	e := &Engine{
		vectors:        vectors,
		lexical:        lexical,
		semanticWeight: semanticWeight / sum,
		lexicalWeight:  lexicalWeight / sum,
		lexicalTimeout: DefaultLexicalTimeout,
		abbreviations:  defaultAbbreviations,
		logger:         log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// InvalidateCollection drops cached results for a collection. Call
// after any write into it.
func (e *Engine) InvalidateCollection(name string) {
	if e.cache != nil {
		e.cache.invalidate(name)
	}
}

// Search executes a request in its requested mode and returns at most
// TopK results ranked by hybrid score.
func (e *Engine) Search(ctx context.Context, req types.SearchRequest) ([]types.ScoredResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var cacheKey string
	if e.cache != nil {
		cacheKey = e.cache.key(req)
		if results, ok := e.cache.get(cacheKey); ok {
			return results, nil
		}
	}

	var results []types.ScoredResult
	var err error
	switch req.Mode {
	case types.ModeSemantic:
		results, err = e.searchSemantic(ctx, req)
	case types.ModeLexical:
		results, err = e.searchLexical(ctx, req)
	default:
		results, err = e.searchHybrid(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	results = finalize(results, req)

	if e.cache != nil {
		e.cache.set(cacheKey, results)
	}
	return results, nil
}

// searchSemantic runs the dense leg alone; the normalized semantic
// score doubles as the hybrid score.
func (e *Engine) searchSemantic(ctx context.Context, req types.SearchRequest) ([]types.ScoredResult, error) {
	hits, err := e.vectors.Query(ctx, req.Collection, req.QueryVector, req.TopK)
	if err != nil {
		return nil, types.NewStageError(types.StageVectorQuery, err)
	}
	return semanticOnlyResults(normalizeSemantic(hits)), nil
}

// searchLexical runs the sparse leg alone; the normalized lexical
// score doubles as the hybrid score.
func (e *Engine) searchLexical(ctx context.Context, req types.SearchRequest) ([]types.ScoredResult, error) {
	query := preprocessQuery(req.QueryText, e.abbreviations)
	if query == "" {
		return []types.ScoredResult{}, nil
	}

	hits, err := e.lexical.Search(ctx, req.Collection, query, lexicalFetchLimit(req.TopK))
	if err != nil {
		return nil, types.NewStageError(types.StageLexicalQuery, err)
	}

	normalized := normalizeLexical(hits)
	results := make([]types.ScoredResult, len(normalized))
	for i, h := range normalized {
		results[i] = types.ScoredResult{
			ChunkID:      h.chunkID,
			Text:         h.text,
			Metadata:     h.metadata,
			LexicalScore: h.score,
			HybridScore:  h.score,
			Source:       types.SourceLexical,
		}
	}
	return results, nil
}

type semanticLegResult struct {
	hits []index.VectorHit
	err  error
}

type lexicalLegResult struct {
	hits []index.LexicalHit
	err  error
}

// searchHybrid runs both legs in parallel and fuses them. The sparse
// leg degrades on error, timeout, or empty results: the semantic leg's
// scores then stand alone and no merge happens.
func (e *Engine) searchHybrid(ctx context.Context, req types.SearchRequest) ([]types.ScoredResult, error) {
	semCh := make(chan semanticLegResult, 1)
	lexCh := make(chan lexicalLegResult, 1)

	go func() {
		hits, err := e.vectors.Query(ctx, req.Collection, req.QueryVector, req.TopK)
		semCh <- semanticLegResult{hits: hits, err: err}
	}()

	go func() {
		query := preprocessQuery(req.QueryText, e.abbreviations)
		if query == "" {
			lexCh <- lexicalLegResult{}
			return
		}
		hits, err := e.lexical.Search(ctx, req.Collection, query, lexicalFetchLimit(req.TopK))
		lexCh <- lexicalLegResult{hits: hits, err: err}
	}()

	sem := <-semCh
	if sem.err != nil {
		return nil, types.NewStageError(types.StageVectorQuery, sem.err)
	}
	semantic := normalizeSemantic(sem.hits)

	var lex lexicalLegResult
	select {
	case lex = <-lexCh:
	case <-time.After(e.lexicalTimeout):
		e.logger.Printf("lexical search timed out after %s, degrading to semantic-only", e.lexicalTimeout)
		return semanticOnlyResults(semantic), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if lex.err != nil {
		e.logger.Printf("lexical search failed, degrading to semantic-only: %v", lex.err)
		return semanticOnlyResults(semantic), nil
	}
	if len(lex.hits) == 0 {
		return semanticOnlyResults(semantic), nil
	}

	lexical := normalizeLexical(lex.hits)
	if len(lexical) > req.TopK {
		lexical = lexical[:req.TopK]
	}

	return fuse(semantic, lexical, e.semanticWeight, e.lexicalWeight), nil
}

// semanticOnlyResults promotes semantic scores to hybrid scores.
func semanticOnlyResults(hits []legHit) []types.ScoredResult {
	results := make([]types.ScoredResult, len(hits))
	for i, h := range hits {
		results[i] = types.ScoredResult{
			ChunkID:       h.chunkID,
			Text:          h.text,
			Metadata:      h.metadata,
			SemanticScore: h.score,
			HybridScore:   h.score,
			Source:        types.SourceSemantic,
		}
	}
	return results
}

// lexicalFetchLimit over-fetches sparse candidates so fusion has more
// to merge, capped at maxLexicalFetch.
func lexicalFetchLimit(topK int) int {
	limit := 2 * topK
	if limit > maxLexicalFetch {
		limit = maxLexicalFetch
	}
	return limit
}

// finalize applies the MinScore filter and TopK truncation.
func finalize(results []types.ScoredResult, req types.SearchRequest) []types.ScoredResult {
	if req.MinScore > 0 {
		filtered := results[:0]
		for _, r := range results {
			if r.HybridScore >= req.MinScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if len(results) > req.TopK {
		results = results[:req.TopK]
	}
	return results
}
