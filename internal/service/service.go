// Package service is the application facade: it owns the wiring
// between extraction, chunking, embedding, the dual indices, and the
// search engine, and exposes the operations the MCP surface calls.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docfusion/docfusion/internal/chunker"
	"github.com/docfusion/docfusion/internal/config"
	"github.com/docfusion/docfusion/internal/embedder"
	"github.com/docfusion/docfusion/internal/extract"
	"github.com/docfusion/docfusion/internal/ingest"
	"github.com/docfusion/docfusion/internal/keywords"
	"github.com/docfusion/docfusion/internal/registry"
	"github.com/docfusion/docfusion/internal/search"
	"github.com/docfusion/docfusion/internal/storage"
	"github.com/docfusion/docfusion/pkg/types"
)

// DefaultTopK is used when a search request leaves TopK unset.
const DefaultTopK = 10

// Service exposes the document operations backed by one store.
type Service struct {
	extractor extract.Extractor
	pipeline  *ingest.Pipeline
	engine    *search.Engine
	embedder  embedder.Embedder
	store     *storage.Store
	registry  *registry.Registry
	logger    *log.Logger
}

// IngestRequest carries one document into a collection. A blank
// DocumentID gets a generated one.
type IngestRequest struct {
	Collection string
	DocumentID string
	Filename   string
	Data       []byte
}

// SearchQuery is the user-facing search request; the service embeds
// the query text itself when the mode needs a vector.
type SearchQuery struct {
	Collection string
	Query      string
	TopK       int
	Mode       types.SearchMode
	MinScore   float64
}

// New assembles a Service from explicit collaborators.
func New(extractor extract.Extractor, pipeline *ingest.Pipeline, engine *search.Engine,
	emb embedder.Embedder, store *storage.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		extractor: extractor,
		pipeline:  pipeline,
		engine:    engine,
		embedder:  emb,
		store:     store,
		registry:  registry.New(),
		logger:    logger,
	}
}

// NewFromConfig builds the full stack described by cfg.
func NewFromConfig(cfg *config.AppConfig, logger *log.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	emb, err := embedder.New(embedder.Config{
		Provider:  cfg.Embedder.Provider,
		APIKey:    cfg.Embedder.APIKey,
		CacheSize: cfg.Embedder.CacheSize,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var kw keywords.Extractor = keywords.NewFrequencyExtractor()
	if cfg.Keywords.Disabled {
		kw = keywords.Noop{}
	}

	pipeline := ingest.New(
		chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap),
		emb, kw, store.Vector(), store.Lexical(),
		ingest.WithKeywordTopN(cfg.Keywords.TopN),
		ingest.WithLogger(logger),
	)

	engineOpts := []search.Option{
		search.WithLexicalTimeout(time.Duration(cfg.Search.LexicalTimeoutMs) * time.Millisecond),
		search.WithCache(cfg.Search.CacheSize, time.Duration(cfg.Search.CacheTTLSecs)*time.Second),
		search.WithLogger(logger),
	}
	if len(cfg.Search.Abbreviations) > 0 {
		engineOpts = append(engineOpts, search.WithAbbreviations(cfg.Search.Abbreviations))
	}
	engine, err := search.New(store.Vector(), store.Lexical(),
		cfg.Search.SemanticWeight, cfg.Search.LexicalWeight, engineOpts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return New(extract.New(), pipeline, engine, emb, store, logger), nil
}

// Close releases the store and the embedding client.
func (s *Service) Close() error {
	err := s.embedder.Close()
	if cerr := s.store.Close(); cerr != nil {
		err = cerr
	}
	return err
}

// IngestDocument extracts, chunks, embeds, and indexes one document.
// Writes into the same collection are serialized; searches stay
// unblocked.
func (s *Service) IngestDocument(ctx context.Context, req IngestRequest) (*ingest.Result, error) {
	col, err := s.registry.Get(req.Collection)
	if err != nil {
		return nil, err
	}

	extraction, err := s.extractor.Extract(req.Data, req.Filename)
	if err != nil {
		return nil, types.NewStageError(types.StageExtraction, err)
	}

	col.LockIngest()
	defer col.UnlockIngest()

	result, err := s.pipeline.Ingest(ctx, req.Collection, req.DocumentID, extraction)
	if err != nil {
		return nil, err
	}

	s.engine.InvalidateCollection(req.Collection)
	s.logger.Printf("ingested document %s into %s: %d chunks", result.DocumentID, req.Collection, result.ChunkCount)
	return result, nil
}

// Search runs a query. Hybrid and semantic modes embed the query text
// with the asymmetric query kind before hitting the engine.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]types.ScoredResult, error) {
	if q.Mode == "" {
		q.Mode = types.ModeHybrid
	}
	if q.TopK <= 0 {
		q.TopK = DefaultTopK
	}

	req := types.SearchRequest{
		Collection: q.Collection,
		QueryText:  q.Query,
		TopK:       q.TopK,
		Mode:       q.Mode,
		MinScore:   q.MinScore,
	}

	if q.Mode == types.ModeHybrid || q.Mode == types.ModeSemantic {
		if q.Query == "" {
			return nil, fmt.Errorf("%w: query text required", types.ErrInvalidQuery)
		}
		emb, err := s.embedder.Embed(ctx, embedder.Request{
			Text: q.Query,
			Kind: embedder.InputQuery,
		})
		if err != nil {
			return nil, types.NewStageError(types.StageEmbedding, err)
		}
		req.QueryVector = emb.Vector
	}

	return s.engine.Search(ctx, req)
}

// ListCollections returns all known collection names.
func (s *Service) ListCollections(ctx context.Context) ([]string, error) {
	return s.store.ListCollections(ctx)
}

// DeleteCollection removes a collection from both indices atomically.
func (s *Service) DeleteCollection(ctx context.Context, name string) error {
	if err := s.store.DeleteCollection(ctx, name); err != nil {
		return err
	}
	s.registry.Forget(name)
	s.engine.InvalidateCollection(name)
	s.logger.Printf("deleted collection %s", name)
	return nil
}

// CollectionStats returns chunk counts for one collection.
func (s *Service) CollectionStats(ctx context.Context, name string) (*storage.CollectionStats, error) {
	return s.store.Stats(ctx, name)
}
