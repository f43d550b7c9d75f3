// Package ingest runs the document write path: chunk, embed, extract
// keywords, then write the dense and sparse indices.
//
// Failure policy per stage: chunking and embedding failures abort the
// whole ingest, and nothing is written. A vector write failure aborts
// before the sparse index is touched. Any sparse-side failure, creating
// the collection or writing records, is logged and the ingest still
// succeeds, leaving the document semantically searchable. Keyword
// extraction failures downgrade single chunks to text-only lexical
// records. Collections are created only once embedding has succeeded,
// so a failed ingest never leaves an empty collection behind.
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docfusion/docfusion/internal/chunker"
	"github.com/docfusion/docfusion/internal/embedder"
	"github.com/docfusion/docfusion/internal/index"
	"github.com/docfusion/docfusion/internal/keywords"
	"github.com/docfusion/docfusion/pkg/types"
)

const (
	// DefaultEmbedBatchSize bounds texts per embedding request.
	DefaultEmbedBatchSize = embedder.DefaultBatchSize

	// DefaultEmbedConcurrency bounds in-flight embedding batches.
	DefaultEmbedConcurrency = 4
)

// Result reports what one ingest wrote.
type Result struct {
	DocumentID      string
	ChunkCount      int
	LexicalIndexed  bool
	KeywordFailures int
}

// Pipeline wires the write-path collaborators together.
type Pipeline struct {
	chunker     *chunker.Chunker
	embedder    embedder.Embedder
	keywords    keywords.Extractor
	vectors     index.VectorIndex
	lexical     index.LexicalIndex
	logger      *log.Logger
	batchSize   int
	concurrency int
	keywordTopN int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBatchSize overrides the embedding batch size.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithConcurrency overrides the number of parallel embedding batches.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithKeywordTopN overrides how many keywords are extracted per chunk.
func WithKeywordTopN(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.keywordTopN = n
		}
	}
}

// WithLogger overrides the pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an ingestion pipeline.
func New(ch *chunker.Chunker, emb embedder.Embedder, kw keywords.Extractor,
	vectors index.VectorIndex, lexical index.LexicalIndex, opts ...Option) *Pipeline {
	p := &Pipeline{
		chunker:     ch,
		embedder:    emb,
		keywords:    kw,
		vectors:     vectors,
		lexical:     lexical,
		logger:      log.Default(),
		batchSize:   DefaultEmbedBatchSize,
		concurrency: DefaultEmbedConcurrency,
		keywordTopN: keywords.DefaultTopN,
	}
	if p.keywords == nil {
		p.keywords = keywords.Noop{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest writes one extracted document into a collection. A blank docID
// gets a generated UUID. The returned Result carries the effective
// document ID and chunk count.
func (p *Pipeline) Ingest(ctx context.Context, collection, docID string, extraction *types.Extraction) (*Result, error) {
	if err := types.ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if docID == "" {
		docID = uuid.NewString()
	}

	chunks := p.chunker.Chunk(docID, extraction.Text, extraction.Metadata, extraction.Sections)
	if len(chunks) == 0 {
		return nil, types.NewStageError(types.StageChunking, types.ErrNoContent)
	}

	// Embed before creating anything, so a failed embed leaves no empty
	// collection behind.
	embeddings, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return nil, types.NewStageError(types.StageEmbedding, err)
	}

	result := &Result{DocumentID: docID, ChunkCount: len(chunks)}

	if err := p.vectors.CreateCollection(ctx, collection); err != nil {
		return nil, types.NewStageError(types.StageVectorWrite, err)
	}
	vectorRecords := make([]index.VectorRecord, len(chunks))
	for i, c := range chunks {
		vectorRecords[i] = index.VectorRecord{
			ChunkID:  c.ID,
			Text:     c.Text,
			Metadata: c.Metadata,
			Vector:   embeddings[i].Vector,
		}
	}
	if err := p.vectors.Add(ctx, collection, vectorRecords); err != nil {
		return nil, types.NewStageError(types.StageVectorWrite, err)
	}

	if err := p.lexical.CreateCollection(ctx, collection); err != nil {
		// Recoverable: the document stays semantically searchable.
		p.logger.Printf("lexical collection create failed for %s: %v", collection, err)
		return result, nil
	}

	lexicalRecords := make([]index.LexicalRecord, len(chunks))
	for i, c := range chunks {
		kws, err := p.keywords.Extract(ctx, c.Text, p.keywordTopN)
		if err != nil {
			// Keyword extraction is advisory; the chunk stays
			// searchable by its full text.
			p.logger.Printf("keyword extraction failed for chunk %s: %v", c.ID, err)
			result.KeywordFailures++
			kws = nil
		}
		lexicalRecords[i] = index.LexicalRecord{
			ChunkID:  c.ID,
			Text:     c.Text,
			Keywords: kws,
			Metadata: c.Metadata,
		}
	}
	if err := p.lexical.Add(ctx, collection, lexicalRecords); err != nil {
		// The dense index already holds the document; search degrades
		// to semantic-only for these chunks.
		p.logger.Printf("lexical index write failed for document %s: %v", docID, err)
	} else {
		result.LexicalIndexed = true
	}

	return result, nil
}

// embedChunks embeds all chunk texts in bounded parallel batches,
// preserving chunk order in the result.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []types.Chunk) ([]*embedder.Embedding, error) {
	embeddings := make([]*embedder.Embedding, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		start, end := start, end

		g.Go(func() error {
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = chunks[i].Text
			}

			resp, err := p.embedder.EmbedBatch(gctx, embedder.BatchRequest{
				Texts: texts,
				Kind:  embedder.InputDocument,
			})
			if err != nil {
				return err
			}
			if len(resp.Embeddings) != len(texts) {
				return fmt.Errorf("embedder returned %d embeddings for %d texts",
					len(resp.Embeddings), len(texts))
			}

			copy(embeddings[start:end], resp.Embeddings)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}
