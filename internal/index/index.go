// Package index defines the dense and sparse index contracts that the
// ingestion pipeline writes to and the search engine reads from. The
// sqlite-backed implementations live in internal/storage; tests supply
// in-memory fakes.
package index

import (
	"context"

	"github.com/docfusion/docfusion/pkg/types"
)

// VectorRecord is a chunk plus its dense embedding, ready for indexing.
type VectorRecord struct {
	ChunkID  string
	Text     string
	Metadata types.Metadata
	Vector   []float32
}

// VectorHit is a dense query match. Distance is 1 - cosine similarity,
// so lower means more similar and the range is [0, 2].
type VectorHit struct {
	ChunkID  string
	Text     string
	Metadata types.Metadata
	Distance float64
}

// LexicalRecord is a chunk plus its extracted keywords, ready for
// sparse indexing.
type LexicalRecord struct {
	ChunkID  string
	Text     string
	Keywords []string
	Metadata types.Metadata
}

// LexicalHit is a sparse query match. Score is positive and higher is
// better; implementations map engine-native scores (such as negative
// BM25 ranks) into this convention.
type LexicalHit struct {
	ChunkID  string
	Text     string
	Metadata types.Metadata
	Score    float64
}

// VectorIndex stores dense embeddings per collection. Add upserts by
// chunk ID, so re-ingesting a document overwrites its previous chunks.
type VectorIndex interface {
	CreateCollection(ctx context.Context, name string) error
	Add(ctx context.Context, collection string, records []VectorRecord) error
	Query(ctx context.Context, collection string, vector []float32, topK int) ([]VectorHit, error)
	DeleteCollection(ctx context.Context, name string) error
	Count(ctx context.Context, collection string) (int, error)
}

// LexicalIndex stores chunk text and keywords for full-text search.
type LexicalIndex interface {
	CreateCollection(ctx context.Context, name string) error
	Add(ctx context.Context, collection string, records []LexicalRecord) error
	Search(ctx context.Context, collection string, query string, limit int) ([]LexicalHit, error)
	DeleteCollection(ctx context.Context, name string) error
	Count(ctx context.Context, collection string) (int, error)
}
