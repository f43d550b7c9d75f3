package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProviderFailed    = errors.New("embedding provider failed")
	ErrUnsupportedModel  = errors.New("unsupported model")
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrBatchTooLarge     = errors.New("batch size exceeds limit")
	ErrNoProviderEnabled = errors.New("no embedding provider configured")
)

// InputKind distinguishes document passages from search queries. Some
// providers embed the two asymmetrically.
type InputKind string

const (
	InputDocument InputKind = "document"
	InputQuery    InputKind = "query"
)

// Embedding is a dense vector with provider metadata.
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
	Hash      string // content hash used for caching
}

// Request asks for a single embedding.
type Request struct {
	Text string
	Kind InputKind
}

// BatchRequest asks for embeddings of several texts with one kind.
type BatchRequest struct {
	Texts []string
	Kind  InputKind
}

// BatchResponse carries the embeddings in input order.
type BatchResponse struct {
	Embeddings []*Embedding
	Provider   string
	Model      string
}

// Embedder is the embedding-client interface consumed by the ingestion
// pipeline and the search service.
type Embedder interface {
	// Embed generates a single embedding.
	Embed(ctx context.Context, req Request) (*Embedding, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error)

	// Dimension returns the embedding dimension for this provider.
	Dimension() int

	// Provider returns the provider name.
	Provider() string

	// Model returns the model name.
	Model() string

	// Close releases any resources held by the embedder.
	Close() error
}

// Cache provides in-memory LRU caching of embeddings by content hash.
type Cache struct {
	cache *lru.Cache[string, *Embedding]
}

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	cache, err := lru.New[string, *Embedding](maxLen)
	if err != nil {
		// Should never happen with a positive size; fall back to default.
		cache, _ = lru.New[string, *Embedding](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a deep copy of an embedding from the cache. A copy keeps
// caller mutations from polluting cached vectors.
func (c *Cache) Get(hash string) (*Embedding, bool) {
	emb, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}

	vectorCopy := make([]float32, len(emb.Vector))
	copy(vectorCopy, emb.Vector)

	return &Embedding{
		Vector:    vectorCopy,
		Dimension: emb.Dimension,
		Provider:  emb.Provider,
		Model:     emb.Model,
		Hash:      emb.Hash,
	}, true
}

// Set stores an embedding with automatic LRU eviction.
func (c *Cache) Set(hash string, emb *Embedding) {
	c.cache.Add(hash, emb)
}

// Size returns the current cache size.
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash computes the cache key for a text and input kind. The kind
// participates in the key because asymmetric providers embed queries and
// documents differently.
func ComputeHash(text string, kind InputKind) string {
	h := sha256.Sum256([]byte(string(kind) + "\x00" + text))
	return hex.EncodeToString(h[:])
}

// ValidateRequest validates a single embedding request.
func ValidateRequest(req Request) error {
	if req.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// ValidateBatchRequest validates a batch embedding request.
func ValidateBatchRequest(req BatchRequest) error {
	if len(req.Texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}
	for i, text := range req.Texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}
	return nil
}

// kindOrDefault treats an unset kind as a document passage.
func kindOrDefault(kind InputKind) InputKind {
	if kind == "" {
		return InputDocument
	}
	return kind
}
