package service

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfusion/docfusion/internal/config"
	"github.com/docfusion/docfusion/pkg/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Embedder.Provider = "local"

	svc, err := NewFromConfig(cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestIngestAndHybridSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.IngestDocument(ctx, IngestRequest{
		Collection: "docs",
		DocumentID: "guide",
		Filename:   "guide.md",
		Data: []byte("# Retrieval\n\nHybrid retrieval fuses dense vectors with sparse keyword matching.\n\n" +
			"# Storage\n\nChunks live in sqlite tables with an FTS mirror.\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "guide", result.DocumentID)
	assert.Greater(t, result.ChunkCount, 0)
	assert.True(t, result.LexicalIndexed)

	hits, err := svc.Search(ctx, SearchQuery{
		Collection: "docs",
		Query:      "sparse keyword matching",
	})
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	for _, h := range hits {
		assert.GreaterOrEqual(t, h.HybridScore, 0.0)
		assert.LessOrEqual(t, h.HybridScore, 1.0)
		assert.NotEmpty(t, h.ChunkID)
	}
}

func TestSearch_LexicalMode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestDocument(ctx, IngestRequest{
		Collection: "docs",
		Filename:   "a.txt",
		Data:       []byte("Reciprocal rank fusion merges two ranked lists."),
	})
	require.NoError(t, err)

	hits, err := svc.Search(ctx, SearchQuery{
		Collection: "docs",
		Query:      "reciprocal fusion",
		Mode:       types.ModeLexical,
	})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, types.SourceLexical, hits[0].Source)
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Search(context.Background(), SearchQuery{Collection: "docs"})
	assert.ErrorIs(t, err, types.ErrInvalidQuery)
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.IngestDocument(context.Background(), IngestRequest{
		Collection: "docs",
		Filename:   "doc.pdf",
		Data:       []byte("%PDF"),
	})
	require.ErrorIs(t, err, types.ErrUnsupportedFormat)

	var stageErr *types.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, types.StageExtraction, stageErr.Stage)
}

func TestIngest_EmptyDocument(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.IngestDocument(context.Background(), IngestRequest{
		Collection: "docs",
		Filename:   "blank.txt",
		Data:       []byte("   "),
	})
	assert.ErrorIs(t, err, types.ErrEmptyDocument)
}

func TestCollectionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestDocument(ctx, IngestRequest{
		Collection: "docs",
		Filename:   "a.txt",
		Data:       []byte("Content for the first collection."),
	})
	require.NoError(t, err)

	names, err := svc.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names)

	stats, err := svc.CollectionStats(ctx, "docs")
	require.NoError(t, err)
	assert.Greater(t, stats.VectorChunks, 0)
	assert.Equal(t, stats.VectorChunks, stats.LexicalChunks)

	require.NoError(t, svc.DeleteCollection(ctx, "docs"))

	names, err = svc.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	err = svc.DeleteCollection(ctx, "docs")
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)
}

func TestReingestReplacesChunks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.IngestDocument(ctx, IngestRequest{
		Collection: "docs",
		DocumentID: "doc1",
		Filename:   "a.txt",
		Data:       []byte("Original content."),
	})
	require.NoError(t, err)

	second, err := svc.IngestDocument(ctx, IngestRequest{
		Collection: "docs",
		DocumentID: "doc1",
		Filename:   "a.txt",
		Data:       []byte("Replacement content."),
	})
	require.NoError(t, err)
	require.Equal(t, first.ChunkCount, second.ChunkCount)

	stats, err := svc.CollectionStats(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, second.ChunkCount, stats.VectorChunks)
}
