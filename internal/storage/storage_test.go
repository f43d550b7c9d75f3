package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfusion/docfusion/internal/index"
	"github.com/docfusion/docfusion/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_AppliesMigrations(t *testing.T) {
	store := newTestStore(t)

	names, err := store.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCreateCollection_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Vector().CreateCollection(ctx, "docs"))
	require.NoError(t, store.Vector().CreateCollection(ctx, "docs"))
	require.NoError(t, store.Lexical().CreateCollection(ctx, "docs"))

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names)
}

func TestCreateCollection_InvalidName(t *testing.T) {
	store := newTestStore(t)

	err := store.Vector().CreateCollection(context.Background(), "Bad Name!")
	assert.ErrorIs(t, err, types.ErrInvalidCollectionName)
}

func TestVectorStore_AddAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	vs := store.Vector()

	require.NoError(t, vs.CreateCollection(ctx, "docs"))
	require.NoError(t, vs.Add(ctx, "docs", []index.VectorRecord{
		{ChunkID: "a", Text: "alpha", Vector: []float32{1, 0, 0}, Metadata: types.Metadata{"k": "v"}},
		{ChunkID: "b", Text: "beta", Vector: []float32{0, 1, 0}},
		{ChunkID: "c", Text: "gamma", Vector: []float32{0.9, 0.1, 0}},
	}))

	hits, err := vs.Query(ctx, "docs", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// Exact match first with distance ~0, then the near match.
	assert.Equal(t, "a", hits[0].ChunkID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.Equal(t, "c", hits[1].ChunkID)
	assert.Greater(t, hits[1].Distance, hits[0].Distance)
	assert.Equal(t, "v", hits[0].Metadata["k"])
}

func TestVectorStore_UpsertReplacesChunk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	vs := store.Vector()

	require.NoError(t, vs.CreateCollection(ctx, "docs"))
	require.NoError(t, vs.Add(ctx, "docs", []index.VectorRecord{
		{ChunkID: "a", Text: "old", Vector: []float32{1, 0}},
	}))
	require.NoError(t, vs.Add(ctx, "docs", []index.VectorRecord{
		{ChunkID: "a", Text: "new", Vector: []float32{0, 1}},
	}))

	n, err := vs.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := vs.Query(ctx, "docs", []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Text)
}

func TestVectorStore_SkipsDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	vs := store.Vector()

	require.NoError(t, vs.CreateCollection(ctx, "docs"))
	require.NoError(t, vs.Add(ctx, "docs", []index.VectorRecord{
		{ChunkID: "a", Text: "two dims", Vector: []float32{1, 0}},
		{ChunkID: "b", Text: "three dims", Vector: []float32{1, 0, 0}},
	}))

	hits, err := vs.Query(ctx, "docs", []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ChunkID)
}

func TestVectorStore_UnknownCollection(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Vector().Query(context.Background(), "missing", []float32{1}, 5)
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)
}

func TestLexicalStore_AddAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ls := store.Lexical()

	require.NoError(t, ls.CreateCollection(ctx, "docs"))
	require.NoError(t, ls.Add(ctx, "docs", []index.LexicalRecord{
		{ChunkID: "a", Text: "the fusion engine merges ranked lists", Keywords: []string{"fusion", "ranking"}},
		{ChunkID: "b", Text: "sqlite stores chunk embeddings", Keywords: []string{"sqlite", "storage"}},
	}))

	hits, err := ls.Search(ctx, "docs", "fusion", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ChunkID)
	assert.Greater(t, hits[0].Score, 0.0)
	assert.LessOrEqual(t, hits[0].Score, 1.0)
}

func TestLexicalStore_ScoresFollowRanking(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ls := store.Lexical()

	require.NoError(t, ls.CreateCollection(ctx, "docs"))
	require.NoError(t, ls.Add(ctx, "docs", []index.LexicalRecord{
		{ChunkID: "strong", Text: "quantum computing with quantum gates and quantum error correction"},
		{ChunkID: "weak", Text: "a long survey of classical algorithms that mentions quantum once among many other unrelated topics and terms"},
	}))

	hits, err := ls.Search(ctx, "docs", "quantum", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// The stronger match ranks first, and scores descend with rank.
	assert.Equal(t, "strong", hits[0].ChunkID)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	for _, h := range hits {
		assert.Greater(t, h.Score, 0.0)
		assert.Less(t, h.Score, 1.0)
	}
}

func TestLexicalStore_KeywordsAreSearchable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ls := store.Lexical()

	require.NoError(t, ls.CreateCollection(ctx, "docs"))
	require.NoError(t, ls.Add(ctx, "docs", []index.LexicalRecord{
		{ChunkID: "a", Text: "nothing matching here", Keywords: []string{"retrieval"}},
	}))

	hits, err := ls.Search(ctx, "docs", "retrieval", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ChunkID)
}

func TestLexicalStore_OrExpansion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ls := store.Lexical()

	require.NoError(t, ls.CreateCollection(ctx, "docs"))
	require.NoError(t, ls.Add(ctx, "docs", []index.LexicalRecord{
		{ChunkID: "a", Text: "artificial intelligence systems learn patterns"},
		{ChunkID: "b", Text: "databases store rows"},
	}))

	hits, err := ls.Search(ctx, "docs", "(ai OR artificial intelligence)", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ChunkID)
}

func TestLexicalStore_EmptyQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ls := store.Lexical()

	require.NoError(t, ls.CreateCollection(ctx, "docs"))

	hits, err := ls.Search(ctx, "docs", "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_DeleteCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Vector().CreateCollection(ctx, "docs"))
	require.NoError(t, store.Vector().Add(ctx, "docs", []index.VectorRecord{
		{ChunkID: "a", Text: "t", Vector: []float32{1}},
	}))
	require.NoError(t, store.Lexical().Add(ctx, "docs", []index.LexicalRecord{
		{ChunkID: "a", Text: "t"},
	}))

	require.NoError(t, store.DeleteCollection(ctx, "docs"))

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Vector().Query(ctx, "docs", []float32{1}, 1)
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Vector().CreateCollection(ctx, "docs"))
	require.NoError(t, store.Vector().Add(ctx, "docs", []index.VectorRecord{
		{ChunkID: "a", Text: "t", Vector: []float32{1}},
		{ChunkID: "b", Text: "t", Vector: []float32{1}},
	}))
	require.NoError(t, store.Lexical().Add(ctx, "docs", []index.LexicalRecord{
		{ChunkID: "a", Text: "t"},
	}))

	stats, err := store.Stats(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.VectorChunks)
	assert.Equal(t, 1, stats.LexicalChunks)

	_, err = store.Stats(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)
}

func TestSerializeVector_RoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.75, 0}
	assert.Equal(t, original, DeserializeVector(SerializeVector(original)))
}

func TestSanitizeFTSQuery(t *testing.T) {
	assert.Equal(t, `"hello" "world"`, sanitizeFTSQuery("hello world"))
	assert.Equal(t, `( "ai" OR "artificial" "intelligence" )`, sanitizeFTSQuery("(ai OR artificial intelligence)"))
	assert.Equal(t, `"drop" "table"`, sanitizeFTSQuery(`"drop" table:`))
	assert.Equal(t, "", sanitizeFTSQuery("   "))
	// AND is quoted, which strips its operator meaning.
	assert.Equal(t, `"a" "AND" "b"`, sanitizeFTSQuery("a AND b"))
}
