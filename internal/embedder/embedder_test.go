package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_Deterministic(t *testing.T) {
	p, err := NewLocalProvider(nil)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := p.Embed(ctx, Request{Text: "hybrid retrieval"})
	require.NoError(t, err)
	second, err := p.Embed(ctx, Request{Text: "hybrid retrieval"})
	require.NoError(t, err)

	assert.Equal(t, first.Vector, second.Vector)
	assert.Equal(t, LocalDimension, first.Dimension)
	assert.Equal(t, ProviderLocal, first.Provider)
}

func TestLocalProvider_AsymmetricKinds(t *testing.T) {
	p, err := NewLocalProvider(nil)
	require.NoError(t, err)

	ctx := context.Background()
	doc, err := p.Embed(ctx, Request{Text: "hybrid retrieval", Kind: InputDocument})
	require.NoError(t, err)
	query, err := p.Embed(ctx, Request{Text: "hybrid retrieval", Kind: InputQuery})
	require.NoError(t, err)

	// Same text, different kinds: vectors must differ.
	assert.NotEqual(t, doc.Vector, query.Vector)
}

func TestLocalProvider_EmptyText(t *testing.T) {
	p, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), Request{Text: ""})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestLocalProvider_Batch(t *testing.T) {
	p, err := NewLocalProvider(nil)
	require.NoError(t, err)

	resp, err := p.EmbedBatch(context.Background(), BatchRequest{
		Texts: []string{"one", "two", "three"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Embeddings, 3)

	for _, emb := range resp.Embeddings {
		assert.Equal(t, LocalDimension, emb.Dimension)
	}

	// Distinct texts produce distinct vectors.
	assert.NotEqual(t, resp.Embeddings[0].Vector, resp.Embeddings[1].Vector)
}

func TestCache_RoundTrip(t *testing.T) {
	cache := NewCache(10)

	emb := &Embedding{
		Vector:    []float32{0.1, 0.2, 0.3},
		Dimension: 3,
		Provider:  ProviderLocal,
		Hash:      "h",
	}
	cache.Set("h", emb)

	got, ok := cache.Get("h")
	require.True(t, ok)
	assert.Equal(t, emb.Vector, got.Vector)

	// The cached copy must be isolated from caller mutation.
	got.Vector[0] = 99
	again, ok := cache.Get("h")
	require.True(t, ok)
	assert.Equal(t, float32(0.1), again.Vector[0])
}

func TestCache_Eviction(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", &Embedding{Hash: "a"})
	cache.Set("b", &Embedding{Hash: "b"})
	cache.Set("c", &Embedding{Hash: "c"})

	assert.Equal(t, 2, cache.Size())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestComputeHash_KindSensitive(t *testing.T) {
	assert.NotEqual(t,
		ComputeHash("text", InputDocument),
		ComputeHash("text", InputQuery))
	assert.Equal(t,
		ComputeHash("text", InputDocument),
		ComputeHash("text", InputDocument))
}

func TestValidateBatchRequest(t *testing.T) {
	assert.ErrorIs(t, ValidateBatchRequest(BatchRequest{}), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBatchRequest(BatchRequest{Texts: []string{"ok", ""}}), ErrInvalidInput)
	assert.NoError(t, ValidateBatchRequest(BatchRequest{Texts: []string{"ok"}}))
}

func TestNormalizeVector(t *testing.T) {
	v := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := NormalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestJinaTask(t *testing.T) {
	assert.Equal(t, "retrieval.passage", jinaTask(InputDocument))
	assert.Equal(t, "retrieval.passage", jinaTask(""))
	assert.Equal(t, "retrieval.query", jinaTask(InputQuery))
}
