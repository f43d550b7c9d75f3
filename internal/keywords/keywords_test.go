package keywords

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyExtractor_RanksByCount(t *testing.T) {
	e := NewFrequencyExtractor()

	got, err := e.Extract(context.Background(),
		"retrieval retrieval retrieval fusion fusion chunk", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"retrieval", "fusion"}, got)
}

func TestFrequencyExtractor_FiltersStopwordsAndShortTokens(t *testing.T) {
	e := NewFrequencyExtractor()

	got, err := e.Extract(context.Background(),
		"the and for it is a retrieval system", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"retrieval", "system"}, got)
}

func TestFrequencyExtractor_Deterministic(t *testing.T) {
	e := NewFrequencyExtractor()
	ctx := context.Background()

	first, err := e.Extract(ctx, "alpha beta gamma delta", 4)
	require.NoError(t, err)
	second, err := e.Extract(ctx, "alpha beta gamma delta", 4)
	require.NoError(t, err)

	// Equal counts break ties alphabetically.
	assert.Equal(t, []string{"alpha", "beta", "delta", "gamma"}, first)
	assert.Equal(t, first, second)
}

func TestFrequencyExtractor_EmptyText(t *testing.T) {
	e := NewFrequencyExtractor()

	got, err := e.Extract(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNoop(t *testing.T) {
	got, err := Noop{}.Extract(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}
