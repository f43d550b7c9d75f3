package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessQuery_StripsSpecialChars(t *testing.T) {
	got := preprocessQuery(`vector & fusion; (ranked)!`, nil)
	assert.Equal(t, "vector fusion ranked", got)
}

func TestPreprocessQuery_KeepsQuotesAndUnderscores(t *testing.T) {
	got := preprocessQuery(`"exact phrase" snake_case`, nil)
	assert.Equal(t, `"exact phrase" snake_case`, got)
}

func TestPreprocessQuery_ExpandsAbbreviations(t *testing.T) {
	got := preprocessQuery("ai ranking", defaultAbbreviations)
	assert.Equal(t, "(ai OR artificial intelligence) ranking", got)

	// Case-insensitive lookup keeps the original token.
	got = preprocessQuery("ML models", defaultAbbreviations)
	assert.Equal(t, "(ML OR machine learning) models", got)
}

func TestPreprocessQuery_NoExpansionInsideWords(t *testing.T) {
	// "aid" contains "ai" but is its own token, so no expansion.
	got := preprocessQuery("aid workers", defaultAbbreviations)
	assert.Equal(t, "aid workers", got)
}

func TestPreprocessQuery_Empty(t *testing.T) {
	assert.Equal(t, "", preprocessQuery("", defaultAbbreviations))
	assert.Equal(t, "", preprocessQuery("!!! ???", defaultAbbreviations))
}
