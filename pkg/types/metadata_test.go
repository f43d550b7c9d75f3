package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValidate(t *testing.T) {
	m := Metadata{
		"title": "report",
		"page":  3,
		"score": 0.5,
		"final": true,
		"gone":  nil,
	}
	assert.NoError(t, m.Validate())

	bad := Metadata{"nested": map[string]string{"a": "b"}}
	assert.Error(t, bad.Validate())
}

func TestStripNulls(t *testing.T) {
	m := Metadata{
		"keep": "value",
		"drop": nil,
		"page": 7,
	}

	stripped := m.StripNulls()

	assert.Len(t, stripped, 2)
	assert.NotContains(t, stripped, "drop")
	assert.Equal(t, "value", stripped["keep"])

	// Original is untouched.
	assert.Len(t, m, 3)
}

func TestStripNullsNilMap(t *testing.T) {
	var m Metadata
	stripped := m.StripNulls()
	require.NotNil(t, stripped)
	assert.Empty(t, stripped)
}

func TestValidateCollectionName(t *testing.T) {
	valid := []string{"docs", "kb-2024", "a", "team.reports_v2"}
	for _, name := range valid {
		assert.NoError(t, ValidateCollectionName(name), name)
	}

	invalid := []string{"", "-docs", "Docs", "white space", ".hidden",
		"toolongtoolongtoolongtoolongtoolongtoolongtoolongtoolongtoolongxx"}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateCollectionName(name), ErrInvalidCollectionName, name)
	}
}

func TestSearchRequestValidate(t *testing.T) {
	base := SearchRequest{
		Collection:  "docs",
		QueryText:   "quantum computing",
		QueryVector: []float32{0.1, 0.2},
		TopK:        5,
		Mode:        ModeHybrid,
	}
	assert.NoError(t, base.Validate())

	noVec := base
	noVec.QueryVector = nil
	assert.ErrorIs(t, noVec.Validate(), ErrMissingQueryVector)

	noVec.Mode = ModeSemantic
	assert.ErrorIs(t, noVec.Validate(), ErrMissingQueryVector)

	noVec.Mode = ModeLexical
	assert.NoError(t, noVec.Validate())

	badK := base
	badK.TopK = 0
	assert.ErrorIs(t, badK.Validate(), ErrInvalidTopK)

	badMode := base
	badMode.Mode = "fuzzy"
	assert.ErrorIs(t, badMode.Validate(), ErrInvalidMode)
}
