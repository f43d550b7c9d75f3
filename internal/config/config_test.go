package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfusion/docfusion/pkg/types"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Embedder.Provider)
	assert.Equal(t, 400, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 0.7, cfg.Search.SemanticWeight)
	assert.Equal(t, 0.3, cfg.Search.LexicalWeight)
	assert.Equal(t, "docfusion.db", cfg.Storage.Path)
	assert.False(t, cfg.Keywords.Disabled)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  semantic_weight: 7\n  lexical_weight: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7.0, cfg.Search.SemanticWeight)
	assert.Equal(t, 3.0, cfg.Search.LexicalWeight)
	assert.Equal(t, 400, cfg.Chunker.ChunkSize)
}

func TestLoad_InvalidWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  semantic_weight: -1\n  lexical_weight: 1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, types.ErrInvalidWeights)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t bad"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Keywords.Disabled = true
	cfg.Search.Abbreviations = map[string]string{"rag": "retrieval augmented generation"}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Keywords.Disabled)
	assert.Equal(t, "retrieval augmented generation", loaded.Search.Abbreviations["rag"])
}

func TestValidate_NegativeChunkSize(t *testing.T) {
	cfg := Default()
	cfg.Chunker.ChunkSize = -10
	assert.Error(t, cfg.Validate())
}
