// Package config loads the application configuration from YAML with
// sensible defaults and eager validation, so a bad weight or chunk
// size fails at startup rather than mid-query.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/docfusion/docfusion/pkg/types"
)

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Provider  string `yaml:"provider"`
	APIKey    string `yaml:"api_key"`
	CacheSize int    `yaml:"cache_size"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// SearchConfig configures score fusion and the query cache.
type SearchConfig struct {
	SemanticWeight   float64           `yaml:"semantic_weight"`
	LexicalWeight    float64           `yaml:"lexical_weight"`
	LexicalTimeoutMs int               `yaml:"lexical_timeout_ms"`
	CacheSize        int               `yaml:"cache_size"`
	CacheTTLSecs     int               `yaml:"cache_ttl_secs"`
	Abbreviations    map[string]string `yaml:"abbreviations,omitempty"`
}

// KeywordsConfig configures keyword extraction for the sparse index.
type KeywordsConfig struct {
	Disabled bool `yaml:"disabled"`
	TopN     int  `yaml:"top_n"`
}

// StorageConfig configures the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder EmbedderConfig `yaml:"embedder"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Search   SearchConfig   `yaml:"search"`
	Keywords KeywordsConfig `yaml:"keywords"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Load reads a config from a specified path. If the file does not
// exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./docfusion.yaml first, then
// ~/.config/docfusion/config.yaml, then falls back to defaults.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "docfusion.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err == nil {
		if _, statErr := os.Stat(userPath); statErr == nil {
			cfg, loadErr := Load(userPath)
			return cfg, userPath, loadErr
		}
	}
	return Default(), "", nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// Validate rejects configurations the engine would refuse at runtime.
func (c *AppConfig) Validate() error {
	if c.Search.SemanticWeight < 0 || c.Search.LexicalWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative", types.ErrInvalidWeights)
	}
	if c.Search.SemanticWeight+c.Search.LexicalWeight == 0 {
		return fmt.Errorf("%w: weights must not both be zero", types.ErrInvalidWeights)
	}
	if c.Chunker.ChunkSize < 0 || c.Chunker.ChunkOverlap < 0 {
		return fmt.Errorf("chunker sizes must be non-negative: size=%d overlap=%d",
			c.Chunker.ChunkSize, c.Chunker.ChunkOverlap)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docfusion", "config.yaml"), nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Embedder.Provider == "" {
		cfg.Embedder.Provider = "local"
	}
	if cfg.Embedder.CacheSize == 0 {
		cfg.Embedder.CacheSize = 10000
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 400
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 50
	}
	if cfg.Search.SemanticWeight == 0 && cfg.Search.LexicalWeight == 0 {
		cfg.Search.SemanticWeight = 0.7
		cfg.Search.LexicalWeight = 0.3
	}
	if cfg.Search.LexicalTimeoutMs == 0 {
		cfg.Search.LexicalTimeoutMs = 2000
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 512
	}
	if cfg.Search.CacheTTLSecs == 0 {
		cfg.Search.CacheTTLSecs = 300
	}
	if cfg.Keywords.TopN == 0 {
		cfg.Keywords.TopN = 8
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "docfusion.db"
	}
}
