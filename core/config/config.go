// Package config loads engine configuration from yaml with documented
// defaults. Data is load-once: there is no watching or hot reload, since
// every engine input is immutable for the process lifetime.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the process-level settings.
type Config struct {
	// DataDir is the snapshot directory holding tracks.json,
	// embeddings.bin, and embeddings_meta.json.
	DataDir string `yaml:"data_dir"`

	Engine EngineConfig `yaml:"engine"`
	Search SearchConfig `yaml:"search"`
}

type EngineConfig struct {
	// CandidatePoolSize bounds the similarity scan's top-K pool.
	CandidatePoolSize int `yaml:"candidate_pool_size"`

	// DefaultN is the recommendation count when a request omits one.
	DefaultN int `yaml:"default_n"`

	// NeighborCacheSize bounds the nearest-neighbor LRU cache.
	NeighborCacheSize int `yaml:"neighbor_cache_size"`
}

type SearchConfig struct {
	// Enabled controls whether the full-text index is built at startup.
	Enabled bool `yaml:"enabled"`

	// DefaultLimit is the search result count when a query omits one.
	DefaultLimit int `yaml:"default_limit"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Engine: EngineConfig{
			CandidatePoolSize: 500,
			DefaultN:          10,
			NeighborCacheSize: 1024,
		},
		Search: SearchConfig{
			Enabled:      true,
			DefaultLimit: 10,
		},
	}
}

// Load reads a yaml config file over the defaults. A missing file is not
// an error: callers get the defaults back.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Engine.CandidatePoolSize <= 0 {
		cfg.Engine.CandidatePoolSize = 500
	}
	if cfg.Engine.DefaultN <= 0 {
		cfg.Engine.DefaultN = 10
	}
	if cfg.Engine.NeighborCacheSize <= 0 {
		cfg.Engine.NeighborCacheSize = 1024
	}
	if cfg.Search.DefaultLimit <= 0 {
		cfg.Search.DefaultLimit = 10
	}

	return cfg, nil
}
