// Package config loads otb configuration from an otb.toml file.
// CLI flags override file values; missing files fall back to defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the config file looked up in the working
// directory when no --config flag is given.
const DefaultFileName = "otb.toml"

// Config carries all tunable settings for the otb CLI.
type Config struct {
	// Project is the default project name stamped into merged title
	// blocks.
	Project string `toml:"project"`

	// RegistryRoot is the directory holding block definitions.
	RegistryRoot string `toml:"registry_root"`

	Cache   CacheConfig   `toml:"cache"`
	Compose ComposeConfig `toml:"compose"`
}

// CacheConfig controls the schematic source cache.
type CacheConfig struct {
	// Dir is the cache directory. Empty disables caching.
	Dir string `toml:"dir"`

	// TTL is how long entries stay valid, e.g. "24h". Empty means
	// entries never expire.
	TTL string `toml:"ttl"`
}

// ComposeConfig controls the composition engine.
type ComposeConfig struct {
	// GridBound is the side length of the placement scan window.
	GridBound int `toml:"grid_bound"`

	// FetchConcurrency bounds parallel schematic source fetches.
	FetchConcurrency int `toml:"fetch_concurrency"`

	// FetchRetries is the attempt count for transient fetch failures.
	FetchRetries int `toml:"fetch_retries"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Project:      "untitled",
		RegistryRoot: "blocks",
		Compose: ComposeConfig{
			GridBound:        10,
			FetchConcurrency: 4,
			FetchRetries:     3,
		},
	}
}

// Load reads configuration from path. An empty path tries
// DefaultFileName in the working directory; if that file does not
// exist the defaults are returned.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if cfg.Compose.GridBound < 1 {
		return nil, fmt.Errorf("grid_bound must be at least 1, got %d", cfg.Compose.GridBound)
	}

	return cfg, nil
}

// CacheTTL parses the cache TTL string. Empty means zero (no expiry).
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	return d, nil
}
