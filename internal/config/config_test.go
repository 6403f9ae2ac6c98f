package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Compose.GridBound != 10 {
		t.Errorf("Expected grid bound 10, got %d", cfg.Compose.GridBound)
	}
	if cfg.Compose.FetchConcurrency != 4 {
		t.Errorf("Expected fetch concurrency 4, got %d", cfg.Compose.FetchConcurrency)
	}
	if cfg.Compose.FetchRetries != 3 {
		t.Errorf("Expected fetch retries 3, got %d", cfg.Compose.FetchRetries)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(old)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Compose.GridBound != 10 {
		t.Errorf("Expected defaults, got grid bound %d", cfg.Compose.GridBound)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Expected error for missing explicit config")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otb.toml")
	content := `
project = "weather-station"
registry_root = "/srv/blocks"

[cache]
dir = "/tmp/otb-cache"
ttl = "24h"

[compose]
grid_bound = 12
fetch_concurrency = 8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Project != "weather-station" {
		t.Errorf("Project = %q", cfg.Project)
	}
	if cfg.RegistryRoot != "/srv/blocks" {
		t.Errorf("RegistryRoot = %q", cfg.RegistryRoot)
	}
	if cfg.Compose.GridBound != 12 {
		t.Errorf("GridBound = %d", cfg.Compose.GridBound)
	}
	// Unset values keep defaults
	if cfg.Compose.FetchRetries != 3 {
		t.Errorf("FetchRetries = %d", cfg.Compose.FetchRetries)
	}

	ttl, err := cfg.CacheTTL()
	if err != nil {
		t.Fatalf("CacheTTL error: %v", err)
	}
	if ttl != 24*time.Hour {
		t.Errorf("TTL = %v", ttl)
	}
}

func TestLoadRejectsBadGridBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otb.toml")
	if err := os.WriteFile(path, []byte("[compose]\ngrid_bound = 0\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for zero grid bound")
	}
}

func TestCacheTTLInvalid(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = "soon"
	if _, err := cfg.CacheTTL(); err == nil {
		t.Fatal("Expected error for invalid TTL")
	}
}
