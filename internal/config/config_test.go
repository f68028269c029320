package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Base != "hianime.to" {
		t.Errorf("default base = %q, want hianime.to", cfg.Base)
	}
	if cfg.ServerType != "sub" {
		t.Errorf("default server_type = %q, want sub", cfg.ServerType)
	}
	if len(cfg.KeyURLs) != 2 {
		t.Errorf("default key_urls has %d entries, want 2", len(cfg.KeyURLs))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"server type all", func(c *Config) { c.ServerType = "all" }, false},
		{"empty base", func(c *Config) { c.Base = "" }, true},
		{"bad server type", func(c *Config) { c.ServerType = "dubbed" }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, true},
		{"huge timeout", func(c *Config) { c.TimeoutSeconds = 9000 }, true},
		{"zero key ttl", func(c *Config) { c.KeyTTLMinutes = 0 }, true},
		{"no key urls", func(c *Config) { c.KeyURLs = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	src := `
base = "hianime.nz"
server_type = "dub"
timeout_seconds = 15
rate_limit = false
key_ttl_minutes = 30
subs_language = "spanish"
`
	cfg := Default()
	if err := toml.Unmarshal([]byte(src), cfg); err != nil {
		t.Fatalf("parsing TOML: %v", err)
	}

	if cfg.Base != "hianime.nz" {
		t.Errorf("base = %q, want hianime.nz", cfg.Base)
	}
	if cfg.ServerType != "dub" {
		t.Errorf("server_type = %q, want dub", cfg.ServerType)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("timeout_seconds = %d, want 15", cfg.TimeoutSeconds)
	}
	if cfg.RateLimit {
		t.Error("rate_limit should be false")
	}
	// Unset keys keep their defaults
	if len(cfg.KeyURLs) != 2 {
		t.Errorf("key_urls should keep default, got %d entries", len(cfg.KeyURLs))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("merged config should validate: %v", err)
	}
}

func TestConfigPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}

	want := filepath.Join(dir, "hianime", "config.toml")
	if path != want {
		t.Errorf("ConfigPath = %q, want %q", path, want)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Base != "hianime.to" {
		t.Errorf("base = %q, want default", cfg.Base)
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "hianime")
	if err := os.MkdirAll(cfgDir, 0o700); err != nil {
		t.Fatal(err)
	}
	bad := []byte("server_type = \"nonsense\"\n")
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), bad, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load should fail on invalid server_type")
	}
}
