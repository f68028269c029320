// Package config handles TOML-based configuration loading and validation.
// Config is parsed as data only; defaults apply when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/media"
)

// Config holds all application configuration.
type Config struct {
	Base           string   `toml:"base"`             // Site host, e.g. "hianime.to"
	ServerType     string   `toml:"server_type"`      // Default server filter: sub | dub | raw | all
	TimeoutSeconds int      `toml:"timeout_seconds"`  // Per-request HTTP timeout
	RateLimit      bool     `toml:"rate_limit"`       // Polite delay between site requests
	KeyURLs        []string `toml:"key_urls"`         // Decryption key registry, tried in order
	KeyTTLMinutes  int      `toml:"key_ttl_minutes"`  // Passphrase cache lifetime
	MALClientID    string   `toml:"mal_client_id"`    // MyAnimeList API client ID
	SubsLanguage   string   `toml:"subs_language"`    // Preferred subtitle language filter
	Debug          bool     `toml:"debug"`
}

// DefaultKeyURLs are the community-maintained passphrase registries,
// primary first.
var DefaultKeyURLs = []string{
	"https://raw.githubusercontent.com/itzzzme/megacloud-keys/main/key.txt",
	"https://raw.githubusercontent.com/itzzzme/megacloud-keys/refs/heads/main/key.txt",
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Base:           "hianime.to",
		ServerType:     "sub",
		TimeoutSeconds: 30,
		RateLimit:      true,
		KeyURLs:        DefaultKeyURLs,
		KeyTTLMinutes:  60,
		SubsLanguage:   "english",
		Debug:          false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hianime"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hianime"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Base == "" {
		return fmt.Errorf("base host cannot be empty")
	}

	if _, err := media.ParseServerType(c.ServerType); err != nil {
		return err
	}

	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 300 {
		return fmt.Errorf("timeout_seconds %d out of range (1-300)", c.TimeoutSeconds)
	}

	if c.KeyTTLMinutes < 1 {
		return fmt.Errorf("key_ttl_minutes must be at least 1")
	}

	if len(c.KeyURLs) == 0 {
		return fmt.Errorf("key_urls cannot be empty")
	}

	return nil
}

// MALClientIDOrEnv returns the configured MAL client ID, falling back to the
// MAL_CLIENT_ID environment variable.
func (c *Config) MALClientIDOrEnv() string {
	if c.MALClientID != "" {
		return c.MALClientID
	}
	return os.Getenv("MAL_CLIENT_ID")
}
