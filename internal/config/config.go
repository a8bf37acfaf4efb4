// Package config loads and persists shelfcraft settings. The on-disk format
// is YAML at ~/.shelfcraft/config.yaml; a missing file yields defaults, and
// environment variables override the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all shelfcraft configuration.
type Config struct {
	// Planner backend
	Server ServerConfig `yaml:"server"`

	// Board behavior
	Board BoardConfig `yaml:"board"`

	// Local action journal
	Journal JournalConfig `yaml:"journal"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig points at the placement backend.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// BoardConfig tunes the interactive board.
type BoardConfig struct {
	// Delay before a product search keystroke burst hits the wire.
	SearchDebounce string `yaml:"search_debounce"`

	// How long informational toasts stay on screen. Errors stay until
	// dismissed regardless of this value.
	ToastTTL string `yaml:"toast_ttl"`

	Theme string `yaml:"theme"` // dark, light
}

// JournalConfig configures the local SQLite action journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "15s",
		},
		Board: BoardConfig{
			SearchDebounce: "220ms",
			ToastTTL:       "2200ms",
			Theme:          "dark",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(home, ".shelfcraft", "journal.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shelfcraft", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file is not an
// error: defaults are returned so first runs work without setup.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("SHELFCRAFT_URL"); url != "" {
		c.Server.BaseURL = url
	}
	if path := os.Getenv("SHELFCRAFT_JOURNAL"); path != "" {
		c.Journal.Path = path
	}
	if level := os.Getenv("SHELFCRAFT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetTimeout returns the backend request timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetSearchDebounce returns the search debounce window as a duration.
func (c *Config) GetSearchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Board.SearchDebounce)
	if err != nil || d <= 0 {
		return 220 * time.Millisecond
	}
	return d
}

// GetToastTTL returns the info toast lifetime as a duration.
func (c *Config) GetToastTTL() time.Duration {
	d, err := time.ParseDuration(c.Board.ToastTTL)
	if err != nil || d <= 0 {
		return 2200 * time.Millisecond
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url not configured")
	}
	switch c.Board.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q (use dark or light)", c.Board.Theme)
	}
	return nil
}
