// Package config loads the tooling configuration from TOML files,
// an optional .env file, and environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/photomaton/presetsync/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvPhotomatonEnv        = "PHOTOMATON_ENV"
	EnvPhotomatonExportFile = "PHOTOMATON_EXPORT_FILE"
	EnvPhotomatonVersion    = "PHOTOMATON_VERSION"
)

var databaseEnv = &database.Env{
	Path:        "PHOTOMATON_DB_PATH",
	BusyTimeout: "PHOTOMATON_DB_BUSY_TIMEOUT",
	JournalMode: "PHOTOMATON_DB_JOURNAL_MODE",
	ConnTimeout: "PHOTOMATON_DB_CONN_TIMEOUT",
}

// Config is the root configuration for the preset tooling.
type Config struct {
	Database   database.Config `toml:"database"`
	ExportFile string          `toml:"export_file"`
	Version    string          `toml:"version"`
}

// Env returns the PHOTOMATON_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvPhotomatonEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads an optional .env file, the base config (if present),
// applies any environment overlay, and finalizes all values. With no
// config.toml, defaults and environment variables provide all
// configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ExportFile != "" {
		c.ExportFile = overlay.ExportFile
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Database.Merge(&overlay.Database)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ExportFile == "" {
		c.ExportFile = "presets-export.json"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPhotomatonExportFile); v != "" {
		c.ExportFile = v
	}
	if v := os.Getenv(EnvPhotomatonVersion); v != "" {
		c.Version = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvPhotomatonEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
