package database

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds SQLite connection parameters.
type Config struct {
	Path        string `toml:"path"`
	BusyTimeout int    `toml:"busy_timeout"`
	JournalMode string `toml:"journal_mode"`
	ForeignKeys bool   `toml:"foreign_keys"`
	ConnTimeout string `toml:"conn_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Path        string
	BusyTimeout string
	JournalMode string
	ConnTimeout string
}

// ConnTimeoutDuration returns ConnTimeout as a time.Duration.
func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Dsn returns a SQLite connection string with pragma parameters applied.
func (c *Config) Dsn() string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout))
	params.Add("_pragma", fmt.Sprintf("journal_mode(%s)", c.JournalMode))
	if c.ForeignKeys {
		params.Add("_pragma", "foreign_keys(1)")
	}
	return fmt.Sprintf("file:%s?%s", c.Path, params.Encode())
}

// MigrateDsn returns the connection string format expected by golang-migrate.
func (c *Config) MigrateDsn() string {
	return fmt.Sprintf("sqlite://%s", c.Path)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.BusyTimeout != 0 {
		c.BusyTimeout = overlay.BusyTimeout
	}
	if overlay.JournalMode != "" {
		c.JournalMode = overlay.JournalMode
	}
	if overlay.ForeignKeys {
		c.ForeignKeys = true
	}
	if overlay.ConnTimeout != "" {
		c.ConnTimeout = overlay.ConnTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = "data/photomaton.db"
	}
	if c.BusyTimeout == 0 {
		c.BusyTimeout = 5000
	}
	if c.JournalMode == "" {
		c.JournalMode = "wal"
	}
	if c.ConnTimeout == "" {
		c.ConnTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Path != "" {
		if v := os.Getenv(env.Path); v != "" {
			c.Path = v
		}
	}
	if env.BusyTimeout != "" {
		if v := os.Getenv(env.BusyTimeout); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.BusyTimeout = n
			}
		}
	}
	if env.JournalMode != "" {
		if v := os.Getenv(env.JournalMode); v != "" {
			c.JournalMode = v
		}
	}
	if env.ConnTimeout != "" {
		if v := os.Getenv(env.ConnTimeout); v != "" {
			c.ConnTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Path == "" {
		return fmt.Errorf("path required")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy_timeout must be non-negative")
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}
