// Package database provides SQLite connection management for the preset tooling.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// System manages the single-writer database connection for a run.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Open verifies the connection with a ping bounded by the configured timeout.
	Open(ctx context.Context) error
	// Close releases the connection. Safe to call on every exit path.
	Close() error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system with the given configuration.
// It calls sql.Open to validate the DSN and configure the pool,
// but does not establish a connection until Open is called.
// The pool is limited to one open connection: the tooling is a
// single-writer, and SQLite serializes writers anyway.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("sqlite", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return &database{
		conn:        db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Open(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	d.logger.Info("database connection established")
	return nil
}

func (d *database) Close() error {
	if err := d.conn.Close(); err != nil {
		d.logger.Error("database close failed", "error", err)
		return err
	}

	d.logger.Info("database connection closed")
	return nil
}
