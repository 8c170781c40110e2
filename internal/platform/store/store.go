// Package store wraps the single-file relational store backing the
// pipeline: a local SQLite file accessed through a single connection
// per process, with writes serialized.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mwozniak/jobrank/internal/config"
)

// Client represents the SQLite-backed store connection.
type Client struct {
	DB *sqlx.DB
}

// New opens the store file and verifies connectivity. Writes are
// serialized through this single connection; SetMaxOpenConns(1) enforces
// that at the driver level so concurrent repository calls never race on
// the underlying file handle.
func New(ctx context.Context, cfg config.StoreConfig) (*Client, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", cfg.Path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping store: %w", err)
	}

	return &Client{DB: db}, nil
}

// Close closes the store connection.
func (c *Client) Close() error {
	return c.DB.Close()
}

// Health checks store connectivity.
func (c *Client) Health(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}
