// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/live-poll/models"
)

// Database types accepted by Open
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// HistoryStore is what Open hands back to the server
type HistoryStore interface {
	Append(ctx context.Context, entry models.HistoryEntry) error
	List(ctx context.Context) ([]models.HistoryEntry, error)
	Close() error
}

// Open returns the history store for dbType, creating the schema for SQL stores
func Open(dbType, url string) (HistoryStore, error) {
	switch dbType {
	case "", TypeMemory:
		return NewMemoryHistory(), nil
	case TypeSQLite, TypePostgres:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if dbType == TypeSQLite {
		// SQLite allows one writer; in-memory databases are per connection.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("history store ready", "type", dbType)
	return NewSQLHistory(conn), nil
}
