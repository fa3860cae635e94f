// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the history store.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable between SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Closed polls
CREATE TABLE IF NOT EXISTS poll_history (
    poll_id BIGINT PRIMARY KEY,
    question TEXT NOT NULL,
    total_votes INTEGER NOT NULL CHECK (total_votes >= 0),
    completed_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_history_completed_at ON poll_history(completed_at);

-- Final per-option results, in poll option order
CREATE TABLE IF NOT EXISTS poll_history_option (
    poll_id BIGINT NOT NULL REFERENCES poll_history(poll_id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    votes INTEGER NOT NULL CHECK (votes >= 0),
    percentage INTEGER NOT NULL CHECK (percentage >= 0 AND percentage <= 100),
    PRIMARY KEY (poll_id, position)
);
`
