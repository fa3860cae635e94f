// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danielhkuo/live-poll/models"
)

var ErrDuplicateEntry = errors.New("poll already archived")

// MemoryHistory keeps closed polls for the life of the process
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
	seen    map[int64]bool
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{seen: make(map[int64]bool)}
}

func (m *MemoryHistory) Append(_ context.Context, entry models.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seen[entry.PollID] {
		return fmt.Errorf("%w: %d", ErrDuplicateEntry, entry.PollID)
	}
	m.seen[entry.PollID] = true
	entry.Options = append([]models.OptionResult(nil), entry.Options...)
	m.entries = append(m.entries, entry)
	return nil
}

// List returns entries oldest first; callers get their own copy
func (m *MemoryHistory) List(_ context.Context) ([]models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.HistoryEntry, len(m.entries))
	for i, e := range m.entries {
		e.Options = append([]models.OptionResult(nil), e.Options...)
		out[i] = e
	}
	return out, nil
}

func (m *MemoryHistory) Close() error {
	return nil
}

// SQLHistory stores closed polls in SQLite or PostgreSQL
type SQLHistory struct {
	db *sql.DB
}

func NewSQLHistory(db *sql.DB) *SQLHistory {
	return &SQLHistory{db: db}
}

func (h *SQLHistory) Append(ctx context.Context, entry models.HistoryEntry) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll_history WHERE poll_id = $1)
	`, entry.PollID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check poll history: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %d", ErrDuplicateEntry, entry.PollID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll_history (poll_id, question, total_votes, completed_at)
		VALUES ($1, $2, $3, $4)
	`, entry.PollID, entry.Question, entry.TotalVotes, entry.CompletedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert poll history: %w", err)
	}

	for i, opt := range entry.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_history_option (poll_id, position, text, votes, percentage)
			VALUES ($1, $2, $3, $4, $5)
		`, entry.PollID, i, opt.Text, opt.Votes, opt.Percentage)
		if err != nil {
			return fmt.Errorf("failed to insert poll history option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit poll history: %w", err)
	}
	return nil
}

// List returns entries oldest first
func (h *SQLHistory) List(ctx context.Context) ([]models.HistoryEntry, error) {
	entries, err := h.listEntries(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(entries))
	for i, e := range entries {
		index[e.PollID] = i
	}

	// Rows from the first query are closed by now; SQLite runs on a
	// single connection.
	if err := h.attachOptions(ctx, entries, index); err != nil {
		return nil, err
	}
	return entries, nil
}

func (h *SQLHistory) listEntries(ctx context.Context) ([]models.HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT poll_id, question, total_votes, completed_at
		FROM poll_history
		ORDER BY completed_at, poll_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		var completedAt int64
		if err := rows.Scan(&e.PollID, &e.Question, &e.TotalVotes, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll history: %w", err)
		}
		e.CompletedAt = time.UnixMilli(completedAt).UTC()
		e.Options = []models.OptionResult{}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read poll history: %w", err)
	}
	return entries, nil
}

func (h *SQLHistory) attachOptions(ctx context.Context, entries []models.HistoryEntry, index map[int64]int) error {
	rows, err := h.db.QueryContext(ctx, `
		SELECT poll_id, text, votes, percentage
		FROM poll_history_option
		ORDER BY poll_id, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query poll history options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pollID int64
		var opt models.OptionResult
		if err := rows.Scan(&pollID, &opt.Text, &opt.Votes, &opt.Percentage); err != nil {
			return fmt.Errorf("failed to scan poll history option: %w", err)
		}
		i, ok := index[pollID]
		if !ok {
			continue
		}
		entries[i].Options = append(entries[i].Options, opt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read poll history options: %w", err)
	}
	return nil
}

func (h *SQLHistory) Close() error {
	return h.db.Close()
}
