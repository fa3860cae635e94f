// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides the append-only history of closed polls.

# Stores

Open picks the store from the configured database type:

	store, err := db.Open("sqlite", "file:polls.db")
	defer store.Close()

  - memory: MemoryHistory, lives as long as the process (default)
  - sqlite: SQLHistory over modernc.org/sqlite
  - postgres: SQLHistory over github.com/lib/pq

Entries are immutable once written. Appending the same poll twice fails
with ErrDuplicateEntry.

# Schema Creation

CreateSchema initializes the SQL tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll_history: poll id, question, total votes, completion time (unix ms)
  - poll_history_option: final votes and percentage per option position

	poll_history 1──* poll_history_option
*/
package db
