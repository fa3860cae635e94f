// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the live poll server.

A teacher creates timed multiple-choice polls; students join over a
websocket, vote once each, and everyone sees the live tally. A poll ends when
its time runs out or every connected student has voted, and closed polls are
archived to the history store.

# Starting the Server

With no configuration the server listens on port 5000 and keeps history in
memory:

	go run .

Persisting history:

	go run . -t sqlite -d "file:polls.db"
	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

# Configuration

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): memory, sqlite or postgres (default: memory)
  - DATABASE_URL (-d): Connection string, required for SQL stores
  - CORS_ORIGINS (-origins): Allowed frontend origins, comma separated

A .env file in the working directory is read first.

# Architecture

  - session: Participants, votes, poll lifecycle and results, serialized under one lock
  - broadcast: Websocket hub, one writer goroutine per connection
  - handlers: Websocket command loop and REST views
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, recovery, JSON helpers
  - models: Wire and domain types
  - auth: Roles, permissions, name validation, ids
  - db: History stores (memory, SQLite, PostgreSQL)
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
