// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseType: History store, one of memory, sqlite, postgres (default: memory)
  - DatabaseURL: Connection string, required unless DatabaseType is memory
  - AllowedOrigins: Frontend origins allowed by CORS and websocket upgrades

# CLI Flags

	-p        Server port
	-t        History store type
	-d        Database URL
	-origins  Comma-separated allowed origins

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_TYPE → -t
	DATABASE_URL  → -d
	CORS_ORIGINS  → -origins

CLI flags take precedence over environment variables. LoadDotEnv fills the
environment from a .env file first; variables already set are kept.

# Example

	// In main.go
	if err := cliparse.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	store, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
*/
package cliparse
