// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the roundvote API server.

roundvote runs timed voting rounds: a round is created with a set of
options, each voter casts at most one vote while the round is open, and
tallies are available at any time.

# Starting the Server

Configuration comes from flags, environment variables (a .env file is
loaded if present), or a YAML file:

	DATABASE_URL=file:roundvote.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string for the selected driver

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - VOTER_TOKEN_SALT (--voter-salt): store voter tokens as HMAC digests
  - STORE_TIMEOUT (--store-timeout): per-operation bound (default: 5s)
  - MAX_OPEN_CONNS (--max-open-conns): pool size (default: 10)
  - METRICS_ENABLED (--metrics): serve /metrics (default: true)
  - CONFIG_FILE (-c): YAML file with the same keys

# Architecture

  - ledger: rounds, options, votes and tallies over database/sql
  - coordinator: orchestrates the ledger and the metrics sink
  - metrics: Sink interface and the Prometheus implementation
  - handlers: HTTP request handlers (rounds, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Voter token validation and hashing
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

On SIGINT or SIGTERM the server stops accepting connections and drains
in-flight requests before exiting.
*/
package main
