// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects a driver from the configured database type and verifies the
connection:

	conn, err := db.Open(ctx, cfg)

	sqlite   → modernc.org/sqlite (pure Go, single connection)
	postgres → github.com/lib/pq
	pgx      → github.com/jackc/pgx/v5/stdlib

Postgres pools are sized by cfg.MaxOpenConns. Every request borrows a
connection from the pool and returns it when done; there is no shared
session.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - rounds: round metadata; ended_at is NULL while open
  - options: options per round, position is creation order
  - votes: append-only vote ledger

# Relationships

	rounds 1──* options
	rounds 1──* votes
	options 1──* votes   (via (option_id, round_id))

The composite foreign key on votes guarantees a vote's option belongs to
the vote's round.

# Indexes

  - votes.(round_id, voter_id) unique where voter_id IS NOT NULL
  - votes.option_id, votes.round_id
  - rounds.ended_at
*/
package db
