// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes every table, children first. Only used by tests
// that run against a shared Postgres database.
func DropSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"votes", "options", "rounds"} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

// Statements run one at a time; the same text is valid on SQLite and Postgres.
var schema = []string{
	// Rounds
	`CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_open ON rounds(ended_at)`,

	// Options
	`CREATE TABLE IF NOT EXISTS options (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    position INTEGER NOT NULL,
    UNIQUE (id, round_id),
    UNIQUE (round_id, position)
)`,

	// Votes
	`CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL,
    voter_id TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (option_id, round_id) REFERENCES options(id, round_id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_round_id ON votes(round_id)`,
	// One vote per (round, voter); anonymous votes carry NULL and are unconstrained
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_round_voter ON votes(round_id, voter_id) WHERE voter_id IS NOT NULL`,
}
