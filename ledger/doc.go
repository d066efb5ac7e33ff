// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the durable state of voting rounds: rounds, their
options, and the append-only vote ledger.

# Store

A Store wraps a pooled *sql.DB and works on SQLite and Postgres:

	store := ledger.NewStore(conn, cfg.DatabaseType)

Rounds:

	round, options, err := store.CreateRound(ctx, "Pizza", []string{"Pepperoni", "Veggie"})
	round, err := store.GetRound(ctx, id)
	didClose, err := store.CloseRound(ctx, id)   // idempotent
	rounds, err := store.ListOpenRounds(ctx)

Options:

	options, err := store.ListOptions(ctx, roundID)
	option, err := store.GetOption(ctx, optionID, roundID)

Votes:

	receipt, err := store.RecordVote(ctx, roundID, optionID, voterID)

Results:

	rows, err := store.Results(ctx, roundID)

# Lifecycle

A round is open while ended_at is NULL. CloseRound is the only writer of
ended_at and only sets it once.

# Vote Validity

RecordVote checks round existence, open state, option membership and
voter uniqueness in one transaction. Uniqueness of (round_id, voter_id) is
a unique index, so two simultaneous votes by the same voter produce
exactly one row; the loser gets ErrDuplicateVote. An empty voter ID is
stored as NULL and never conflicts.

# Errors

All errors are sentinels checked with errors.Is:

	ErrInvalidInput, ErrRoundNotFound, ErrOptionNotFound   input
	ErrRoundClosed, ErrDuplicateVote                       state conflict
	ErrStorageUnavailable                                  any *StorageError

Code maps an error to its stable name (e.g. "duplicate_vote").
*/
package ledger
