// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package coordinator orchestrates the round and vote ledger and the
observability sink.

It is the only component that knows about both persistence and metrics.
It keeps no state of its own: every decision is made by the store.

# Operations

	coord := coordinator.New(store, sink, coordinator.Config{
		Timeout:   5 * time.Second,
		VoterSalt: salt,
		Logger:    slog.Default(),
	})

	coord.CreateRound(ctx, name, labels)        // announces round_opened
	coord.SubmitVote(ctx, roundID, optionID, v) // announces vote_accepted
	coord.CloseRound(ctx, roundID)              // announces round_closed
	coord.GetResults(ctx, roundID)
	coord.GetRound(ctx, roundID)
	coord.RestoreOpenRounds(ctx)                // re-announces open rounds

Rejections are the ledger sentinel errors (ledger.ErrRoundClosed and so
on) and pass through unchanged. Nothing is retried.

# Sink Semantics

Sink calls happen after the store has committed. A panicking sink is
recovered and logged; the operation still succeeds. CloseRound publishes
round_closed for every close of an existing round, including repeats.

# Timeouts

Each operation runs under Config.Timeout via context.WithTimeout.
*/
package coordinator
