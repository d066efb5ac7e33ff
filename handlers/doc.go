// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting API.

# Handler Types

Each handler is a struct over a RoundService (satisfied by
*coordinator.Coordinator):

  - RoundHandler: round lifecycle (create, get, close)
  - VotingHandler: vote submission
  - ResultsHandler: tallies

	roundHandler := handlers.NewRoundHandler(coord)

# Round Lifecycle

Rounds progress through two states: open → closed

	POST /rounds             → CreateRound (201, round_id and options)
	GET  /rounds/{id}        → GetRound (round, status, options)
	POST /rounds/{id}/close  → CloseRound (closed=true only on the transition)

# Voting

	POST /vote               → SubmitVote (body round_id, option_id)
	POST /rounds/{id}/votes  → SubmitRoundVote (body option_id)

The voter token comes from the X-Voter-Id header, or the voter_id body
field when the header is absent. Without either the vote is anonymous.

# Results

	GET /rounds/{id}/results → GetResults

A JSON array of {option_id, label, votes}, most votes first, ties in
option creation order.

# Errors

Error bodies carry a machine-readable code:

	invalid_input                     400
	round_not_found, option_not_found 404
	round_closed, duplicate_vote      409
	storage_unavailable               503
	internal_error                    500
*/
package handlers
