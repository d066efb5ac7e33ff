// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateRoundRequest: name, options (labels)
  - SubmitVoteRequest: round_id, option_id, voter_id (optional)

# Response Types

Types for JSON responses:

  - CreateRoundResponse: round_id, name, options
  - SubmitVoteResponse: accepted, vote_id
  - CloseRoundResponse: closed
  - ErrorResponse: error, code, message

# Domain Types

  - Round: a voting round; EndedAt is nil while open
  - Option: one choice in a round, Position is its creation order
  - Vote: one accepted vote (VoterID is never serialized)
  - VoteReceipt: accepted vote plus round name and option label
  - OptionResult: per-option tally row

# Constants

Status values:

	StatusOpen   = "open"
	StatusClosed = "closed"

A round is open until EndedAt is set. The transition is one-way.
*/
package models
