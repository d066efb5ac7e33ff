package models

import "time"

// Round status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Request types

type CreateRoundRequest struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// RoundID may be omitted when the round is addressed by path.
type SubmitVoteRequest struct {
	RoundID  string `json:"round_id"`
	OptionID string `json:"option_id"`
	VoterID  string `json:"voter_id,omitempty"`
}

// Response types

type CreateRoundResponse struct {
	RoundID string   `json:"round_id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

type SubmitVoteResponse struct {
	Accepted bool   `json:"accepted"`
	VoteID   string `json:"vote_id,omitempty"`
}

type CloseRoundResponse struct {
	Closed bool `json:"closed"`
}

// Domain types

type Round struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Status reports the lifecycle state derived from EndedAt.
func (r Round) Status() string {
	if r.EndedAt != nil {
		return StatusClosed
	}
	return StatusOpen
}

type Option struct {
	ID       string `json:"id"`
	RoundID  string `json:"round_id"`
	Label    string `json:"label"`
	Position int    `json:"-"`
}

type RoundWithOptions struct {
	Round   Round    `json:"round"`
	Status  string   `json:"status"`
	Options []Option `json:"options"`
}

type Vote struct {
	ID        string    `json:"id"`
	RoundID   string    `json:"round_id"`
	OptionID  string    `json:"option_id"`
	VoterID   string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

// VoteReceipt is what the ledger hands back for an accepted vote.
// Names are resolved inside the same transaction as the insert.
type VoteReceipt struct {
	Vote        Vote
	RoundName   string
	OptionLabel string
}

// OptionResult is one tally row
type OptionResult struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Votes    int    `json:"votes"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
