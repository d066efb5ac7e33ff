// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"

	"github.com/voteledger/roundvote/coordinator"
	"github.com/voteledger/roundvote/models"
)

// RoundService is what the HTTP layer needs from the coordinator
type RoundService interface {
	CreateRound(ctx context.Context, name string, labels []string) (models.CreateRoundResponse, error)
	GetRound(ctx context.Context, roundID string) (models.RoundWithOptions, error)
	CloseRound(ctx context.Context, roundID string) (models.CloseRoundResponse, error)
	SubmitVote(ctx context.Context, roundID, optionID, voterID string) (models.SubmitVoteResponse, error)
	GetResults(ctx context.Context, roundID string) ([]models.OptionResult, error)
}

var _ RoundService = (*coordinator.Coordinator)(nil)
