// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voteledger/roundvote/auth"
	"github.com/voteledger/roundvote/ledger"
	"github.com/voteledger/roundvote/metrics"
	"github.com/voteledger/roundvote/models"
)

// RoundStore persists rounds and their lifecycle
type RoundStore interface {
	CreateRound(ctx context.Context, name string, labels []string) (models.Round, []models.Option, error)
	GetRound(ctx context.Context, id string) (models.Round, error)
	CloseRound(ctx context.Context, id string) (bool, error)
	ListOpenRounds(ctx context.Context) ([]models.Round, error)
}

// OptionStore reads the options of a round
type OptionStore interface {
	ListOptions(ctx context.Context, roundID string) ([]models.Option, error)
}

// VoteLedger decides whether a vote is accepted
type VoteLedger interface {
	RecordVote(ctx context.Context, roundID, optionID, voterID string) (models.VoteReceipt, error)
}

// Aggregator tallies a round
type Aggregator interface {
	Results(ctx context.Context, roundID string) ([]models.OptionResult, error)
}

// Store is everything the coordinator needs from persistence.
// *ledger.Store satisfies it.
type Store interface {
	RoundStore
	OptionStore
	VoteLedger
	Aggregator
}

var _ Store = (*ledger.Store)(nil)

// Config tunes a Coordinator. Zero values are usable.
type Config struct {
	// Timeout bounds each store operation; zero means no extra bound
	Timeout time.Duration
	// VoterSalt, when set, stores voter tokens as HMAC digests
	VoterSalt string
	Logger    *slog.Logger
}

// Coordinator orchestrates the ledger and the observability sink. It
// holds no round state of its own.
type Coordinator struct {
	store   Store
	sink    metrics.Sink
	timeout time.Duration
	salt    string
	log     *slog.Logger
	now     func() time.Time
}

// New creates a coordinator. A nil sink is replaced by metrics.Nop.
func New(store Store, sink metrics.Sink, cfg Config) *Coordinator {
	if sink == nil {
		sink = metrics.Nop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:   store,
		sink:    sink,
		timeout: cfg.Timeout,
		salt:    cfg.VoterSalt,
		log:     logger,
		now:     time.Now,
	}
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// normalizeID trims an entity ID; a blank one is invalid input
func normalizeID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s is required", ledger.ErrInvalidInput, field)
	}
	return id, nil
}

// notify runs a sink call; a panicking sink is logged and swallowed
func (c *Coordinator) notify(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("observability sink failed", "event", event, "panic", r)
		}
	}()
	fn()
}

// CreateRound validates the labels, persists the round and announces it.
// An empty name defaults to "Round <RFC3339 timestamp>".
func (c *Coordinator) CreateRound(ctx context.Context, name string, labels []string) (models.CreateRoundResponse, error) {
	if len(labels) == 0 {
		return models.CreateRoundResponse{}, fmt.Errorf("%w: at least one option is required", ledger.ErrInvalidInput)
	}

	cleaned := make([]string, len(labels))
	for i, label := range labels {
		cleaned[i] = strings.TrimSpace(label)
		if cleaned[i] == "" {
			return models.CreateRoundResponse{}, fmt.Errorf("%w: option %d is blank", ledger.ErrInvalidInput, i+1)
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Round " + c.now().UTC().Format(time.RFC3339)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	round, options, err := c.store.CreateRound(ctx, name, cleaned)
	if err != nil {
		c.log.Error("failed to create round", "error", err)
		return models.CreateRoundResponse{}, err
	}

	c.notify("round_opened", func() { c.sink.OnRoundOpened(round.ID) })

	c.log.Info("round created", "round_id", round.ID, "options", len(options))

	return models.CreateRoundResponse{
		RoundID: round.ID,
		Name:    round.Name,
		Options: options,
	}, nil
}

// SubmitVote records one vote. Rejections come back as the ledger's
// sentinel errors; only accepted votes reach the sink.
func (c *Coordinator) SubmitVote(ctx context.Context, roundID, optionID, voterID string) (models.SubmitVoteResponse, error) {
	roundID, err := normalizeID("round_id", roundID)
	if err != nil {
		return models.SubmitVoteResponse{}, err
	}
	optionID, err = normalizeID("option_id", optionID)
	if err != nil {
		return models.SubmitVoteResponse{}, err
	}

	voterID, err = auth.NormalizeVoterToken(voterID)
	if err != nil {
		return models.SubmitVoteResponse{}, fmt.Errorf("%w: %v", ledger.ErrInvalidInput, err)
	}
	if c.salt != "" {
		voterID = auth.HashVoterToken(voterID, c.salt)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	receipt, err := c.store.RecordVote(ctx, roundID, optionID, voterID)
	if err != nil {
		if errors.Is(err, ledger.ErrStorageUnavailable) {
			c.log.Error("failed to record vote", "round_id", roundID, "error", err)
		} else {
			c.log.Debug("vote rejected", "round_id", roundID, "option_id", optionID, "reason", ledger.Code(err))
		}
		return models.SubmitVoteResponse{}, err
	}

	c.notify("vote_accepted", func() {
		c.sink.OnVoteAccepted(receipt.Vote.RoundID, receipt.RoundName, receipt.Vote.OptionID, receipt.OptionLabel)
	})

	c.log.Info("vote accepted", "round_id", roundID, "option_id", optionID, "vote_id", receipt.Vote.ID)

	return models.SubmitVoteResponse{Accepted: true, VoteID: receipt.Vote.ID}, nil
}

// CloseRound ends a round. Closed is true only for the call that performed
// the transition, but the sink hears about every close of an existing round.
func (c *Coordinator) CloseRound(ctx context.Context, roundID string) (models.CloseRoundResponse, error) {
	roundID, err := normalizeID("round_id", roundID)
	if err != nil {
		return models.CloseRoundResponse{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	closed, err := c.store.CloseRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, ledger.ErrStorageUnavailable) {
			c.log.Error("failed to close round", "round_id", roundID, "error", err)
		}
		return models.CloseRoundResponse{}, err
	}

	c.notify("round_closed", func() { c.sink.OnRoundClosed(roundID) })

	if closed {
		c.log.Info("round closed", "round_id", roundID)
	}

	return models.CloseRoundResponse{Closed: closed}, nil
}

// GetResults returns the tally of a round, most votes first
func (c *Coordinator) GetResults(ctx context.Context, roundID string) ([]models.OptionResult, error) {
	roundID, err := normalizeID("round_id", roundID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	results, err := c.store.Results(ctx, roundID)
	if err != nil {
		if errors.Is(err, ledger.ErrStorageUnavailable) {
			c.log.Error("failed to get results", "round_id", roundID, "error", err)
		}
		return nil, err
	}
	return results, nil
}

// GetRound returns a round with its options and derived status
func (c *Coordinator) GetRound(ctx context.Context, roundID string) (models.RoundWithOptions, error) {
	roundID, err := normalizeID("round_id", roundID)
	if err != nil {
		return models.RoundWithOptions{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	round, err := c.store.GetRound(ctx, roundID)
	if err != nil {
		return models.RoundWithOptions{}, err
	}

	options, err := c.store.ListOptions(ctx, roundID)
	if err != nil {
		c.log.Error("failed to list options", "round_id", roundID, "error", err)
		return models.RoundWithOptions{}, err
	}

	return models.RoundWithOptions{
		Round:   round,
		Status:  round.Status(),
		Options: options,
	}, nil
}

// RestoreOpenRounds re-announces every open round, so gauges kept by the
// sink survive a process restart. It returns the number of rounds found.
func (c *Coordinator) RestoreOpenRounds(ctx context.Context) (int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rounds, err := c.store.ListOpenRounds(ctx)
	if err != nil {
		return 0, err
	}

	for _, round := range rounds {
		id := round.ID
		c.notify("round_opened", func() { c.sink.OnRoundOpened(id) })
	}

	c.log.Info("restored open rounds", "count", len(rounds))
	return len(rounds), nil
}
