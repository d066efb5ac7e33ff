// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/voteledger/roundvote/coordinator"
	"github.com/voteledger/roundvote/ledger"
	"github.com/voteledger/roundvote/models"
	"github.com/voteledger/roundvote/testutil"
)

func setup(t *testing.T) (*coordinator.Coordinator, *ledger.Store, *testutil.RecordingSink) {
	t.Helper()
	store, _, cfg := testutil.SetupTestStore(t)
	sink := &testutil.RecordingSink{}
	coord := coordinator.New(store, sink, coordinator.Config{Timeout: cfg.StoreTimeout})
	return coord, store, sink
}

func createPizza(t *testing.T, coord *coordinator.Coordinator) models.CreateRoundResponse {
	t.Helper()
	resp, err := coord.CreateRound(context.Background(), "Pizza", []string{"Pepperoni", "Veggie"})
	if err != nil {
		t.Fatalf("CreateRound() error = %v", err)
	}
	return resp
}

func TestCreateRound(t *testing.T) {
	coord, _, sink := setup(t)
	ctx := context.Background()

	resp, err := coord.CreateRound(ctx, "  Lunch  ", []string{" Tacos ", "Sushi"})
	if err != nil {
		t.Fatalf("CreateRound() error = %v", err)
	}

	if resp.RoundID == "" {
		t.Error("Expected round ID")
	}
	if resp.Name != "Lunch" {
		t.Errorf("Name = %q, want %q", resp.Name, "Lunch")
	}
	if len(resp.Options) != 2 || resp.Options[0].Label != "Tacos" || resp.Options[1].Label != "Sushi" {
		t.Errorf("Unexpected options: %+v", resp.Options)
	}

	events := sink.Events()
	if len(events) != 1 || events[0].Kind != "round_opened" || events[0].RoundID != resp.RoundID {
		t.Errorf("Unexpected sink events: %+v", events)
	}
}

func TestCreateRoundDefaultName(t *testing.T) {
	coord, _, _ := setup(t)

	resp, err := coord.CreateRound(context.Background(), "", []string{"A"})
	if err != nil {
		t.Fatalf("CreateRound() error = %v", err)
	}

	stamp, ok := strings.CutPrefix(resp.Name, "Round ")
	if !ok {
		t.Fatalf("Name = %q, want \"Round <timestamp>\"", resp.Name)
	}
	if _, err := time.Parse(time.RFC3339, stamp); err != nil {
		t.Errorf("Name timestamp %q is not RFC3339: %v", stamp, err)
	}
}

func TestCreateRoundInvalid(t *testing.T) {
	coord, _, sink := setup(t)

	tests := []struct {
		name   string
		labels []string
	}{
		{"nil options", nil},
		{"empty options", []string{}},
		{"blank label", []string{"A", "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coord.CreateRound(context.Background(), "Bad", tt.labels)
			if !errors.Is(err, ledger.ErrInvalidInput) {
				t.Errorf("CreateRound() error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if n := len(sink.Events()); n != 0 {
		t.Errorf("Expected no sink events, got %d", n)
	}
}

// Two distinct voters pick Pepperoni; zero-vote options still appear
func TestTallyDistinctVoters(t *testing.T) {
	coord, _, sink := setup(t)
	ctx := context.Background()
	round := createPizza(t, coord)
	pepperoni := round.Options[0]

	for _, voter := range []string{"alice", "bob"} {
		resp, err := coord.SubmitVote(ctx, round.RoundID, pepperoni.ID, voter)
		if err != nil {
			t.Fatalf("SubmitVote(%s) error = %v", voter, err)
		}
		if !resp.Accepted || resp.VoteID == "" {
			t.Errorf("SubmitVote(%s) = %+v, want accepted", voter, resp)
		}
	}

	results, err := coord.GetResults(ctx, round.RoundID)
	if err != nil {
		t.Fatalf("GetResults() error = %v", err)
	}

	want := []struct {
		label string
		votes int
	}{{"Pepperoni", 2}, {"Veggie", 0}}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, w := range want {
		if results[i].Label != w.label || results[i].Votes != w.votes {
			t.Errorf("results[%d] = %+v, want %s:%d", i, results[i], w.label, w.votes)
		}
	}

	if n := sink.Count("vote_accepted"); n != 2 {
		t.Errorf("Expected 2 vote_accepted events, got %d", n)
	}
	for _, e := range sink.Events() {
		if e.Kind == "vote_accepted" && (e.RoundName != "Pizza" || e.OptionLabel != "Pepperoni" || e.OptionID != pepperoni.ID) {
			t.Errorf("Unexpected vote event: %+v", e)
		}
	}
}

// Same voter twice in the same round
func TestDuplicateVoterRejected(t *testing.T) {
	coord, _, sink := setup(t)
	ctx := context.Background()
	round := createPizza(t, coord)

	if _, err := coord.SubmitVote(ctx, round.RoundID, round.Options[0].ID, "carol"); err != nil {
		t.Fatalf("First vote error = %v", err)
	}

	_, err := coord.SubmitVote(ctx, round.RoundID, round.Options[1].ID, "carol")
	if !errors.Is(err, ledger.ErrDuplicateVote) {
		t.Fatalf("Second vote error = %v, want ErrDuplicateVote", err)
	}

	results, _ := coord.GetResults(ctx, round.RoundID)
	total := 0
	for _, r := range results {
		total += r.Votes
	}
	if total != 1 {
		t.Errorf("Expected 1 vote total, got %d", total)
	}

	if n := sink.Count("vote_accepted"); n != 1 {
		t.Errorf("Rejected vote reached the sink: %d events", n)
	}
}

// Vote after close, then a second close
func TestVoteAfterCloseRejected(t *testing.T) {
	coord, _, sink := setup(t)
	ctx := context.Background()
	round := createPizza(t, coord)

	resp, err := coord.CloseRound(ctx, round.RoundID)
	if err != nil {
		t.Fatalf("CloseRound() error = %v", err)
	}
	if !resp.Closed {
		t.Error("First close should report closed=true")
	}

	_, err = coord.SubmitVote(ctx, round.RoundID, round.Options[0].ID, "dave")
	if !errors.Is(err, ledger.ErrRoundClosed) {
		t.Errorf("SubmitVote() error = %v, want ErrRoundClosed", err)
	}

	resp, err = coord.CloseRound(ctx, round.RoundID)
	if err != nil {
		t.Fatalf("Second CloseRound() error = %v", err)
	}
	if resp.Closed {
		t.Error("Second close should report closed=false")
	}

	// Every close is published, transition or not
	if n := sink.Count("round_closed"); n != 2 {
		t.Errorf("Expected 2 round_closed events, got %d", n)
	}
}

// Option from another round
func TestOptionFromOtherRound(t *testing.T) {
	coord, _, _ := setup(t)
	ctx := context.Background()
	pizza := createPizza(t, coord)
	other, err := coord.CreateRound(ctx, "Drinks", []string{"Cola"})
	if err != nil {
		t.Fatalf("CreateRound() error = %v", err)
	}

	_, err = coord.SubmitVote(ctx, pizza.RoundID, other.Options[0].ID, "erin")
	if !errors.Is(err, ledger.ErrOptionNotFound) {
		t.Errorf("SubmitVote() error = %v, want ErrOptionNotFound", err)
	}
}

func TestSubmitVoteRejections(t *testing.T) {
	coord, _, _ := setup(t)
	round := createPizza(t, coord)
	optionID := round.Options[0].ID

	tests := []struct {
		name     string
		roundID  string
		optionID string
		voterID  string
		wantErr  error
	}{
		{"missing round id", "", optionID, "v", ledger.ErrInvalidInput},
		{"missing option id", round.RoundID, "", "v", ledger.ErrInvalidInput},
		{"unknown round", "no-such-round", optionID, "v", ledger.ErrRoundNotFound},
		{"unknown option", round.RoundID, "no-such-option", "v", ledger.ErrOptionNotFound},
		{"oversized token", round.RoundID, optionID, strings.Repeat("x", 1000), ledger.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coord.SubmitVote(context.Background(), tt.roundID, tt.optionID, tt.voterID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SubmitVote() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnonymousVotesUnlimited(t *testing.T) {
	coord, _, _ := setup(t)
	ctx := context.Background()
	round := createPizza(t, coord)

	for i := 0; i < 3; i++ {
		if _, err := coord.SubmitVote(ctx, round.RoundID, round.Options[1].ID, "  "); err != nil {
			t.Fatalf("Anonymous vote %d error = %v", i, err)
		}
	}

	results, _ := coord.GetResults(ctx, round.RoundID)
	if results[0].Label != "Veggie" || results[0].Votes != 3 {
		t.Errorf("results[0] = %+v, want Veggie:3", results[0])
	}
}

func TestVoterSaltHashesToken(t *testing.T) {
	store, conn, _ := testutil.SetupTestStore(t)
	coord := coordinator.New(store, nil, coordinator.Config{VoterSalt: "pepper"})
	ctx := context.Background()
	round := createPizza(t, coord)

	if _, err := coord.SubmitVote(ctx, round.RoundID, round.Options[0].ID, "frank"); err != nil {
		t.Fatalf("SubmitVote() error = %v", err)
	}

	var stored string
	if err := conn.QueryRowContext(ctx, `SELECT voter_id FROM votes WHERE round_id = $1`, round.RoundID).Scan(&stored); err != nil {
		t.Fatalf("Failed to read vote: %v", err)
	}
	if stored == "frank" || len(stored) != 64 {
		t.Errorf("Stored voter_id = %q, want a digest", stored)
	}

	// Dedup still applies to the digest
	_, err := coord.SubmitVote(ctx, round.RoundID, round.Options[1].ID, "frank")
	if !errors.Is(err, ledger.ErrDuplicateVote) {
		t.Errorf("Repeat vote error = %v, want ErrDuplicateVote", err)
	}
}

func TestCloseRoundNotFound(t *testing.T) {
	coord, _, sink := setup(t)

	_, err := coord.CloseRound(context.Background(), "no-such-round")
	if !errors.Is(err, ledger.ErrRoundNotFound) {
		t.Errorf("CloseRound() error = %v, want ErrRoundNotFound", err)
	}
	if n := sink.Count("round_closed"); n != 0 {
		t.Errorf("Expected no round_closed events, got %d", n)
	}
}

func TestGetRound(t *testing.T) {
	coord, _, _ := setup(t)
	ctx := context.Background()
	round := createPizza(t, coord)

	got, err := coord.GetRound(ctx, round.RoundID)
	if err != nil {
		t.Fatalf("GetRound() error = %v", err)
	}
	if got.Status != models.StatusOpen || got.Round.Name != "Pizza" || len(got.Options) != 2 {
		t.Errorf("Unexpected round: %+v", got)
	}

	coord.CloseRound(ctx, round.RoundID)

	got, _ = coord.GetRound(ctx, round.RoundID)
	if got.Status != models.StatusClosed || got.Round.EndedAt == nil {
		t.Errorf("Expected closed round, got %+v", got)
	}

	if _, err := coord.GetRound(ctx, "no-such-round"); !errors.Is(err, ledger.ErrRoundNotFound) {
		t.Errorf("GetRound() error = %v, want ErrRoundNotFound", err)
	}
}

func TestGetResultsNotFound(t *testing.T) {
	coord, _, _ := setup(t)

	if _, err := coord.GetResults(context.Background(), "no-such-round"); !errors.Is(err, ledger.ErrRoundNotFound) {
		t.Errorf("GetResults() error = %v, want ErrRoundNotFound", err)
	}
}

// Every operation trims round IDs the same way and rejects blank ones
func TestRoundIDsTrimmed(t *testing.T) {
	coord, _, _ := setup(t)
	ctx := context.Background()
	round := createPizza(t, coord)
	padded := "  " + round.RoundID + "\t"

	if _, err := coord.SubmitVote(ctx, padded, " "+round.Options[0].ID+" ", "hank"); err != nil {
		t.Fatalf("SubmitVote() with padded IDs error = %v", err)
	}

	got, err := coord.GetRound(ctx, padded)
	if err != nil {
		t.Fatalf("GetRound() with padded ID error = %v", err)
	}
	if got.Round.ID != round.RoundID {
		t.Errorf("GetRound() id = %q, want %q", got.Round.ID, round.RoundID)
	}

	results, err := coord.GetResults(ctx, padded)
	if err != nil {
		t.Fatalf("GetResults() with padded ID error = %v", err)
	}
	if results[0].Votes != 1 {
		t.Errorf("results[0].Votes = %d, want 1", results[0].Votes)
	}

	closed, err := coord.CloseRound(ctx, padded)
	if err != nil || !closed.Closed {
		t.Fatalf("CloseRound() with padded ID = %+v, %v; want closed", closed, err)
	}

	blank := []struct {
		name string
		call func() error
	}{
		{"submit", func() error { _, err := coord.SubmitVote(ctx, "  ", round.Options[0].ID, ""); return err }},
		{"get round", func() error { _, err := coord.GetRound(ctx, "  "); return err }},
		{"results", func() error { _, err := coord.GetResults(ctx, "  "); return err }},
		{"close", func() error { _, err := coord.CloseRound(ctx, "  "); return err }},
	}
	for _, tt := range blank {
		t.Run("blank "+tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ledger.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSinkPanicDoesNotFailOperations(t *testing.T) {
	store, _, _ := testutil.SetupTestStore(t)
	coord := coordinator.New(store, testutil.PanicSink{}, coordinator.Config{})
	ctx := context.Background()

	round := createPizza(t, coord)

	resp, err := coord.SubmitVote(ctx, round.RoundID, round.Options[0].ID, "gina")
	if err != nil || !resp.Accepted {
		t.Fatalf("SubmitVote() = %+v, %v; want accepted", resp, err)
	}

	closed, err := coord.CloseRound(ctx, round.RoundID)
	if err != nil || !closed.Closed {
		t.Fatalf("CloseRound() = %+v, %v; want closed", closed, err)
	}

	// The vote was not rolled back
	count, err := store.CountVotes(ctx, round.RoundID)
	if err != nil {
		t.Fatalf("CountVotes() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote, got %d", count)
	}
}

func TestRestoreOpenRounds(t *testing.T) {
	store, _, _ := testutil.SetupTestStore(t)
	open, _ := testutil.CreateTestRound(t, store, "Open", "A")
	closed, _ := testutil.CreateTestRound(t, store, "Closed", "A")
	testutil.CloseTestRound(t, store, closed.ID)

	sink := &testutil.RecordingSink{}
	coord := coordinator.New(store, sink, coordinator.Config{})

	n, err := coord.RestoreOpenRounds(context.Background())
	if err != nil {
		t.Fatalf("RestoreOpenRounds() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Restored %d rounds, want 1", n)
	}

	events := sink.Events()
	if len(events) != 1 || events[0].Kind != "round_opened" || events[0].RoundID != open.ID {
		t.Errorf("Unexpected sink events: %+v", events)
	}
}

func TestConcurrentDuplicateSubmit(t *testing.T) {
	coord, _, sink := setup(t)
	round := createPizza(t, coord)

	const attempts = 10
	var wg sync.WaitGroup
	var accepted, duplicates atomic.Int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			optionID := round.Options[i%2].ID
			_, err := coord.SubmitVote(context.Background(), round.RoundID, optionID, "same-voter")
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ledger.ErrDuplicateVote):
				duplicates.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted vote, got %d", accepted.Load())
	}
	if duplicates.Load() != attempts-1 {
		t.Errorf("Expected %d duplicates, got %d", attempts-1, duplicates.Load())
	}
	if n := sink.Count("vote_accepted"); n != 1 {
		t.Errorf("Expected 1 vote_accepted event, got %d", n)
	}
}

// Votes starting after a successful close are always rejected
func TestNoVotesAfterClose(t *testing.T) {
	coord, _, _ := setup(t)
	ctx := context.Background()
	round := createPizza(t, coord)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coord.SubmitVote(ctx, round.RoundID, round.Options[0].ID, fmt.Sprintf("early-%d", i))
		}(i)
	}

	resp, err := coord.CloseRound(ctx, round.RoundID)
	if err != nil || !resp.Closed {
		t.Fatalf("CloseRound() = %+v, %v", resp, err)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		_, err := coord.SubmitVote(ctx, round.RoundID, round.Options[0].ID, fmt.Sprintf("late-%d", i))
		if !errors.Is(err, ledger.ErrRoundClosed) {
			t.Errorf("Late vote %d error = %v, want ErrRoundClosed", i, err)
		}
	}
}

// blockingStore waits for the context on every call
type blockingStore struct{ *ledger.Store }

func (blockingStore) Results(ctx context.Context, roundID string) ([]models.OptionResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestOperationTimeout(t *testing.T) {
	store, _, _ := testutil.SetupTestStore(t)
	coord := coordinator.New(blockingStore{store}, nil, coordinator.Config{Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := coord.GetResults(context.Background(), "any")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GetResults() error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("GetResults() took %v, timeout not applied", elapsed)
	}
}
