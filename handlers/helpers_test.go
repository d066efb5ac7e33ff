// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"testing"

	"github.com/voteledger/roundvote/coordinator"
	"github.com/voteledger/roundvote/ledger"
	"github.com/voteledger/roundvote/models"
	"github.com/voteledger/roundvote/testutil"
)

func setupService(t *testing.T) (*coordinator.Coordinator, *ledger.Store, *testutil.RecordingSink) {
	t.Helper()
	store, _, cfg := testutil.SetupTestStore(t)
	sink := &testutil.RecordingSink{}
	return coordinator.New(store, sink, coordinator.Config{Timeout: cfg.StoreTimeout}), store, sink
}

func createRound(t *testing.T, svc RoundService, name string, labels ...string) models.CreateRoundResponse {
	t.Helper()
	resp, err := svc.CreateRound(context.Background(), name, labels)
	if err != nil {
		t.Fatalf("Failed to create round: %v", err)
	}
	return resp
}
