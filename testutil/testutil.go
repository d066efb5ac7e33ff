// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/voteledger/roundvote/cliparse"
	"github.com/voteledger/roundvote/db"
	"github.com/voteledger/roundvote/ledger"
	"github.com/voteledger/roundvote/models"
)

// GetTestConfig returns a standard test configuration.
// TEST_DATABASE_URL (and TEST_DATABASE_TYPE, default postgres) switch the
// suite to a real Postgres; otherwise each test gets its own SQLite file.
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()

	cfg := cliparse.Defaults()
	cfg.StoreTimeout = 10 * time.Second

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
		cfg.DatabaseType = cliparse.DatabasePostgres
		if typ := os.Getenv("TEST_DATABASE_TYPE"); typ != "" {
			cfg.DatabaseType = typ
		}
		return cfg
	}

	cfg.DatabaseType = cliparse.DatabaseSQLite
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "roundvote.db")
	return cfg
}

// SetupTestDB opens a fresh database with the full schema. The
// connection is closed when the test ends.
func SetupTestDB(t *testing.T) (*sql.DB, cliparse.Config) {
	t.Helper()

	cfg := GetTestConfig(t)
	ctx := context.Background()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Shared Postgres: clean up tables before each test
	if db.IsPostgres(cfg.DatabaseType) {
		if err := db.DropSchema(ctx, conn); err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
	}

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn, cfg
}

// SetupTestStore is SetupTestDB wrapped in a ledger.Store
func SetupTestStore(t *testing.T) (*ledger.Store, *sql.DB, cliparse.Config) {
	t.Helper()

	conn, cfg := SetupTestDB(t)
	return ledger.NewStore(conn, cfg.DatabaseType), conn, cfg
}

// CreateTestRound creates a round and returns it with its options
func CreateTestRound(t *testing.T, store *ledger.Store, name string, labels ...string) (models.Round, []models.Option) {
	t.Helper()

	round, options, err := store.CreateRound(context.Background(), name, labels)
	if err != nil {
		t.Fatalf("Failed to create test round: %v", err)
	}
	return round, options
}

// CloseTestRound closes a round and fails the test if it was already closed
func CloseTestRound(t *testing.T, store *ledger.Store, roundID string) {
	t.Helper()

	closed, err := store.CloseRound(context.Background(), roundID)
	if err != nil {
		t.Fatalf("Failed to close test round: %v", err)
	}
	if !closed {
		t.Fatalf("Round %s was already closed", roundID)
	}
}

// CastTestVote records a vote and returns its ID
func CastTestVote(t *testing.T, store *ledger.Store, roundID, optionID, voterID string) string {
	t.Helper()

	receipt, err := store.RecordVote(context.Background(), roundID, optionID, voterID)
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	return receipt.Vote.ID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
