// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/voteledger/roundvote/handlers"
	"github.com/voteledger/roundvote/middleware"
)

// NewRouter wires every endpoint. metricsHandler may be nil, in which case
// /metrics is not served.
func NewRouter(svc handlers.RoundService, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roundHandler := handlers.NewRoundHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)
	resultsHandler := handlers.NewResultsHandler(svc)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
	})

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Round lifecycle
	mux.HandleFunc("POST /rounds", middleware.WithLogging(roundHandler.CreateRound))
	mux.HandleFunc("GET /rounds/{id}", middleware.WithLogging(roundHandler.GetRound))
	mux.HandleFunc("POST /rounds/{id}/close", middleware.WithLogging(roundHandler.CloseRound))

	// Voting
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("POST /rounds/{id}/votes", middleware.WithLogging(votingHandler.SubmitRoundVote))

	// Results
	mux.HandleFunc("GET /rounds/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("roundvote API v1"))
	})

	return mux
}
