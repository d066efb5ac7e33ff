// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/voteledger/roundvote/middleware"
)

type ResultsHandler struct {
	svc RoundService
}

func NewResultsHandler(svc RoundService) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetResults handles GET /rounds/{id}/results
// Returns one row per option, most votes first. Open rounds are not sealed.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round_id is required")
		return
	}

	results, err := h.svc.GetResults(r.Context(), roundID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
