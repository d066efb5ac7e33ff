// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/voteledger/roundvote/middleware"
	"github.com/voteledger/roundvote/models"
)

type RoundHandler struct {
	svc RoundService
}

func NewRoundHandler(svc RoundService) *RoundHandler {
	return &RoundHandler{svc: svc}
}

// CreateRound handles POST /rounds
func (h *RoundHandler) CreateRound(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoundRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.CreateRound(r.Context(), req.Name, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// GetRound handles GET /rounds/{id}
func (h *RoundHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round_id is required")
		return
	}

	round, err := h.svc.GetRound(r.Context(), roundID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, round)
}

// CloseRound handles POST /rounds/{id}/close
// Closing an already closed round is not an error; closed is false.
func (h *RoundHandler) CloseRound(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round_id is required")
		return
	}

	resp, err := h.svc.CloseRound(r.Context(), roundID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
