// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/voteledger/roundvote/middleware"
	"github.com/voteledger/roundvote/models"
)

// VoterHeader carries the optional voter token
const VoterHeader = "X-Voter-Id"

type VotingHandler struct {
	svc RoundService
}

func NewVotingHandler(svc RoundService) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// SubmitVote handles POST /vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.submit(w, r, req)
}

// SubmitRoundVote handles POST /rounds/{id}/votes
func (h *VotingHandler) SubmitRoundVote(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round_id is required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.RoundID != "" && req.RoundID != roundID {
		middleware.ErrorCodeResponse(w, http.StatusBadRequest, "invalid_input", "round_id does not match path")
		return
	}
	req.RoundID = roundID

	h.submit(w, r, req)
}

func (h *VotingHandler) submit(w http.ResponseWriter, r *http.Request, req models.SubmitVoteRequest) {
	// A non-blank header wins over body
	voterID := req.VoterID
	if v := r.Header.Get(VoterHeader); strings.TrimSpace(v) != "" {
		voterID = v
	}

	resp, err := h.svc.SubmitVote(r.Context(), req.RoundID, req.OptionID, voterID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
