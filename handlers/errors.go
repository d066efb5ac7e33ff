// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/voteledger/roundvote/ledger"
	"github.com/voteledger/roundvote/middleware"
)

// statusFor maps a ledger error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrRoundNotFound), errors.Is(err, ledger.ErrOptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrRoundClosed), errors.Is(err, ledger.ErrDuplicateVote):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrStorageUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError sends the typed error body. Storage details stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := ledger.Code(err)
	if errors.Is(err, context.DeadlineExceeded) && code == "internal_error" {
		code = "storage_unavailable"
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "Temporarily unable to complete the request"
	}

	middleware.ErrorCodeResponse(w, status, code, message)
}
