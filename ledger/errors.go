// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"fmt"
)

// Input errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrRoundNotFound  = errors.New("round not found")
	ErrOptionNotFound = errors.New("option not found")
)

// State-conflict errors
var (
	ErrRoundClosed   = errors.New("round is closed")
	ErrDuplicateVote = errors.New("voter already voted in this round")
)

// ErrStorageUnavailable matches every *StorageError.
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageError wraps a driver or connection failure. The ledger does not
// retry; read-only callers may.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Code returns the stable machine-readable name of a ledger error
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrRoundNotFound):
		return "round_not_found"
	case errors.Is(err, ErrOptionNotFound):
		return "option_not_found"
	case errors.Is(err, ErrRoundClosed):
		return "round_closed"
	case errors.Is(err, ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage_unavailable"
	}
	return "internal_error"
}
