// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

// Sink receives round lifecycle and vote events. Calls are fire-and-forget:
// implementations must not block and callers never inspect a result.
type Sink interface {
	OnVoteAccepted(roundID, roundName, optionID, optionLabel string)
	OnRoundOpened(roundID string)
	OnRoundClosed(roundID string)
}

// Nop discards every event
type Nop struct{}

func (Nop) OnVoteAccepted(roundID, roundName, optionID, optionLabel string) {}
func (Nop) OnRoundOpened(roundID string)                                    {}
func (Nop) OnRoundClosed(roundID string)                                    {}

var _ Sink = Nop{}
