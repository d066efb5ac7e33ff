// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import "sync"

// SinkEvent is one call observed by RecordingSink
type SinkEvent struct {
	Kind        string // vote_accepted, round_opened, round_closed
	RoundID     string
	RoundName   string
	OptionID    string
	OptionLabel string
}

// RecordingSink captures sink calls for assertions. Safe for concurrent use.
type RecordingSink struct {
	mu     sync.Mutex
	events []SinkEvent
}

func (s *RecordingSink) OnVoteAccepted(roundID, roundName, optionID, optionLabel string) {
	s.record(SinkEvent{Kind: "vote_accepted", RoundID: roundID, RoundName: roundName, OptionID: optionID, OptionLabel: optionLabel})
}

func (s *RecordingSink) OnRoundOpened(roundID string) {
	s.record(SinkEvent{Kind: "round_opened", RoundID: roundID})
}

func (s *RecordingSink) OnRoundClosed(roundID string) {
	s.record(SinkEvent{Kind: "round_closed", RoundID: roundID})
}

func (s *RecordingSink) record(e SinkEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Events returns a copy of everything recorded so far
func (s *RecordingSink) Events() []SinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SinkEvent(nil), s.events...)
}

// Count returns how many events of kind were recorded
func (s *RecordingSink) Count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// PanicSink panics on every call
type PanicSink struct{}

func (PanicSink) OnVoteAccepted(roundID, roundName, optionID, optionLabel string) {
	panic("sink down")
}
func (PanicSink) OnRoundOpened(roundID string) { panic("sink down") }
func (PanicSink) OnRoundClosed(roundID string) { panic("sink down") }
