package main

import (
	"fmt"
	"io"
	"sync"

	"umiko/keys"
)

// EventSink abstracts the display layer so both the Bubble Tea TUI
// and plain line output receive the same session events.
type EventSink interface {
	Bound(label, combo string)
	BindFailed(combo string, err error)
	Fired(label, combo string, count int)
	KeyState(key keys.Code, state keys.State)
	Status(text string)
}

// lineSink writes one line per event. It is used without a terminal and
// in -test mode, where the integration tests read stdout.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *lineSink) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", args...)
}

func (s *lineSink) Bound(label, combo string) { s.printf("bound %s %s", combo, label) }

func (s *lineSink) BindFailed(combo string, err error) {
	s.printf("bind failed %s: %v", combo, err)
}

func (s *lineSink) Fired(label, combo string, count int) {
	s.printf("fired %s %s #%d", combo, label, count)
}

func (s *lineSink) KeyState(key keys.Code, state keys.State) {
	s.printf("key %v %v", key, state)
}

func (s *lineSink) Status(text string) { s.printf("%s", text) }
