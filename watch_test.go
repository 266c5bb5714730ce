package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"umiko/keys"
)

type scriptedKeys struct {
	mu    sync.Mutex
	state map[keys.Code]keys.State
	fail  map[keys.Code]error
}

func (s *scriptedKeys) query(code keys.Code) (keys.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[code]; ok {
		return keys.Idle, err
	}
	return s.state[code], nil
}

func (s *scriptedKeys) set(code keys.Code, st keys.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[code] = st
}

func waitLines(t *testing.T, sink *recordSink, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		lines := sink.snapshot()
		if len(lines) >= n {
			return lines
		}
		if time.Now().After(deadline) {
			t.Fatalf("got %d events, want %d: %q", len(lines), n, lines)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWatchReportsChangesOnly(t *testing.T) {
	ks := &scriptedKeys{state: map[keys.Code]keys.State{keys.CapsLock: keys.Locked}}
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchKeys(ctx, ks.query, []keys.Code{keys.CapsLock}, sink)
		close(done)
	}()

	waitLines(t, sink, 1)
	time.Sleep(3 * watchInterval)
	ks.set(keys.CapsLock, keys.PressedAndLocked)
	lines := waitLines(t, sink, 2)
	cancel()
	<-done

	if lines[0] != "key CapsLock locked" || lines[1] != "key CapsLock pressed+locked" {
		t.Errorf("events = %q", lines)
	}
	if got := len(sink.snapshot()); got != 2 {
		t.Errorf("unchanged state reported again: %d events", got)
	}
}

func TestWatchDropsUnreadableKey(t *testing.T) {
	ks := &scriptedKeys{
		state: map[keys.Code]keys.State{},
		fail:  map[keys.Code]error{keys.ScrollLock: keys.ErrUnsupported},
	}
	sink := &recordSink{}
	done := make(chan struct{})
	go func() {
		watchKeys(context.Background(), ks.query, []keys.Code{keys.ScrollLock}, sink)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch kept polling with no readable key")
	}
	lines := sink.snapshot()
	if len(lines) != 1 || lines[0] != "status cannot watch ScrollLock: "+keys.ErrUnsupported.Error() {
		t.Errorf("events = %q", lines)
	}
}
