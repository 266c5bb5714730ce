package main

import (
	"context"
	"errors"

	"umiko/cue"
	"umiko/hotkey"
	"umiko/log"
	"umiko/shortcut"
)

// session owns the manager for one run. Everything except run and stop
// is called from the goroutine that calls run, or before it.
type session struct {
	m      *hotkey.Manager
	sink   EventSink
	binds  []*binding
	fired  int
	ctx    context.Context
	cancel context.CancelFunc

	// dispatched, if set, runs after every shortcut callback, quit included.
	dispatched func()
}

func newSession(m *hotkey.Manager, sink EventSink) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{m: m, sink: sink, ctx: ctx, cancel: cancel}
}

// bind registers b. A failed binding is reported and skipped; it is not
// fatal to the session.
func (s *session) bind(b *binding) bool {
	combo := b.Shortcut.String()
	id, err := s.m.Add(b.Shortcut.Modifiers, b.Shortcut.Code, func(*hotkey.Manager) {
		s.fire(b)
	})
	if err != nil {
		log.Warnf("bind %s: %v", combo, err)
		s.sink.BindFailed(combo, err)
		cue.Play(cue.Failed)
		return false
	}
	b.ID = id
	s.binds = append(s.binds, b)
	log.Registered(int(id), combo, b.Label)
	s.sink.Bound(b.Label, combo)
	return true
}

func (s *session) fire(b *binding) {
	s.fired++
	b.Count++
	cue.Play(cue.Fired)
	log.Fired(int(b.ID), b.Shortcut.String(), b.Label)
	s.sink.Fired(b.Label, b.Shortcut.String(), b.Count)
	s.afterDispatch()
}

func (s *session) afterDispatch() {
	if s.dispatched != nil {
		s.dispatched()
	}
}

// bindQuit registers sc as the exit shortcut. Its callback removes its
// own registration before ending the loop.
func (s *session) bindQuit(sc shortcut.Shortcut) error {
	combo := sc.String()
	var id hotkey.ID
	id, err := s.m.Add(sc.Modifiers, sc.Code, func(m *hotkey.Manager) {
		if err := m.Remove(id); err != nil {
			log.Warnf("unbind quit shortcut: %v", err)
		}
		log.Unregistered(int(id), combo)
		s.sink.Status("quit requested")
		cue.Play(cue.Quit)
		s.cancel()
		s.afterDispatch()
	})
	if err != nil {
		return err
	}
	log.Registered(int(id), combo, "quit")
	return nil
}

// run dispatches until the quit shortcut, stop, or the backend closing.
func (s *session) run(backend string) error {
	log.SessionStart(backend, len(s.binds))
	err := s.m.HandleContext(s.ctx)
	log.SessionEnd(s.fired)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// stop ends run from any goroutine.
func (s *session) stop() { s.cancel() }

// close unregisters everything. Call it after run has returned.
func (s *session) close() error {
	for _, b := range s.binds {
		if b.ID >= 0 {
			log.Unregistered(int(b.ID), b.Shortcut.String())
		}
	}
	s.cancel()
	return s.m.Close()
}
