package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"umiko/keys"
)

func update(m tuiModel, msg tea.Msg) tuiModel {
	next, _ := m.Update(msg)
	return next.(tuiModel)
}

func TestTUIModelTracksBindings(t *testing.T) {
	m := tuiModel{keyOrder: []keys.Code{keys.CapsLock}, keyStates: map[keys.Code]keys.State{}}
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(m, BoundMsg{"hello", "Ctrl+Alt+H"})
	m = update(m, BindFailedMsg{"F9", errors.New("already taken")})
	m = update(m, FiredMsg{"hello", "Ctrl+Alt+H", 3})
	m = update(m, KeyStateMsg{keys.CapsLock, keys.Locked})

	if len(m.rows) != 2 || m.rows[0].count != 3 || m.rows[0].lastFired.IsZero() {
		t.Fatalf("rows = %+v", m.rows)
	}
	if m.rows[1].failed != "already taken" {
		t.Errorf("failed row = %+v", m.rows[1])
	}

	view := m.View()
	for _, want := range []string{"Ctrl+Alt+H", "hello", "already taken", "CapsLock", "locked"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTUIModelQuitKeys(t *testing.T) {
	m := tuiModel{keyStates: map[keys.Code]keys.State{}}
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Errorf("%v: no quit command", k)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("cannot watch ScrollLock: not supported", 16)
	for _, l := range lines {
		if len(l) > 16 {
			t.Errorf("line %q longer than 16", l)
		}
	}
	if strings.Join(lines, " ") != "cannot watch ScrollLock: not supported" {
		t.Errorf("lines = %q", lines)
	}
}
