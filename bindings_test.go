package main

import (
	"errors"
	"testing"

	"umiko/hotkey"
	"umiko/keys"
	"umiko/shortcut"
)

func TestParseBinding(t *testing.T) {
	cases := []struct {
		in    string
		mods  hotkey.Modifiers
		code  keys.Code
		label string
	}{
		{"Ctrl+Alt+H=hello", hotkey.ModControl | hotkey.ModAlt, keys.H, "hello"},
		{"Shift+F5", hotkey.ModShift, keys.F5, "Shift+F5"},
		{"Ctrl+==equals", hotkey.ModControl, keys.Equals, "equals"},
		{"alt+space= open menu ", hotkey.ModAlt, keys.Space, "open menu"},
	}
	for _, tc := range cases {
		b, err := parseBinding(tc.in)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if b.Shortcut.Modifiers != tc.mods || b.Shortcut.Code != tc.code || b.Label != tc.label {
			t.Errorf("%q: got %v %q", tc.in, b.Shortcut, b.Label)
		}
		if b.ID != -1 {
			t.Errorf("%q: unbound binding has id %d", tc.in, b.ID)
		}
	}
}

func TestParseBindingErrors(t *testing.T) {
	for _, in := range []string{"", "=label", "Ctrl+Nope=x", "Ctrl+Alt"} {
		if _, err := parseBinding(in); !errors.Is(err, shortcut.ErrSyntax) {
			t.Errorf("%q: got %v, want ErrSyntax", in, err)
		}
	}
}

func TestBindListFlag(t *testing.T) {
	var l bindList
	if err := l.Set("Ctrl+Alt+H=hello"); err != nil {
		t.Fatal(err)
	}
	if err := l.Set("F9"); err != nil {
		t.Fatal(err)
	}
	if err := l.Set("bogus+key"); err == nil {
		t.Error("Set accepted an invalid shortcut")
	}
	if len(l) != 2 {
		t.Fatalf("got %d bindings, want 2", len(l))
	}
	if got, want := l.String(), "Ctrl+Alt+H=hello,F9=F9"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEnvBindings(t *testing.T) {
	t.Setenv("UMIKO_BIND", "Ctrl+Alt+H=hello; ;Super+E=explorer")
	bs, err := envBindings()
	if err != nil {
		t.Fatal(err)
	}
	if len(bs) != 2 || bs[0].Label != "hello" || bs[1].Shortcut.Modifiers != hotkey.ModSuper {
		t.Fatalf("got %+v", bs)
	}

	t.Setenv("UMIKO_BIND", "Ctrl+Alt")
	if _, err := envBindings(); err == nil {
		t.Error("invalid UMIKO_BIND accepted")
	}

	t.Setenv("UMIKO_BIND", "")
	if bs, err := envBindings(); err != nil || bs != nil {
		t.Errorf("empty UMIKO_BIND = %v, %v", bs, err)
	}
}

func TestParseWatch(t *testing.T) {
	codes, err := parseWatch("CapsLock, numlock,,Shift")
	if err != nil {
		t.Fatal(err)
	}
	want := []keys.Code{keys.CapsLock, keys.NumLock, keys.Shift}
	if len(codes) != len(want) {
		t.Fatalf("got %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes[%d] = %v, want %v", i, codes[i], want[i])
		}
	}
	if _, err := parseWatch("CapsLock,Hyper"); err == nil {
		t.Error("unknown key accepted")
	}
}
