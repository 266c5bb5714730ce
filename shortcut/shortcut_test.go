package shortcut

import (
	"errors"
	"testing"

	"umiko/hotkey"
	"umiko/keys"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		mods hotkey.Modifiers
		code keys.Code
	}{
		{"Ctrl+Alt+H", hotkey.ModControl | hotkey.ModAlt, keys.H},
		{"shift+f5", hotkey.ModShift, keys.F5},
		{"  Alt + Control + Delete ", hotkey.ModControl | hotkey.ModAlt, keys.Delete},
		{"Win+E", hotkey.ModSuper, keys.E},
		{"Cmd+Shift+4", hotkey.ModSuper | hotkey.ModShift, keys.Key4},
		{"F12", hotkey.ModNone, keys.F12},
		{"Ctrl+NoRepeat+Space", hotkey.ModControl | hotkey.ModNoRepeat, keys.Space},
		{"Ctrl++", hotkey.ModControl, keys.Equals},
		{"Ctrl+Esc", hotkey.ModControl, keys.Escape},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if got.Modifiers != tc.mods || got.Code != tc.code {
			t.Errorf("Parse(%q) = %v (%#x), want %v", tc.in, got, uint32(got.Modifiers), Shortcut{tc.mods, tc.code})
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"Ctrl+Alt",
		"Ctrl+Hyper+H",
		"Ctrl+A+B",
		"Ctrl+Ctrl+A",
		"Ctrl++A",
		"+A",
	} {
		if sc, err := Parse(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) = %v, %v; want ErrSyntax", in, sc, err)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"Ctrl+Alt+H", "Shift+F5", "Ctrl+Alt+Shift+Super+Delete", "F1", "Ctrl+NoRepeat+Q"} {
		sc, err := Parse(in)
		if err != nil {
			t.Fatal(err)
		}
		if got := sc.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
		again, err := Parse(sc.String())
		if err != nil || again != sc {
			t.Errorf("reparse of %q = %v, %v", sc.String(), again, err)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParse("Ctrl+")
}
