package keys

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		name string
		want Code
	}{
		{"H", H},
		{"h", H},
		{"F5", F5},
		{"f24", F24},
		{"7", Key7},
		{"Numpad3", Numpad3},
		{"esc", Escape},
		{"Return", Enter},
		{"PgUp", PageUp},
		{" CapsLock ", CapsLock},
		{"win", LeftSuper},
		{"/", Slash},
	}
	for _, tc := range cases {
		got, ok := Lookup(tc.name)
		if !ok {
			t.Errorf("Lookup(%q) not found", tc.name)
			continue
		}
		if got != tc.want {
			t.Errorf("Lookup(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"", "F25", "hyper", "Numpad10"} {
		if c, ok := Lookup(name); ok {
			t.Errorf("Lookup(%q) = %v, want not found", name, c)
		}
	}
}

func TestCodeStringRoundTrip(t *testing.T) {
	for c := range names {
		got, ok := Lookup(c.String())
		if !ok || got != c {
			t.Errorf("Lookup(%q) = %v, %v; want %v", c.String(), got, ok, c)
		}
	}
}

func TestCodeStringUnknown(t *testing.T) {
	c := Code(0xFF)
	if c.known() {
		t.Fatal("0xFF should not be in the table")
	}
	if got := c.String(); got != "0xFF" {
		t.Errorf("got %q, want 0xFF", got)
	}
}

func TestTableValues(t *testing.T) {
	// spot checks against the Win32 virtual-key table
	if A != 0x41 || Z != 0x5A || Key0 != 0x30 || F1 != 0x70 || F24 != 0x87 || CapsLock != 0x14 {
		t.Error("virtual-key constants drifted")
	}
}
