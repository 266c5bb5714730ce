// Package shortcut converts between "Ctrl+Alt+H" style strings and
// hotkey modifier/key pairs.
package shortcut

import (
	"errors"
	"fmt"
	"strings"

	"umiko/hotkey"
	"umiko/keys"
)

var ErrSyntax = errors.New("invalid shortcut")

var modifierNames = map[string]hotkey.Modifiers{
	"ctrl":     hotkey.ModControl,
	"control":  hotkey.ModControl,
	"alt":      hotkey.ModAlt,
	"option":   hotkey.ModAlt,
	"shift":    hotkey.ModShift,
	"super":    hotkey.ModSuper,
	"win":      hotkey.ModSuper,
	"cmd":      hotkey.ModSuper,
	"meta":     hotkey.ModSuper,
	"norepeat": hotkey.ModNoRepeat,
}

// Shortcut is a parsed key combination.
type Shortcut struct {
	Modifiers hotkey.Modifiers
	Code      keys.Code
}

// Parse reads a '+'-separated combination. Modifier names are matched
// case-insensitively and may appear in any order; exactly one non-modifier
// key is required. "Ctrl++" binds the '=' key (the plus key).
func Parse(s string) (Shortcut, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Shortcut{}, fmt.Errorf("%w: empty", ErrSyntax)
	}
	if strings.HasSuffix(s, "++") {
		s = strings.TrimSuffix(s, "+") + "plus"
	}

	var sc Shortcut
	haveKey := false
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Shortcut{}, fmt.Errorf("%w: %q has an empty segment", ErrSyntax, s)
		}
		if mod, ok := modifierNames[strings.ToLower(part)]; ok {
			if sc.Modifiers.Has(mod) {
				return Shortcut{}, fmt.Errorf("%w: %q repeats %s", ErrSyntax, s, part)
			}
			sc.Modifiers |= mod
			continue
		}
		code, ok := keys.Lookup(part)
		if !ok {
			return Shortcut{}, fmt.Errorf("%w: unknown key %q", ErrSyntax, part)
		}
		if haveKey {
			return Shortcut{}, fmt.Errorf("%w: %q names more than one key", ErrSyntax, s)
		}
		sc.Code = code
		haveKey = true
	}
	if !haveKey {
		return Shortcut{}, fmt.Errorf("%w: no key in %q", ErrSyntax, s)
	}
	return sc, nil
}

// MustParse is Parse for constants; it panics on error.
func MustParse(s string) Shortcut {
	sc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sc
}

// Format renders mods and code the way Parse reads them.
func Format(mods hotkey.Modifiers, code keys.Code) string {
	if m := mods.String(); m != "" {
		return m + "+" + code.String()
	}
	return code.String()
}

func (s Shortcut) String() string {
	return Format(s.Modifiers, s.Code)
}
