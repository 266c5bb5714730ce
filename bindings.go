package main

import (
	"fmt"
	"os"
	"strings"

	"umiko/hotkey"
	"umiko/keys"
	"umiko/shortcut"
)

// binding is one user shortcut. ID and Count belong to the dispatch
// goroutine once the session starts.
type binding struct {
	Label    string
	Shortcut shortcut.Shortcut
	ID       hotkey.ID
	Count    int
}

// parseBinding reads "combo" or "combo=label".
func parseBinding(s string) (*binding, error) {
	combo, label := splitBinding(s)
	sc, err := shortcut.Parse(combo)
	if err != nil {
		return nil, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = sc.String()
	}
	return &binding{Label: label, Shortcut: sc, ID: -1}, nil
}

// splitBinding cuts at the first '=' that is not itself the key, so
// "Ctrl+==equals" binds Ctrl+= with the label "equals".
func splitBinding(s string) (combo, label string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' && (i == 0 || s[i-1] != '+') {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// bindList collects repeated -bind flags.
type bindList []*binding

func (l *bindList) String() string {
	parts := make([]string, 0, len(*l))
	for _, b := range *l {
		parts = append(parts, b.Shortcut.String()+"="+b.Label)
	}
	return strings.Join(parts, ",")
}

func (l *bindList) Set(s string) error {
	b, err := parseBinding(s)
	if err != nil {
		return err
	}
	*l = append(*l, b)
	return nil
}

// envBindings parses UMIKO_BIND, a ';'-separated list of bindings.
func envBindings() ([]*binding, error) {
	env := os.Getenv("UMIKO_BIND")
	if env == "" {
		return nil, nil
	}
	var out []*binding
	for _, part := range strings.Split(env, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b, err := parseBinding(part)
		if err != nil {
			return nil, fmt.Errorf("UMIKO_BIND: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

// parseWatch reads a comma-separated key list such as "CapsLock,NumLock".
func parseWatch(s string) ([]keys.Code, error) {
	var out []keys.Code
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		code, ok := keys.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		out = append(out, code)
	}
	return out, nil
}
