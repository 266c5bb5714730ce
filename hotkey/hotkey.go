// Package hotkey registers system-wide keyboard shortcuts and dispatches
// their notifications to callbacks.
//
// A Manager owns an id space and a table of callbacks. Add binds a
// combination with the OS, Handle pumps notifications and runs the
// matching callback inline on the calling goroutine. Remove may be called
// before Handle or from inside a callback; calling Add or Remove from
// another goroutine while Handle runs is unsupported.
package hotkey

import (
	"fmt"
	"strings"
	"sync/atomic"

	"umiko/keys"
)

// Modifiers is a bit-set of modifier keys, using the Win32 MOD_* values.
type Modifiers uint32

const (
	ModNone     Modifiers = 0
	ModAlt      Modifiers = 0x0001
	ModControl  Modifiers = 0x0002
	ModShift    Modifiers = 0x0004
	ModSuper    Modifiers = 0x0008
	ModNoRepeat Modifiers = 0x4000 // suppress auto-repeat while held
)

var modNames = []struct {
	mod  Modifiers
	name string
}{
	{ModControl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModSuper, "Super"},
	{ModNoRepeat, "NoRepeat"},
}

const modMask = ModAlt | ModControl | ModShift | ModSuper | ModNoRepeat

// Has reports whether every bit of o is set in m.
func (m Modifiers) Has(o Modifiers) bool {
	return m&o == o
}

func (m Modifiers) String() string {
	var parts []string
	for _, mn := range modNames {
		if m.Has(mn.mod) {
			parts = append(parts, mn.name)
		}
	}
	if rest := m &^ modMask; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(rest)))
	}
	return strings.Join(parts, "+")
}

func describe(mods Modifiers, code keys.Code) string {
	if s := (mods &^ ModNoRepeat).String(); s != "" {
		return s + "+" + code.String()
	}
	return code.String()
}

// ID is the handle returned by Add.
type ID int

// Allocator hands out ids. Ids are never reused and wraparound is not
// handled; no realistic number of hotkeys gets near it. One Allocator may be
// shared by several Managers so their OS-level ids do not collide.
type Allocator struct {
	next atomic.Int64
}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns the current counter value and advances it.
func (a *Allocator) Next() ID {
	return ID(a.next.Add(1) - 1)
}

// Issued reports whether id was ever returned by Next.
func (a *Allocator) Issued(id ID) bool {
	return id >= 0 && int64(id) < a.next.Load()
}

// Callback runs on the dispatch goroutine when its hotkey fires. The
// Manager is passed so the callback can add or remove hotkeys, itself
// included.
type Callback func(m *Manager)

// Func adapts a plain function to Callback.
func Func(fn func()) Callback {
	if fn == nil {
		return nil
	}
	return func(*Manager) { fn() }
}

// Registration describes a bound hotkey.
type Registration struct {
	ID        ID
	Modifiers Modifiers
	Code      keys.Code
}

func (r Registration) String() string {
	return describe(r.Modifiers, r.Code)
}
