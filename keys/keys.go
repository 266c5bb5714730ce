// Package keys holds the key-code table and the live key-state query.
//
// Codes live in the Win32 virtual-key space. Platform readers and hotkey
// backends translate them to whatever their OS expects.
package keys

import (
	"fmt"
	"strings"
)

// Code identifies a physical key.
type Code uint32

const (
	Backspace Code = 0x08
	Tab       Code = 0x09
	Clear     Code = 0x0C
	Enter     Code = 0x0D
	Shift     Code = 0x10
	Control   Code = 0x11
	Alt       Code = 0x12
	Pause     Code = 0x13
	CapsLock  Code = 0x14
	Escape    Code = 0x1B
	Space     Code = 0x20
	PageUp    Code = 0x21
	PageDown  Code = 0x22
	End       Code = 0x23
	Home      Code = 0x24
	Left      Code = 0x25
	Up        Code = 0x26
	Right     Code = 0x27
	Down      Code = 0x28
	PrintScr  Code = 0x2C
	Insert    Code = 0x2D
	Delete    Code = 0x2E

	Key0 Code = 0x30
	Key1 Code = 0x31
	Key2 Code = 0x32
	Key3 Code = 0x33
	Key4 Code = 0x34
	Key5 Code = 0x35
	Key6 Code = 0x36
	Key7 Code = 0x37
	Key8 Code = 0x38
	Key9 Code = 0x39

	A Code = 0x41
	B Code = 0x42
	C Code = 0x43
	D Code = 0x44
	E Code = 0x45
	F Code = 0x46
	G Code = 0x47
	H Code = 0x48
	I Code = 0x49
	J Code = 0x4A
	K Code = 0x4B
	L Code = 0x4C
	M Code = 0x4D
	N Code = 0x4E
	O Code = 0x4F
	P Code = 0x50
	Q Code = 0x51
	R Code = 0x52
	S Code = 0x53
	T Code = 0x54
	U Code = 0x55
	V Code = 0x56
	W Code = 0x57
	X Code = 0x58
	Y Code = 0x59
	Z Code = 0x5A

	LeftSuper  Code = 0x5B
	RightSuper Code = 0x5C
	Menu       Code = 0x5D

	Numpad0   Code = 0x60
	Numpad1   Code = 0x61
	Numpad2   Code = 0x62
	Numpad3   Code = 0x63
	Numpad4   Code = 0x64
	Numpad5   Code = 0x65
	Numpad6   Code = 0x66
	Numpad7   Code = 0x67
	Numpad8   Code = 0x68
	Numpad9   Code = 0x69
	Multiply  Code = 0x6A
	Add       Code = 0x6B
	Separator Code = 0x6C
	Subtract  Code = 0x6D
	Decimal   Code = 0x6E
	Divide    Code = 0x6F

	F1  Code = 0x70
	F2  Code = 0x71
	F3  Code = 0x72
	F4  Code = 0x73
	F5  Code = 0x74
	F6  Code = 0x75
	F7  Code = 0x76
	F8  Code = 0x77
	F9  Code = 0x78
	F10 Code = 0x79
	F11 Code = 0x7A
	F12 Code = 0x7B
	F13 Code = 0x7C
	F14 Code = 0x7D
	F15 Code = 0x7E
	F16 Code = 0x7F
	F17 Code = 0x80
	F18 Code = 0x81
	F19 Code = 0x82
	F20 Code = 0x83
	F21 Code = 0x84
	F22 Code = 0x85
	F23 Code = 0x86
	F24 Code = 0x87

	NumLock    Code = 0x90
	ScrollLock Code = 0x91

	LeftShift    Code = 0xA0
	RightShift   Code = 0xA1
	LeftControl  Code = 0xA2
	RightControl Code = 0xA3
	LeftAlt      Code = 0xA4
	RightAlt     Code = 0xA5

	Semicolon  Code = 0xBA
	Equals     Code = 0xBB
	Comma      Code = 0xBC
	Minus      Code = 0xBD
	Period     Code = 0xBE
	Slash      Code = 0xBF
	Backquote  Code = 0xC0
	LeftBrack  Code = 0xDB
	Backslash  Code = 0xDC
	RightBrack Code = 0xDD
	Quote      Code = 0xDE
)

// names holds the canonical spelling of every code in the table.
var names = map[Code]string{
	Backspace: "Backspace", Tab: "Tab", Clear: "Clear", Enter: "Enter",
	Shift: "Shift", Control: "Control", Alt: "Alt", Pause: "Pause",
	CapsLock: "CapsLock", Escape: "Escape", Space: "Space",
	PageUp: "PageUp", PageDown: "PageDown", End: "End", Home: "Home",
	Left: "Left", Up: "Up", Right: "Right", Down: "Down",
	PrintScr: "PrintScreen", Insert: "Insert", Delete: "Delete",
	LeftSuper: "LeftSuper", RightSuper: "RightSuper", Menu: "Menu",
	Multiply: "Multiply", Add: "Add", Separator: "Separator",
	Subtract: "Subtract", Decimal: "Decimal", Divide: "Divide",
	NumLock: "NumLock", ScrollLock: "ScrollLock",
	LeftShift: "LeftShift", RightShift: "RightShift",
	LeftControl: "LeftControl", RightControl: "RightControl",
	LeftAlt: "LeftAlt", RightAlt: "RightAlt",
	Semicolon: ";", Equals: "=", Comma: ",", Minus: "-", Period: ".",
	Slash: "/", Backquote: "`", LeftBrack: "[", Backslash: "\\",
	RightBrack: "]", Quote: "'",
}

var aliases = map[string]Code{
	"esc":       Escape,
	"return":    Enter,
	"bksp":      Backspace,
	"del":       Delete,
	"ins":       Insert,
	"pgup":      PageUp,
	"pgdn":      PageDown,
	"ctrl":      Control,
	"caps":      CapsLock,
	"prtsc":     PrintScr,
	"win":       LeftSuper,
	"lwin":      LeftSuper,
	"rwin":      RightSuper,
	"apps":      Menu,
	"plus":      Equals,
	"scroll":    ScrollLock,
	"lshift":    LeftShift,
	"rshift":    RightShift,
	"lctrl":     LeftControl,
	"rctrl":     RightControl,
	"lalt":      LeftAlt,
	"ralt":      RightAlt,
	"altgr":     RightAlt,
	"grave":     Backquote,
	"backtick":  Backquote,
	"semicolon": Semicolon,
	"comma":     Comma,
	"period":    Period,
	"dot":       Period,
	"slash":     Slash,
	"minus":     Minus,
}

var lookup = make(map[string]Code)

func init() {
	for c := A; c <= Z; c++ {
		names[c] = string(rune('A' + c - A))
	}
	for c := Key0; c <= Key9; c++ {
		names[c] = string(rune('0' + c - Key0))
	}
	for c := Numpad0; c <= Numpad9; c++ {
		names[c] = fmt.Sprintf("Numpad%d", c-Numpad0)
	}
	for c := F1; c <= F24; c++ {
		names[c] = fmt.Sprintf("F%d", c-F1+1)
	}
	for c, name := range names {
		lookup[strings.ToLower(name)] = c
	}
	for alias, c := range aliases {
		lookup[alias] = c
	}
}

// Lookup resolves a key name, case-insensitively. Aliases such as "Esc",
// "Return" and "PgUp" are accepted.
func Lookup(name string) (Code, bool) {
	c, ok := lookup[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

func (c Code) known() bool {
	_, ok := names[c]
	return ok
}

func (c Code) String() string {
	if !c.known() {
		return fmt.Sprintf("0x%02X", uint32(c))
	}
	return names[c]
}
