package keys

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported = errors.New("key state not supported on this platform")
	ErrNoKeyboard  = errors.New("no readable keyboard device")
)

// State is the live state of a single key.
type State int

const (
	Idle State = iota
	Pressed
	Locked
	PressedAndLocked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Locked:
		return "locked"
	case PressedAndLocked:
		return "pressed+locked"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Raw values as reported by GetKeyState: the sign bit carries "down",
// the low bit carries "toggled".
const (
	rawIdle          int16 = 0
	rawLocked        int16 = 1
	rawPressed       int16 = -128
	rawPressedLocked int16 = -127
)

// decode panics on anything outside the four known raw values. Such a value
// means the platform reader and this package disagree about the ABI.
func decode(raw int16) State {
	switch raw {
	case rawIdle:
		return Idle
	case rawLocked:
		return Locked
	case rawPressed:
		return Pressed
	case rawPressedLocked:
		return PressedAndLocked
	}
	panic(fmt.Sprintf("keys: unexpected raw key state %d (0x%04X)", raw, uint16(raw)))
}

func encode(pressed, locked bool) int16 {
	switch {
	case pressed && locked:
		return rawPressedLocked
	case pressed:
		return rawPressed
	case locked:
		return rawLocked
	}
	return rawIdle
}

// Reader returns the raw OS state word for a key.
type Reader interface {
	ReadRaw(code Code) (int16, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(code Code) (int16, error)

func (f ReaderFunc) ReadRaw(code Code) (int16, error) { return f(code) }

// Oracle answers key-state queries from a Reader.
type Oracle struct {
	r Reader
}

func NewOracle(r Reader) *Oracle {
	return &Oracle{r: r}
}

// Query returns the state of code. A raw value outside the known range
// panics.
func (o *Oracle) Query(code Code) (State, error) {
	raw, err := o.r.ReadRaw(code)
	if err != nil {
		return Idle, fmt.Errorf("reading state of %v: %w", code, err)
	}
	return decode(raw), nil
}

// IsPressed reports whether code is held down, locked or not.
func (o *Oracle) IsPressed(code Code) (bool, error) {
	s, err := o.Query(code)
	if err != nil {
		return false, err
	}
	return s == Pressed || s == PressedAndLocked, nil
}

// IsLocked reports whether code is toggled on (Caps Lock and friends).
func (o *Oracle) IsLocked(code Code) (bool, error) {
	s, err := o.Query(code)
	if err != nil {
		return false, err
	}
	return s == Locked || s == PressedAndLocked, nil
}

var system = NewOracle(systemReader())

// Query returns the state of code as the OS sees it right now.
func Query(code Code) (State, error) { return system.Query(code) }

func IsPressed(code Code) (bool, error) { return system.IsPressed(code) }

func IsLocked(code Code) (bool, error) { return system.IsLocked(code) }
