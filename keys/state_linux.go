//go:build linux

package keys

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// evdev ioctl numbers, see linux/input.h.
const (
	iocRead   = 2
	evGetKey  = 0x18
	evGetLED  = 0x19
	keyMax    = 0x2ff
	ledMax    = 0x0f
	keyBufLen = (keyMax + 7) / 8
	ledBufLen = (ledMax + 7) / 8
)

const (
	ledNumLock    = 0
	ledCapsLock   = 1
	ledScrollLock = 2
)

// evdevKeys maps virtual-key codes to the evdev KEY_* codes that count as
// that key being down. Generic modifiers match either side.
var evdevKeys = map[Code][]uint16{
	Escape: {1}, Backspace: {14}, Tab: {15}, Enter: {28, 96}, Space: {57},
	Minus: {12}, Equals: {13}, LeftBrack: {26}, RightBrack: {27},
	Semicolon: {39}, Quote: {40}, Backquote: {41}, Backslash: {43},
	Comma: {51}, Period: {52}, Slash: {53},
	Shift: {42, 54}, LeftShift: {42}, RightShift: {54},
	Control: {29, 97}, LeftControl: {29}, RightControl: {97},
	Alt: {56, 100}, LeftAlt: {56}, RightAlt: {100},
	LeftSuper: {125}, RightSuper: {126}, Menu: {127},
	CapsLock: {58}, NumLock: {69}, ScrollLock: {70},
	PrintScr: {99}, Pause: {119},
	Home: {102}, Up: {103}, PageUp: {104}, Left: {105}, Right: {106},
	End: {107}, Down: {108}, PageDown: {109}, Insert: {110}, Delete: {111},
	Multiply: {55}, Subtract: {74}, Add: {78}, Decimal: {83}, Divide: {98},
	Numpad7: {71}, Numpad8: {72}, Numpad9: {73},
	Numpad4: {75}, Numpad5: {76}, Numpad6: {77},
	Numpad1: {79}, Numpad2: {80}, Numpad3: {81}, Numpad0: {82},
	F11: {87}, F12: {88},
}

var evdevLEDs = map[Code]int{
	CapsLock:   ledCapsLock,
	NumLock:    ledNumLock,
	ScrollLock: ledScrollLock,
}

func init() {
	// Letter rows follow the physical QWERTY layout.
	rows := []struct {
		letters string
		first   uint16
	}{
		{"QWERTYUIOP", 16},
		{"ASDFGHJKL", 30},
		{"ZXCVBNM", 44},
	}
	for _, row := range rows {
		for i, r := range row.letters {
			evdevKeys[A+Code(r-'A')] = []uint16{row.first + uint16(i)}
		}
	}
	evdevKeys[Key0] = []uint16{11}
	for c := Key1; c <= Key9; c++ {
		evdevKeys[c] = []uint16{uint16(2 + c - Key1)}
	}
	for c := F1; c <= F10; c++ {
		evdevKeys[c] = []uint16{uint16(59 + c - F1)}
	}
	for c := F13; c <= F24; c++ {
		evdevKeys[c] = []uint16{uint16(183 + c - F13)}
	}
}

type evdevReader struct {
	dir string
}

func systemReader() Reader {
	return evdevReader{dir: "/dev/input"}
}

// ReadRaw asks every keyboard for its key and LED bitmaps and merges them:
// a key is down if any keyboard reports it down.
func (r evdevReader) ReadRaw(code Code) (int16, error) {
	codes, ok := evdevKeys[code]
	if !ok {
		return 0, fmt.Errorf("%w: %v has no evdev mapping", ErrUnsupported, code)
	}
	led, hasLED := evdevLEDs[code]

	keyboards, err := findKeyboards(r.dir)
	if err != nil {
		return 0, fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return 0, fmt.Errorf("%w (is user in 'input' group?)", ErrNoKeyboard)
	}

	var pressed, locked bool
	opened := 0
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		opened++
		keyBits, err := readBits(f, evGetKey, keyBufLen)
		if err == nil {
			for _, c := range codes {
				pressed = pressed || bitSet(keyBits, int(c))
			}
		}
		if hasLED {
			if ledBits, err := readBits(f, evGetLED, ledBufLen); err == nil {
				locked = locked || bitSet(ledBits, led)
			}
		}
		f.Close()
	}
	if opened == 0 {
		return 0, fmt.Errorf("%w: found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", ErrNoKeyboard, len(keyboards))
	}
	return encode(pressed, locked), nil
}

func evioc(nr, size uintptr) uintptr {
	return iocRead<<30 | size<<16 | uintptr('E')<<8 | nr
}

func readBits(f *os.File, nr, size uintptr) ([]byte, error) {
	buf := make([]byte, size)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), evioc(nr, size), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, errno
	}
	return buf, nil
}

func bitSet(bits []byte, n int) bool {
	if n < 0 || n/8 >= len(bits) {
		return false
	}
	return bits[n/8]&(1<<(n%8)) != 0
}

func findKeyboards(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join(dir, e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose reports whether key state can be read on this machine.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards("/dev/input")
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("%w (is user in 'input' group?)", ErrNoKeyboard)
	}
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), path), nil
		}
	}
	return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
}

// Keyboards lists the keyboard event devices under /dev/input.
func Keyboards() ([]string, error) {
	return findKeyboards("/dev/input")
}

// EvdevCodes returns the evdev KEY_* codes that count as c.
func EvdevCodes(c Code) ([]uint16, bool) {
	codes, ok := evdevKeys[c]
	return codes, ok
}
