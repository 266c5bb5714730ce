//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"slices"
	"sync"

	"umiko/keys"
)

const (
	evKey          = 1
	keyRelease     = 0
	keyPress       = 1
	keyRepeat      = 2
	inputEventSize = 24
)

// evdevModifiers maps both sides of each modifier to its bit.
var evdevModifiers = map[uint16]Modifiers{
	29: ModControl, 97: ModControl,
	42: ModShift, 54: ModShift,
	56: ModAlt, 100: ModAlt,
	125: ModSuper, 126: ModSuper,
}

type evdevBinding struct {
	mods  Modifiers
	codes []uint16
}

// heldKeys is the set of keys one device reports as down.
type heldKeys map[uint16]bool

// modsExcept returns the modifiers held, not counting code itself, so a
// modifier can be the key of a binding.
func (h heldKeys) modsExcept(code uint16) Modifiers {
	var m Modifiers
	for c := range h {
		if c != code {
			m |= evdevModifiers[c]
		}
	}
	return m
}

// evdevBackend reads key events straight from /dev/input, so it works
// without a display server. Keyboards are opened on the first Bind. Each
// device tracks its own held keys; a modifier on one keyboard does not
// combine with a key on another.
type evdevBackend struct {
	open     func() ([]*os.File, error)
	mu       sync.Mutex
	bindings map[ID]evdevBinding
	files    []*os.File
	q        *queue
}

// NewSystemBackend returns the evdev backend. It needs read access to the
// keyboard devices (the 'input' group).
func NewSystemBackend() (Backend, error) {
	return newEvdevBackend(openKeyboards), nil
}

func newEvdevBackend(open func() ([]*os.File, error)) *evdevBackend {
	return &evdevBackend{
		open:     open,
		bindings: make(map[ID]evdevBinding),
		q:        newQueue(),
	}
}

func openKeyboards() ([]*os.File, error) {
	paths, err := keys.Keyboards()
	if err != nil {
		return nil, fmt.Errorf("finding keyboards: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w (is user in 'input' group?)", keys.ErrNoKeyboard)
	}
	var files []*os.File
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: could not open any of %d keyboard(s) (run: sudo usermod -aG input $USER, then re-login)", keys.ErrNoKeyboard, len(paths))
	}
	return files, nil
}

func (b *evdevBackend) Bind(id ID, mods Modifiers, code keys.Code) error {
	codes, ok := keys.EvdevCodes(code)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnsupportedKey, code)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.q.isClosed() {
		return ErrBackendClosed
	}
	want := mods &^ ModNoRepeat
	for _, bd := range b.bindings {
		if bd.mods&^ModNoRepeat == want && slices.Equal(bd.codes, codes) {
			return fmt.Errorf("%w: %s", ErrAlreadyBound, describe(mods, code))
		}
	}
	if b.files == nil {
		files, err := b.open()
		if err != nil {
			return err
		}
		b.files = files
		for _, f := range files {
			go b.read(f)
		}
	}
	b.bindings[id] = evdevBinding{mods: mods, codes: codes}
	return nil
}

func (b *evdevBackend) read(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	held := heldKeys{}
	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}
		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))
			if evType == evKey {
				b.feed(held, evCode, evValue)
			}
		}
	}
}

// feed applies one key event and queues every binding it completes.
// Auto-repeat events trigger again unless the binding has ModNoRepeat.
func (b *evdevBackend) feed(held heldKeys, code uint16, value int32) {
	switch value {
	case keyRelease:
		delete(held, code)
		return
	case keyPress:
		held[code] = true
	case keyRepeat:
	default:
		return
	}
	mods := held.modsExcept(code)

	b.mu.Lock()
	var hits []ID
	for id, bd := range b.bindings {
		if bd.mods&^ModNoRepeat != mods || !slices.Contains(bd.codes, code) {
			continue
		}
		if value == keyRepeat && bd.mods.Has(ModNoRepeat) {
			continue
		}
		hits = append(hits, id)
	}
	b.mu.Unlock()

	slices.Sort(hits)
	for _, id := range hits {
		b.q.push(Notification{Kind: KindHotkey, ID: id})
	}
}

func (b *evdevBackend) Unbind(id ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bindings, id)
	return nil
}

func (b *evdevBackend) Next() (Notification, error) { return b.q.pop() }

func (b *evdevBackend) Interrupt() { b.q.push(Notification{Kind: KindOther}) }

// Close releases the keyboards; closing a device ends its reader.
func (b *evdevBackend) Close() error {
	b.mu.Lock()
	files := b.files
	b.files = nil
	clear(b.bindings)
	b.mu.Unlock()

	for _, f := range files {
		f.Close()
	}
	b.q.close()
	return nil
}
