//go:build darwin

package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"umiko/keys"
)

var xKeys = map[keys.Code]hotkey.Key{
	keys.Space:  hotkey.KeySpace,
	keys.Enter:  hotkey.KeyReturn,
	keys.Escape: hotkey.KeyEscape,
	keys.Delete: hotkey.KeyDelete,
	keys.Tab:    hotkey.KeyTab,
	keys.Left:   hotkey.KeyLeft,
	keys.Right:  hotkey.KeyRight,
	keys.Up:     hotkey.KeyUp,
	keys.Down:   hotkey.KeyDown,

	keys.Key0: hotkey.Key0, keys.Key1: hotkey.Key1, keys.Key2: hotkey.Key2,
	keys.Key3: hotkey.Key3, keys.Key4: hotkey.Key4, keys.Key5: hotkey.Key5,
	keys.Key6: hotkey.Key6, keys.Key7: hotkey.Key7, keys.Key8: hotkey.Key8,
	keys.Key9: hotkey.Key9,

	keys.A: hotkey.KeyA, keys.B: hotkey.KeyB, keys.C: hotkey.KeyC,
	keys.D: hotkey.KeyD, keys.E: hotkey.KeyE, keys.F: hotkey.KeyF,
	keys.G: hotkey.KeyG, keys.H: hotkey.KeyH, keys.I: hotkey.KeyI,
	keys.J: hotkey.KeyJ, keys.K: hotkey.KeyK, keys.L: hotkey.KeyL,
	keys.M: hotkey.KeyM, keys.N: hotkey.KeyN, keys.O: hotkey.KeyO,
	keys.P: hotkey.KeyP, keys.Q: hotkey.KeyQ, keys.R: hotkey.KeyR,
	keys.S: hotkey.KeyS, keys.T: hotkey.KeyT, keys.U: hotkey.KeyU,
	keys.V: hotkey.KeyV, keys.W: hotkey.KeyW, keys.X: hotkey.KeyX,
	keys.Y: hotkey.KeyY, keys.Z: hotkey.KeyZ,

	keys.F1: hotkey.KeyF1, keys.F2: hotkey.KeyF2, keys.F3: hotkey.KeyF3,
	keys.F4: hotkey.KeyF4, keys.F5: hotkey.KeyF5, keys.F6: hotkey.KeyF6,
	keys.F7: hotkey.KeyF7, keys.F8: hotkey.KeyF8, keys.F9: hotkey.KeyF9,
	keys.F10: hotkey.KeyF10, keys.F11: hotkey.KeyF11, keys.F12: hotkey.KeyF12,
}

// Cocoa names Alt Option and Super Command.
func xModifiers(mods Modifiers) []hotkey.Modifier {
	var out []hotkey.Modifier
	if mods.Has(ModControl) {
		out = append(out, hotkey.ModCtrl)
	}
	if mods.Has(ModShift) {
		out = append(out, hotkey.ModShift)
	}
	if mods.Has(ModAlt) {
		out = append(out, hotkey.ModOption)
	}
	if mods.Has(ModSuper) {
		out = append(out, hotkey.ModCmd)
	}
	return out
}

type xBinding struct {
	hk   *hotkey.Hotkey
	stop chan struct{}
	done chan struct{}
}

// xBackend binds through golang.design/x/hotkey (Cocoa). Each
// binding gets a forwarding goroutine that feeds the shared queue.
type xBackend struct {
	mu       sync.Mutex
	bindings map[ID]*xBinding
	q        *queue
}

// NewSystemBackend returns the Cocoa backend. The program must run under
// mainthread.Init.
func NewSystemBackend() (Backend, error) {
	return &xBackend{
		bindings: make(map[ID]*xBinding),
		q:        newQueue(),
	}, nil
}

func (b *xBackend) Bind(id ID, mods Modifiers, code keys.Code) error {
	if b.q.isClosed() {
		return ErrBackendClosed
	}
	key, ok := xKeys[code]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnsupportedKey, code)
	}
	hk := hotkey.New(xModifiers(mods), key)
	if err := hk.Register(); err != nil {
		return err
	}
	bd := &xBinding{hk: hk, stop: make(chan struct{}), done: make(chan struct{})}

	b.mu.Lock()
	b.bindings[id] = bd
	b.mu.Unlock()

	go b.forward(id, bd, mods.Has(ModNoRepeat))
	return nil
}

// forward turns keydowns into notifications. With noRepeat, keydowns are
// dropped until the key has been released.
func (b *xBackend) forward(id ID, bd *xBinding, noRepeat bool) {
	defer close(bd.done)
	keydown := bd.hk.Keydown()
	keyup := bd.hk.Keyup()
	held := false
	for {
		select {
		case <-bd.stop:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			if noRepeat && held {
				continue
			}
			held = true
			b.q.push(Notification{Kind: KindHotkey, ID: id})
		case _, ok := <-keyup:
			if !ok {
				return
			}
			held = false
		}
	}
}

func (b *xBackend) Unbind(id ID) error {
	b.mu.Lock()
	bd, ok := b.bindings[id]
	delete(b.bindings, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	close(bd.stop)
	<-bd.done
	return bd.hk.Unregister()
}

func (b *xBackend) Next() (Notification, error) { return b.q.pop() }

func (b *xBackend) Interrupt() { b.q.push(Notification{Kind: KindOther}) }

func (b *xBackend) Close() error {
	b.mu.Lock()
	ids := make([]ID, 0, len(b.bindings))
	for id := range b.bindings {
		ids = append(ids, id)
	}
	b.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := b.Unbind(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.q.close()
	return firstErr
}
