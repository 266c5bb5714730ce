//go:build windows

package hotkey

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"umiko/keys"
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

const (
	wmQuit      = 0x0012
	wmUser      = 0x0400
	wmHotkey    = 0x0312
	wmApp       = 0x8000
	wmRequest   = wmApp + 1
	wmInterrupt = wmApp + 2
	pmNoRemove  = 0x0000
)

const errHotkeyNotRegistered = syscall.Errno(1419)

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

type request struct {
	bind bool
	id   ID
	mods Modifiers
	code keys.Code
	done chan error
}

// win32Backend owns one OS thread. RegisterHotKey with a nil window posts
// WM_HOTKEY to the registering thread, so binding, unbinding and the
// message pump must all happen there. Callers reach the thread by posting
// wmRequest and handing over one request per message.
type win32Backend struct {
	tid       uint32
	requests  chan request
	q         *queue
	exited    chan struct{}
	closeOnce sync.Once
}

// NewSystemBackend starts the message thread.
func NewSystemBackend() (Backend, error) {
	if err := procGetMessageW.Find(); err != nil {
		return nil, fmt.Errorf("loading user32: %w", err)
	}
	b := &win32Backend{
		requests: make(chan request),
		q:        newQueue(),
		exited:   make(chan struct{}),
	}
	ready := make(chan struct{})
	go b.pump(ready)
	<-ready
	return b, nil
}

func (b *win32Backend) pump(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(b.exited)
	defer b.q.close()

	var m msg
	// Force creation of the thread message queue before anyone posts to it.
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, wmUser, wmUser, pmNoRemove)
	b.tid = windows.GetCurrentThreadId()
	close(ready)

	bound := make(map[ID]bool)
	defer func() {
		for id := range bound {
			procUnregisterHotKey.Call(0, uintptr(id))
		}
	}()

	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			b.q.closeWith(fmt.Errorf("GetMessageW: %w", err))
			return
		case 0: // WM_QUIT
			return
		}

		switch m.message {
		case wmHotkey:
			// Negative ids are the system's own snapshot hotkeys.
			if id := int32(m.wParam); id >= 0 {
				b.q.push(Notification{Kind: KindHotkey, ID: ID(id)})
			} else {
				b.q.push(Notification{Kind: KindOther})
			}
		case wmRequest:
			r := <-b.requests
			r.done <- apply(r, bound)
		default:
			b.q.push(Notification{Kind: KindOther})
		}
	}
}

func apply(r request, bound map[ID]bool) error {
	if r.bind {
		ret, _, err := procRegisterHotKey.Call(0, uintptr(r.id), uintptr(r.mods), uintptr(r.code))
		if ret == 0 {
			return fmt.Errorf("RegisterHotKey(mod=0x%x, vk=0x%x): %w", uint32(r.mods), uint32(r.code), err)
		}
		bound[r.id] = true
		return nil
	}
	delete(bound, r.id)
	ret, _, err := procUnregisterHotKey.Call(0, uintptr(r.id))
	if ret == 0 && !errors.Is(err, errHotkeyNotRegistered) {
		return fmt.Errorf("UnregisterHotKey(%d): %w", r.id, err)
	}
	return nil
}

func (b *win32Backend) post(message uint32) error {
	select {
	case <-b.exited:
		return ErrBackendClosed
	default:
	}
	ret, _, err := procPostThreadMessageW.Call(uintptr(b.tid), uintptr(message), 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostThreadMessageW: %w", err)
	}
	return nil
}

func (b *win32Backend) do(r request) error {
	r.done = make(chan error, 1)
	if err := b.post(wmRequest); err != nil {
		return err
	}
	select {
	case b.requests <- r:
	case <-b.exited:
		return ErrBackendClosed
	}
	return <-r.done
}

func (b *win32Backend) Bind(id ID, mods Modifiers, code keys.Code) error {
	return b.do(request{bind: true, id: id, mods: mods, code: code})
}

func (b *win32Backend) Unbind(id ID) error {
	err := b.do(request{id: id})
	if errors.Is(err, ErrBackendClosed) {
		// The thread released everything on its way out.
		return nil
	}
	return err
}

func (b *win32Backend) Next() (Notification, error) { return b.q.pop() }

func (b *win32Backend) Interrupt() { b.post(wmInterrupt) }

// Close posts WM_QUIT and waits for the thread to release its hotkeys.
func (b *win32Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if err = b.post(wmQuit); err != nil {
			if errors.Is(err, ErrBackendClosed) {
				err = nil
			}
			return
		}
		<-b.exited
	})
	return err
}
