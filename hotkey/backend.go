package hotkey

import (
	"sync"

	"umiko/keys"
)

// Kind classifies a notification.
type Kind int

const (
	// KindOther is anything the loop should skip: unrelated OS messages and
	// the wake-ups sent by Interrupt.
	KindOther Kind = iota
	KindHotkey
)

// Notification is one event pulled from a Backend.
type Notification struct {
	Kind Kind
	ID   ID
}

// Backend is the OS side of hotkey registration.
//
// Next blocks until a notification is available and returns
// ErrBackendClosed once the source is torn down. Unbind of an id that is
// not bound must succeed. Interrupt makes a blocked Next return a
// KindOther notification.
type Backend interface {
	Bind(id ID, mods Modifiers, code keys.Code) error
	Unbind(id ID) error
	Next() (Notification, error)
	Interrupt()
	Close() error
}

// queue is an unbounded single-consumer notification queue. Backends push
// from their own goroutines so an OS thread never blocks on a slow loop.
type queue struct {
	mu     sync.Mutex
	items  []Notification
	closed bool
	err    error
	ready  chan struct{}
}

func newQueue() *queue {
	return &queue{ready: make(chan struct{}, 1)}
}

func (q *queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *queue) push(n Notification) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, n)
	q.mu.Unlock()
	q.signal()
	return true
}

// close stops accepting pushes. Items already queued are still delivered,
// then pop reports ErrBackendClosed.
func (q *queue) close() {
	q.closeWith(ErrBackendClosed)
}

func (q *queue) closeWith(err error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.err = err
	q.mu.Unlock()
	q.signal()
}

func (q *queue) pop() (Notification, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			n := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return n, nil
		}
		if q.closed {
			err := q.err
			q.mu.Unlock()
			return Notification{}, err
		}
		q.mu.Unlock()
		<-q.ready
	}
}

func (q *queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
