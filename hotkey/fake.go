package hotkey

import (
	"fmt"
	"sync"

	"umiko/keys"
)

type combo struct {
	mods Modifiers
	code keys.Code
}

// FakeBackend is an in-memory Backend. It refuses to bind a combination
// that is already bound, like the OS does.
type FakeBackend struct {
	mu         sync.Mutex
	bound      map[ID]combo
	refuse     map[combo]error
	failUnbind map[ID]error
	binds      int
	unbinds    int
	q          *queue
}

func NewFake() *FakeBackend {
	return &FakeBackend{
		bound:      make(map[ID]combo),
		refuse:     make(map[combo]error),
		failUnbind: make(map[ID]error),
		q:          newQueue(),
	}
}

func (f *FakeBackend) Bind(id ID, mods Modifiers, code keys.Code) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.binds++
	if f.q.isClosed() {
		return ErrBackendClosed
	}
	c := combo{mods &^ ModNoRepeat, code}
	if err, ok := f.refuse[c]; ok {
		return err
	}
	for _, b := range f.bound {
		if b == c {
			return fmt.Errorf("%w: %s", ErrAlreadyBound, describe(mods, code))
		}
	}
	f.bound[id] = c
	return nil
}

func (f *FakeBackend) Unbind(id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbinds++
	delete(f.bound, id)
	if err, ok := f.failUnbind[id]; ok {
		return err
	}
	return nil
}

func (f *FakeBackend) Next() (Notification, error) { return f.q.pop() }

func (f *FakeBackend) Interrupt() { f.q.push(Notification{Kind: KindOther}) }

// Close tears the notification source down. Queued notifications are still
// delivered before Next reports ErrBackendClosed.
func (f *FakeBackend) Close() error {
	f.q.close()
	return nil
}

// Fire simulates the OS reporting that hotkey id was pressed. The id does
// not have to be bound.
func (f *FakeBackend) Fire(id ID) { f.q.push(Notification{Kind: KindHotkey, ID: id}) }

// SendOther simulates an unrelated message on the notification source.
func (f *FakeBackend) SendOther() { f.q.push(Notification{Kind: KindOther}) }

// Refuse makes every future Bind of mods+code fail with err.
func (f *FakeBackend) Refuse(mods Modifiers, code keys.Code, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refuse[combo{mods &^ ModNoRepeat, code}] = err
}

// FailUnbind makes Unbind(id) release the binding but report err.
func (f *FakeBackend) FailUnbind(id ID, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUnbind[id] = err
}

// Bound reports whether id is currently bound.
func (f *FakeBackend) Bound(id ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.bound[id]
	return ok
}

// Lookup returns the id bound to mods+code, if any.
func (f *FakeBackend) Lookup(mods Modifiers, code keys.Code) (ID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := combo{mods &^ ModNoRepeat, code}
	for id, c := range f.bound {
		if c == want {
			return id, true
		}
	}
	return 0, false
}

// Calls returns how many Bind and Unbind calls were made.
func (f *FakeBackend) Calls() (binds, unbinds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.binds, f.unbinds
}
