package hotkey

import (
	"errors"
	"testing"
	"time"

	"umiko/keys"
)

func TestQueueDrainsBeforeClosed(t *testing.T) {
	q := newQueue()
	q.push(Notification{Kind: KindHotkey, ID: 1})
	q.push(Notification{Kind: KindOther})
	q.close()
	if q.push(Notification{Kind: KindHotkey, ID: 2}) {
		t.Error("push after close accepted")
	}

	n, err := q.pop()
	if err != nil || n.ID != 1 || n.Kind != KindHotkey {
		t.Fatalf("first pop = %+v, %v", n, err)
	}
	n, err = q.pop()
	if err != nil || n.Kind != KindOther {
		t.Fatalf("second pop = %+v, %v", n, err)
	}
	if _, err := q.pop(); !errors.Is(err, ErrBackendClosed) {
		t.Fatalf("third pop = %v, want ErrBackendClosed", err)
	}
}

func TestQueueCloseWithError(t *testing.T) {
	q := newQueue()
	cause := errors.New("message pump failed")
	q.closeWith(cause)
	q.close()
	if _, err := q.pop(); err != cause {
		t.Fatalf("pop = %v, want %v", err, cause)
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := newQueue()
	got := make(chan Notification, 1)
	go func() {
		n, _ := q.pop()
		got <- n
	}()

	select {
	case <-got:
		t.Fatal("pop returned on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	q.push(Notification{Kind: KindHotkey, ID: 5})
	select {
	case n := <-got:
		if n.ID != 5 {
			t.Errorf("got id %d, want 5", n.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pop")
	}
}

func TestFakeIgnoresNoRepeatWhenMatching(t *testing.T) {
	fb := NewFake()
	if err := fb.Bind(0, ModControl|ModNoRepeat, keys.A); err != nil {
		t.Fatal(err)
	}
	if err := fb.Bind(1, ModControl, keys.A); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("got %v, want ErrAlreadyBound", err)
	}
	if id, ok := fb.Lookup(ModControl, keys.A); !ok || id != 0 {
		t.Errorf("Lookup = %d, %v", id, ok)
	}
}

func TestFakeBindAfterClose(t *testing.T) {
	fb := NewFake()
	fb.Close()
	if err := fb.Bind(0, ModAlt, keys.A); !errors.Is(err, ErrBackendClosed) {
		t.Fatalf("got %v, want ErrBackendClosed", err)
	}
}

func TestModifiersString(t *testing.T) {
	cases := []struct {
		mods Modifiers
		want string
	}{
		{ModNone, ""},
		{ModAlt | ModControl, "Ctrl+Alt"},
		{ModShift | ModSuper, "Shift+Super"},
		{ModControl | ModNoRepeat, "Ctrl+NoRepeat"},
		{ModAlt | 0x10, "Alt+0x10"},
	}
	for _, tc := range cases {
		if got := tc.mods.String(); got != tc.want {
			t.Errorf("%#x: got %q, want %q", uint32(tc.mods), got, tc.want)
		}
	}
}

func TestAllocator(t *testing.T) {
	var a Allocator
	if a.Issued(0) {
		t.Error("0 issued before Next")
	}
	for want := ID(0); want < 3; want++ {
		if got := a.Next(); got != want {
			t.Fatalf("Next = %d, want %d", got, want)
		}
	}
	if !a.Issued(2) || a.Issued(3) || a.Issued(-1) {
		t.Error("Issued disagrees with Next")
	}
}
