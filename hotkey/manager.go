package hotkey

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog"

	"umiko/keys"
)

// LoopState is where the dispatch loop currently is.
type LoopState int32

const (
	LoopIdle LoopState = iota
	LoopWaiting
	LoopDispatching
	LoopTerminated
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopWaiting:
		return "waiting"
	case LoopDispatching:
		return "dispatching"
	case LoopTerminated:
		return "terminated"
	}
	return fmt.Sprintf("LoopState(%d)", int32(s))
}

type entry struct {
	reg Registration
	cb  Callback
}

// Manager owns a set of hotkeys bound through a Backend.
type Manager struct {
	backend Backend
	ids     *Allocator
	log     zerolog.Logger
	table   map[ID]entry
	state   atomic.Int32
}

type Option func(*Manager)

// WithAllocator shares an id space with other Managers.
func WithAllocator(a *Allocator) Option {
	return func(m *Manager) { m.ids = a }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New returns an empty Manager. Nothing is registered with the OS until Add.
func New(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		ids:     NewAllocator(),
		log:     zerolog.Nop(),
		table:   make(map[ID]entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewSystem returns a Manager bound to the platform's hotkey facility.
func NewSystem(opts ...Option) (*Manager, error) {
	b, err := NewSystemBackend()
	if err != nil {
		return nil, err
	}
	return New(b, opts...), nil
}

// Add binds mods+code system-wide and stores cb under a fresh id. A failed
// binding still consumes the id. Binding the same combination twice is not
// deduplicated; the OS decides whether the second binding succeeds.
func (m *Manager) Add(mods Modifiers, code keys.Code, cb Callback) (ID, error) {
	if cb == nil {
		return 0, ErrNilCallback
	}
	id := m.ids.Next()
	if err := m.backend.Bind(id, mods, code); err != nil {
		m.log.Warn().Err(err).Int("id", int(id)).Str("combo", describe(mods, code)).Msg("hotkey_register_failed")
		return id, &RegistrationError{Modifiers: mods, Code: code, Err: err}
	}
	m.table[id] = entry{
		reg: Registration{ID: id, Modifiers: mods, Code: code},
		cb:  cb,
	}
	m.log.Debug().Int("id", int(id)).Str("combo", describe(mods, code)).Msg("hotkey_registered")
	return id, nil
}

// Remove releases id with the OS and forgets its callback. Unknown ids are
// a no-op. The entry is dropped even when the OS refuses, so a failed
// Remove never leaves a callback behind.
func (m *Manager) Remove(id ID) error {
	err := m.backend.Unbind(id)
	_, known := m.table[id]
	delete(m.table, id)
	if err != nil {
		m.log.Warn().Err(err).Int("id", int(id)).Msg("hotkey_unregister_failed")
		return &UnregistrationError{ID: id, Err: err}
	}
	if known {
		m.log.Debug().Int("id", int(id)).Msg("hotkey_unregistered")
	}
	return nil
}

// Len returns the number of registered hotkeys.
func (m *Manager) Len() int {
	return len(m.table)
}

// IDs returns the registered ids in ascending order.
func (m *Manager) IDs() []ID {
	ids := make([]ID, 0, len(m.table))
	for id := range m.table {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *Manager) Registration(id ID) (Registration, bool) {
	e, ok := m.table[id]
	return e.reg, ok
}

// State returns the dispatch loop state. Safe to call from any goroutine.
func (m *Manager) State() LoopState {
	return LoopState(m.state.Load())
}

func (m *Manager) setState(s LoopState) {
	m.state.Store(int32(s))
}

// Handle runs the dispatch loop until the backend is torn down. Callbacks
// run inline; the next notification is not read until the callback returns.
func (m *Manager) Handle() error {
	return m.HandleContext(context.Background())
}

// HandleContext is Handle with a cancellation path: once ctx is done the
// backend is interrupted and the loop returns ctx.Err() before reading
// another notification. A running callback is never interrupted.
func (m *Manager) HandleContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, m.backend.Interrupt)
	defer stop()

	m.setState(LoopWaiting)
	for {
		n, err := m.backend.Next()
		if err != nil {
			m.setState(LoopTerminated)
			if errors.Is(err, ErrBackendClosed) {
				m.log.Debug().Msg("hotkey_loop_terminated")
				return nil
			}
			return fmt.Errorf("receiving hotkey notification: %w", err)
		}
		if err := ctx.Err(); err != nil {
			m.setState(LoopIdle)
			return err
		}
		m.dispatch(n)
	}
}

func (m *Manager) dispatch(n Notification) {
	switch n.Kind {
	case KindOther:
		return
	case KindHotkey:
	default:
		panic(fmt.Errorf("%w: kind %d", ErrUnexpectedNotification, int(n.Kind)))
	}
	e, ok := m.table[n.ID]
	if !ok {
		if m.ids.Issued(n.ID) {
			m.log.Debug().Int("id", int(n.ID)).Msg("hotkey_stale_notification")
		} else {
			m.log.Warn().Int("id", int(n.ID)).Msg("hotkey_foreign_notification")
		}
		return
	}
	m.log.Debug().Int("id", int(n.ID)).Str("combo", e.reg.String()).Msg("hotkey_dispatch")
	m.setState(LoopDispatching)
	e.cb(m)
	m.setState(LoopWaiting)
}

// Close removes every hotkey and closes the backend.
func (m *Manager) Close() error {
	var errs []error
	for _, id := range m.IDs() {
		if err := m.Remove(id); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing hotkey backend: %w", err))
	}
	return errors.Join(errs...)
}
