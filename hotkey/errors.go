package hotkey

import (
	"errors"
	"fmt"

	"umiko/keys"
)

var (
	ErrRegistrationFailed     = errors.New("hotkey registration failed")
	ErrUnregistrationFailed   = errors.New("hotkey unregistration failed")
	ErrUnexpectedNotification = errors.New("unexpected hotkey notification")
	ErrBackendClosed          = errors.New("hotkey backend closed")
	ErrNilCallback            = errors.New("nil hotkey callback")
	ErrUnsupportedKey         = errors.New("key not supported by hotkey backend")
	ErrAlreadyBound           = errors.New("hotkey already registered")
)

// RegistrationError is returned by Add when the OS refuses a binding.
type RegistrationError struct {
	Modifiers Modifiers
	Code      keys.Code
	Err       error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering %s: %v", describe(e.Modifiers, e.Code), e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

func (e *RegistrationError) Is(target error) bool { return target == ErrRegistrationFailed }

// UnregistrationError is returned by Remove when the OS refuses to release
// a binding. The Manager has already dropped the entry by then.
type UnregistrationError struct {
	ID  ID
	Err error
}

func (e *UnregistrationError) Error() string {
	return fmt.Sprintf("unregistering hotkey %d: %v", e.ID, e.Err)
}

func (e *UnregistrationError) Unwrap() error { return e.Err }

func (e *UnregistrationError) Is(target error) bool { return target == ErrUnregistrationFailed }
