//go:build !windows && !linux && !darwin

package hotkey

import (
	"errors"
	"runtime"
)

// NewSystemBackend fails: there is no global hotkey facility wired for this
// platform.
func NewSystemBackend() (Backend, error) {
	return nil, errors.New("global hotkeys are not supported on " + runtime.GOOS)
}
