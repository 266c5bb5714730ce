package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"umiko/hotkey"
	"umiko/keys"
	"umiko/log"
	"umiko/shortcut"
)

// checkCombo is bound during the hotkey check. It is unlikely to collide with
// anything a desktop ships by default.
var checkCombo = shortcut.MustParse("Ctrl+Alt+F12")

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run() int {
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		if st, err := term.GetState(fd); err == nil {
			defer term.Restore(fd, st)
		}
	}
	setupInterruptHandler()

	fmt.Println("umiko doctor - interactive system diagnostics")
	fmt.Println("=============================================")

	allPass := true

	if !checkHotkey() {
		allPass = false
	}
	if !checkKeyState() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[1/2] Global hotkey")

	// The evdev backend only reads keyboards present when it binds, so the
	// virtual keyboard has to exist first. An error resurfaces in inject.
	_ = initInjector()

	m, err := hotkey.NewSystem(hotkey.WithLogger(log.Logger()))
	if err != nil {
		fmt.Printf("  FAIL: no hotkey backend: %v\n", err)
		return false
	}
	defer m.Close()

	fired := make(chan struct{}, 1)
	if _, err := m.Add(checkCombo.Modifiers, checkCombo.Code, hotkey.Func(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})); err != nil {
		fmt.Printf("  FAIL: could not register %v: %v\n", checkCombo, err)
		if errors.Is(err, hotkey.ErrRegistrationFailed) {
			fmt.Println("  Another program may already own this combination.")
		}
		return false
	}
	fmt.Printf("  registered %v\n", checkCombo)

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- m.HandleContext(ctx) }()

	ok := waitCombo(fired)
	cancel()
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("  FAIL: dispatch loop: %v\n", err)
		return false
	}
	return ok
}

func waitCombo(fired <-chan struct{}) bool {
	if err := inject(checkCombo.Modifiers, checkCombo.Code); err != nil {
		fmt.Printf("  WARN: cannot synthesize keystrokes: %v\n", err)
		fmt.Printf("  Fix with: %s\n", injectFix)
	} else if waitFired(fired, 3*time.Second) {
		fmt.Println("  PASS: synthetic keystroke dispatched")
		return true
	}

	fmt.Printf("Press %v...\n", checkCombo)
	if waitFired(fired, 10*time.Second) {
		// Reset terminal after hotkey - it may leave terminal in raw mode
		resetTerminal()
		fmt.Println("  PASS: hotkey detected")
		return true
	}
	fmt.Println("  FAIL: timeout waiting for hotkey")
	return false
}

func waitFired(fired <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-fired:
		return true
	case <-time.After(timeout):
		return false
	}
}

func checkKeyState() bool {
	fmt.Println()
	fmt.Println("[2/2] Key state")

	msg, err := keys.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", msg)

	for _, code := range []keys.Code{keys.CapsLock, keys.NumLock, keys.Shift} {
		st, err := keys.Query(code)
		if err != nil {
			fmt.Printf("  FAIL: %v\n", err)
			return false
		}
		fmt.Printf("  %-10s %v\n", code, st)
	}
	fmt.Println("  PASS: key state readable")
	return true
}
