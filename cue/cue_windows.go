//go:build windows

package cue

import (
	"time"

	"golang.org/x/sys/windows"
)

var procBeep = windows.NewLazySystemDLL("kernel32.dll").NewProc("Beep")

// play uses the kernel Beep call, which blocks for the tone's duration.
// The decay envelope is not reproduced.
func play(spec toneSpec) {
	ms := uintptr(spec.duration * 1000)
	go func() {
		procBeep.Call(uintptr(spec.freq), ms)
		if spec.double {
			time.Sleep(time.Duration(doubleGap * float64(time.Second)))
			procBeep.Call(uintptr(spec.freq), ms)
		}
	}()
}
