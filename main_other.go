//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// Cocoa only delivers hotkey events to the main thread, so the program
// body runs beside it.
func main() {
	mainthread.Init(run)
}
