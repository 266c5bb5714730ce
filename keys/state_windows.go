//go:build windows

package keys

import (
	"golang.org/x/sys/windows"
)

var (
	user32          = windows.NewLazySystemDLL("user32.dll")
	procGetKeyState = user32.NewProc("GetKeyState")
)

type win32Reader struct{}

func systemReader() Reader {
	return win32Reader{}
}

func (win32Reader) ReadRaw(code Code) (int16, error) {
	if err := procGetKeyState.Find(); err != nil {
		return 0, err
	}
	// GetKeyState returns a SHORT and cannot fail.
	r, _, _ := procGetKeyState.Call(uintptr(code))
	return int16(uint16(r)), nil
}

// Diagnose reports whether key state can be read on this machine.
func Diagnose() (string, error) {
	if err := procGetKeyState.Find(); err != nil {
		return "", err
	}
	return "GetKeyState available", nil
}
