//go:build !windows && !linux

package keys

type unsupportedReader struct{}

func systemReader() Reader {
	return unsupportedReader{}
}

func (unsupportedReader) ReadRaw(Code) (int16, error) {
	return 0, ErrUnsupported
}

// Diagnose reports whether key state can be read on this machine.
func Diagnose() (string, error) {
	return "", ErrUnsupported
}
