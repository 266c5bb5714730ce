package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	hotkeyFile *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: UMIKO_LOG_PATH environment variable
	if envPath := os.Getenv("UMIKO_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	hotkeyPath := filepath.Join(dir, "hotkeys_log.txt")
	hotkeyFile, err = os.OpenFile(hotkeyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if hotkeyFile != nil {
		hotkeyFile.Close()
		hotkeyFile = nil
	}
	logReady = false
}

// Logger returns the diagnostics logger, or a no-op logger before Init.
func Logger() zerolog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	if !logReady {
		return zerolog.Nop()
	}
	return diagLog
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Registered(id int, combo, label string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("id", id).
		Str("combo", combo).
		Str("label", label).
		Msg("bind")
}

func Unregistered(id int, combo string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("id", id).
		Str("combo", combo).
		Msg("unbind")
}

// Fired records a dispatched hotkey in both logs.
func Fired(id int, combo, label string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("id", id).
		Str("combo", combo).
		Msg("fired")

	logMu.Lock()
	defer logMu.Unlock()
	if hotkeyFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, combo, label)
	hotkeyFile.WriteString(line)
}

func KeyState(key, state string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("key", key).
		Str("state", state).
		Msg("key_state")
}

func SessionStart(backend string, bindings int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("backend", backend).
		Int("bindings", bindings).
		Msg("session_start")
}

func SessionEnd(fired int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("fired", fired).
		Msg("session_end")
}
