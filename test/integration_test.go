//go:build integration

package test_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("UMIKO_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "UMIKO_TEST_BIN not set; build umiko and point UMIKO_TEST_BIN at it")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func startUmiko(t *testing.T, stdin string, env []string, args ...string) (logDir, out string, err error) {
	t.Helper()
	logDir = t.TempDir()
	cmdArgs := append([]string{"-logpath", logDir, "-test"}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), env...)

	b, err := cmd.CombinedOutput()
	return logDir, string(b), err
}

func runUmiko(t *testing.T, stdin string, args ...string) (logDir, out string) {
	t.Helper()
	logDir, out, err := startUmiko(t, stdin, nil, args...)
	if err != nil {
		t.Fatalf("umiko exited with error: %v\noutput: %s", err, out)
	}
	return logDir, out
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

func TestFireLogsHotkey(t *testing.T) {
	logDir, out := runUmiko(t,
		cmds("FIRE Ctrl+Alt+H", "FIRE Shift+F5", "FIRE ctrl+alt+h", "WAIT", "QUIT"),
		"-bind", "Ctrl+Alt+H=hello", "-bind", "Shift+F5=five", "-watch", "")

	hk := readLog(t, logDir, "hotkeys_log.txt")
	if n := strings.Count(hk, "\n"); n != 3 {
		t.Errorf("hotkeys_log.txt has %d lines, want 3:\n%s", n, hk)
	}
	if strings.Count(hk, "\tCtrl+Alt+H\thello") != 2 || !strings.Contains(hk, "\tShift+F5\tfive") {
		t.Errorf("unexpected hotkeys_log.txt:\n%s", hk)
	}
	if !strings.Contains(out, "fired Ctrl+Alt+H hello #2") {
		t.Errorf("stdout missing second fire:\n%s", out)
	}

	diag := readLog(t, logDir, "diagnostics_log.txt")
	for _, want := range []string{"session_start", "backend=fake", "bindings=2", "session_end", "fired=3"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostics missing %q", want)
		}
	}
}

func TestQuitShortcut(t *testing.T) {
	logDir, out := runUmiko(t,
		cmds("FIRE Ctrl+Alt+Q", "WAIT", "FIRE Ctrl+Alt+H"),
		"-bind", "Ctrl+Alt+H=hello", "-watch", "")

	if !strings.Contains(out, "quit requested") {
		t.Errorf("stdout missing quit:\n%s", out)
	}
	if strings.Contains(out, "WAIT: timed out") {
		t.Errorf("WAIT did not see the quit dispatch:\n%s", out)
	}
	if hk := readLog(t, logDir, "hotkeys_log.txt"); hk != "" {
		t.Errorf("hotkey dispatched after quit:\n%s", hk)
	}
}

func TestCustomQuitShortcut(t *testing.T) {
	_, out := runUmiko(t, cmds("FIRE F12"), "-quit", "F12", "-bind", "F1", "-watch", "")
	if !strings.Contains(out, "quit requested") {
		t.Errorf("stdout missing quit:\n%s", out)
	}
}

func TestUnboundCombo(t *testing.T) {
	_, out := runUmiko(t, cmds("FIRE Ctrl+F1", "QUIT"), "-bind", "Ctrl+F2", "-watch", "")
	if !strings.Contains(out, "unbound Ctrl+F1") {
		t.Errorf("stdout missing unbound notice:\n%s", out)
	}
}

func TestDuplicateBinding(t *testing.T) {
	logDir, out := runUmiko(t, cmds("FIRE Ctrl+Alt+H", "WAIT", "QUIT"),
		"-bind", "Ctrl+Alt+H=first", "-bind", "Ctrl+Alt+H=second", "-watch", "")

	if !strings.Contains(out, "bind failed Ctrl+Alt+H") {
		t.Errorf("duplicate was not refused:\n%s", out)
	}
	hk := readLog(t, logDir, "hotkeys_log.txt")
	if !strings.Contains(hk, "first") || strings.Contains(hk, "second") {
		t.Errorf("wrong binding fired:\n%s", hk)
	}
}

func TestEnvBindings(t *testing.T) {
	logDir, out, err := startUmiko(t, cmds("FIRE Super+E", "WAIT", "QUIT"),
		[]string{"UMIKO_BIND=Super+E=explorer;Ctrl+Shift+Esc=tasks"}, "-watch", "")
	if err != nil {
		t.Fatalf("umiko exited with error: %v\noutput: %s", err, out)
	}
	if hk := readLog(t, logDir, "hotkeys_log.txt"); !strings.Contains(hk, "explorer") {
		t.Errorf("env binding did not fire:\n%s", hk)
	}
}

func TestNothingBound(t *testing.T) {
	_, out, err := startUmiko(t, cmds("QUIT"), nil, "-quit", "", "-watch", "")
	if err == nil {
		t.Fatalf("expected failure with no shortcuts, output:\n%s", out)
	}
}

func TestWatchKeyState(t *testing.T) {
	_, out := runUmiko(t, cmds("STATE CapsLock 1", "SLEEP 400", "STATE CapsLock -127", "SLEEP 400", "QUIT"),
		"-bind", "F1", "-watch", "CapsLock")
	for _, want := range []string{"key CapsLock locked", "key CapsLock pressed+locked"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestWatchInvalidRawStateCrashes(t *testing.T) {
	logDir, out, err := startUmiko(t, cmds("STATE NumLock 5", "SLEEP 2000", "QUIT"), nil,
		"-bind", "F1", "-watch", "NumLock")
	if err == nil {
		t.Fatalf("expected crash on raw state 5, output:\n%s", out)
	}
	crash := readLog(t, logDir, "crash_log.txt")
	if !strings.Contains(crash+out, "unexpected raw key state") {
		t.Errorf("panic not recorded:\n%s", crash)
	}
}
