package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"golang.org/x/term"

	"umiko/cue"
	"umiko/doctor"
	"umiko/hotkey"
	"umiko/keys"
	"umiko/log"
	"umiko/shortcut"
	"umiko/shutdown"
)

var version = "dev"

type options struct {
	binds   []*binding
	quit    *shortcut.Shortcut
	watched []keys.Code
	tui     bool
}

func run() {
	os.Exit(start())
}

func start() int {
	var binds bindList
	flag.Var(&binds, "bind", "Global shortcut as combo[=label], e.g. Ctrl+Alt+H=hello (repeatable)")
	quitFlag := flag.String("quit", "Ctrl+Alt+Q", "Shortcut that exits (empty disables)")
	watchFlag := flag.String("watch", "CapsLock,NumLock,ScrollLock", "Comma-separated keys whose state is shown")
	beepFlag := flag.Bool("beep", false, "Play a tone when a shortcut fires")
	tuiFlag := flag.Bool("tui", term.IsTerminal(int(os.Stdout.Fd())), "Run with terminal UI")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("umiko %s\n", version)
		return 0
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
		crashFile.Close()
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	if *doctorFlag {
		return doctor.Run()
	}
	if *beepFlag {
		cue.Enable()
	}

	fromEnv, err := envBindings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	opts := options{binds: append(binds, fromEnv...), tui: *tuiFlag}

	if *quitFlag != "" {
		sc, err := shortcut.Parse(*quitFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -quit: %v\n", err)
			return 1
		}
		opts.quit = &sc
	}
	if opts.watched, err = parseWatch(*watchFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: -watch: %v\n", err)
		return 1
	}

	if *testFlag {
		return runTestMode(opts)
	}

	m, err := hotkey.NewSystem(hotkey.WithLogger(log.Logger()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Errorf("hotkey backend: %v", err)
		return 1
	}
	return serve(m, runtime.GOOS, keys.Query, opts)
}

// serve binds opts on m and dispatches until quit, a signal, or the TUI
// exiting. It closes m before returning.
func serve(m *hotkey.Manager, backend string, query QueryFunc, opts options) int {
	if !opts.tui {
		return serveWith(m, backend, query, opts, &lineSink{w: os.Stdout}, nil)
	}

	quitCombo := ""
	if opts.quit != nil {
		quitCombo = opts.quit.String()
	}
	p := NewTUIProgram(opts.watched, quitCombo)
	tuiDone := make(chan struct{})
	go func() {
		defer close(tuiDone)
		if _, err := p.Run(); err != nil {
			log.Errorf("tui: %v", err)
		}
	}()
	defer func() {
		p.Quit()
		<-tuiDone
	}()

	return serveWith(m, backend, query, opts, tuiSink{p}, func(s *session) {
		go func() {
			select {
			case <-tuiDone:
				s.stop()
			case <-s.ctx.Done():
			}
		}()
	})
}

// serveWith runs a session reporting to sink. ready, if set, is called
// once every shortcut has been bound and before dispatch starts.
func serveWith(m *hotkey.Manager, backend string, query QueryFunc, opts options, sink EventSink, ready func(*session)) int {
	s := newSession(m, sink)
	defer func() {
		if err := s.close(); err != nil {
			log.Warnf("close: %v", err)
		}
	}()

	for _, b := range opts.binds {
		s.bind(b)
	}
	if opts.quit != nil {
		if err := s.bindQuit(*opts.quit); err != nil {
			log.Warnf("bind quit shortcut: %v", err)
			sink.BindFailed(opts.quit.String(), err)
		}
	}
	if m.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no shortcut could be bound")
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Info("signal received")
			s.stop()
		case <-s.ctx.Done():
		}
	}()

	go watchKeys(s.ctx, query, opts.watched, sink)

	if ready != nil {
		ready(s)
	}
	if err := s.run(backend); err != nil {
		log.Errorf("dispatch loop: %v", err)
		sink.Status("dispatch loop: " + err.Error())
		return 1
	}
	return 0
}
