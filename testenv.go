package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"umiko/hotkey"
	"umiko/keys"
	"umiko/log"
	"umiko/shortcut"
)

// fakeKeys serves key state set by STATE commands.
type fakeKeys struct {
	mu  sync.Mutex
	raw map[keys.Code]int16
}

func (f *fakeKeys) set(code keys.Code, raw int16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw[code] = raw
}

func (f *fakeKeys) ReadRaw(code keys.Code) (int16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw[code], nil
}

// runTestMode runs a session on the fake backend, driven by stdin:
//
//	FIRE <combo>        deliver the shortcut's notification
//	OTHER               deliver an unrelated message
//	STATE <key> <raw>   set a watched key's raw state
//	WAIT                block until the previous FIRE was dispatched,
//	                    the quit shortcut included
//	SLEEP <ms>
//	QUIT                close the backend; the loop drains and exits
//
// End of input behaves like QUIT.
func runTestMode(opts options) int {
	fb := hotkey.NewFake()
	m := hotkey.New(fb, hotkey.WithLogger(log.Logger()))

	fk := &fakeKeys{raw: make(map[keys.Code]int16)}
	oracle := keys.NewOracle(fk)

	fired := make(chan struct{}, 1)
	drive := func(s *session) {
		s.dispatched = func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		}
		go driveFake(fb, fk, fired)
	}
	return serveWith(m, "fake", oracle.Query, opts, &lineSink{w: os.Stdout}, drive)
}

func driveFake(fb *hotkey.FakeBackend, fk *fakeKeys, fired <-chan struct{}) {
	defer fb.Close()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch cmd {
		case "FIRE":
			sc, err := shortcut.Parse(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "FIRE: %v\n", err)
				continue
			}
			id, ok := fb.Lookup(sc.Modifiers, sc.Code)
			if !ok {
				fmt.Printf("unbound %v\n", sc)
				continue
			}
			fb.Fire(id)
		case "OTHER":
			fb.SendOther()
		case "STATE":
			name, rawText, _ := strings.Cut(arg, " ")
			code, ok := keys.Lookup(name)
			raw, err := strconv.ParseInt(rawText, 10, 16)
			if !ok || err != nil {
				fmt.Fprintf(os.Stderr, "STATE: bad argument %q\n", arg)
				continue
			}
			fk.set(code, int16(raw))
		case "WAIT":
			select {
			case <-fired:
			case <-time.After(5 * time.Second):
				fmt.Fprintln(os.Stderr, "WAIT: timed out")
			}
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "QUIT":
			return
		}
	}
}
