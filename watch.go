package main

import (
	"context"
	"time"

	"umiko/keys"
	"umiko/log"
)

const watchInterval = 100 * time.Millisecond

// QueryFunc reads the state of one key.
type QueryFunc func(keys.Code) (keys.State, error)

// watchKeys polls codes and reports each change to sink until ctx ends.
// A key whose state cannot be read is reported once and then dropped.
func watchKeys(ctx context.Context, query QueryFunc, codes []keys.Code, sink EventSink) {
	if len(codes) == 0 {
		return
	}
	last := make(map[keys.Code]keys.State, len(codes))
	active := append([]keys.Code(nil), codes...)

	poll := func() {
		kept := active[:0]
		for _, code := range active {
			st, err := query(code)
			if err != nil {
				log.Warnf("watch %v: %v", code, err)
				sink.Status("cannot watch " + code.String() + ": " + err.Error())
				continue
			}
			kept = append(kept, code)
			if prev, seen := last[code]; seen && prev == st {
				continue
			}
			last[code] = st
			log.KeyState(code.String(), st.String())
			sink.KeyState(code, st)
		}
		active = kept
	}

	poll()
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for len(active) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
