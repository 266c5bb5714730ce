// Package cue plays short synthesized tones as audible feedback for
// hotkey events. Playback is off until Enable is called.
package cue

import (
	"math"
	"sync/atomic"
)

// Sound selects a cue.
type Sound int

const (
	// Fired is a short high tick played when a shortcut's callback runs.
	Fired Sound = iota
	// Quit is a lower tick played when the dispatch loop is asked to stop.
	Quit
	// Failed is a low double beep played when a shortcut cannot be bound.
	Failed
)

const sampleRate = 44100

type toneSpec struct {
	freq     float64
	duration float64 // seconds
	volume   float64
	decay    float64
	double   bool
}

var specs = map[Sound]toneSpec{
	Fired:  {freq: 1200, duration: 0.2, volume: 0.5, decay: 60},
	Quit:   {freq: 900, duration: 0.2, volume: 0.5, decay: 40},
	Failed: {freq: 350, duration: 0.08, volume: 0.6, decay: 30, double: true},
}

const doubleGap = 0.05

var enabled atomic.Bool

func Enable() { enabled.Store(true) }

func Enabled() bool { return enabled.Load() }

// Play starts s in the background. It does nothing unless Enable was called.
func Play(s Sound) {
	if !enabled.Load() {
		return
	}
	spec, ok := specs[s]
	if !ok {
		return
	}
	play(spec)
}

// tick renders an exponentially decaying sine as mono samples.
func tick(freq, duration, volume, decay float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func render(spec toneSpec) []int16 {
	one := tick(spec.freq, spec.duration, spec.volume, spec.decay)
	if !spec.double {
		return one
	}
	gap := make([]int16, int(float64(sampleRate)*doubleGap))
	out := make([]int16, 0, len(one)*2+len(gap))
	out = append(out, one...)
	out = append(out, gap...)
	return append(out, one...)
}
