// control_io.go - Control surface, clock and LED contracts for the Flick Engine

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

import (
	"sync"
	"time"
)

// Footswitch identifies one of the two footswitches.
type Footswitch int

const (
	FOOTSWITCH_1 Footswitch = iota // Left
	FOOTSWITCH_2                   // Right
	FOOTSWITCH_COUNT
)

// Knob identifies one of the six potentiometers. Values are normalized to
// [0, 1] by the control surface.
type Knob int

const (
	KNOB_1 Knob = iota
	KNOB_2
	KNOB_3
	KNOB_4
	KNOB_5
	KNOB_6
	KNOB_COUNT
)

// Toggleswitch identifies one of the three 3-position toggles.
type Toggleswitch int

const (
	TOGGLESWITCH_1 Toggleswitch = iota
	TOGGLESWITCH_2
	TOGGLESWITCH_3
	TOGGLESWITCH_COUNT
)

// ToggleswitchPosition is the logical position of a 3-position toggle.
type ToggleswitchPosition int

const (
	TOGGLESWITCH_LEFT ToggleswitchPosition = iota
	TOGGLESWITCH_MIDDLE
	TOGGLESWITCH_RIGHT
	TOGGLESWITCH_UNKNOWN // Sentinel for an out-of-range query
)

// ControlSurface is the read contract for the physical control surface.
// Knobs report a normalized float, toggles a logical 3-valued position,
// footswitches a debounced boolean, and the DIP switches raw booleans.
// Implementations must be safe to read from both timing domains.
type ControlSurface interface {
	KnobValue(k Knob) float32
	ToggleswitchPosition(t Toggleswitch) ToggleswitchPosition
	FootswitchPressed(f Footswitch) bool
	DIPSwitch(n int) bool
}

// LED is a single indicator lamp. Set stages a brightness in [0, 1];
// Update pushes it to the hardware (or sink).
type LED interface {
	Set(brightness float32)
	Update()
}

// Clock provides millisecond timestamps for gesture and timeout polling.
type Clock interface {
	NowMs() uint32
}

// SystemClock derives millisecond timestamps from the process monotonic clock.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) NowMs() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

// SimClock is a manually advanced clock for tests and offline rendering.
type SimClock struct {
	now uint32
}

func (c *SimClock) NowMs() uint32 { return c.now }

// Advance moves the clock forward by ms milliseconds.
func (c *SimClock) Advance(ms uint32) { c.now += ms }

// SimControls is an in-memory control surface driven by the terminal host
// and by tests. All accessors lock, which is acceptable because the audio
// domain only reads controls during block-start parameter resolution.
type SimControls struct {
	mu           sync.Mutex
	knobs        [KNOB_COUNT]float32
	toggles      [TOGGLESWITCH_COUNT]ToggleswitchPosition
	footswitches [FOOTSWITCH_COUNT]bool
	dips         [4]bool
}

func NewSimControls() *SimControls {
	s := &SimControls{}
	for i := range s.toggles {
		s.toggles[i] = TOGGLESWITCH_MIDDLE
	}
	return s
}

func (s *SimControls) KnobValue(k Knob) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k < 0 || k >= KNOB_COUNT {
		return 0
	}
	return s.knobs[k]
}

func (s *SimControls) ToggleswitchPosition(t Toggleswitch) ToggleswitchPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t < 0 || t >= TOGGLESWITCH_COUNT {
		return TOGGLESWITCH_UNKNOWN
	}
	return s.toggles[t]
}

func (s *SimControls) FootswitchPressed(f Footswitch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f < 0 || f >= FOOTSWITCH_COUNT {
		return false
	}
	return s.footswitches[f]
}

func (s *SimControls) DIPSwitch(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 || n >= len(s.dips) {
		return false
	}
	return s.dips[n]
}

func (s *SimControls) SetKnob(k Knob, v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k < 0 || k >= KNOB_COUNT {
		return
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	s.knobs[k] = v
}

func (s *SimControls) SetToggle(t Toggleswitch, pos ToggleswitchPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t < 0 || t >= TOGGLESWITCH_COUNT || pos < TOGGLESWITCH_LEFT || pos > TOGGLESWITCH_RIGHT {
		return
	}
	s.toggles[t] = pos
}

func (s *SimControls) SetFootswitch(f Footswitch, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f < 0 || f >= FOOTSWITCH_COUNT {
		return
	}
	s.footswitches[f] = pressed
}

func (s *SimControls) SetDIPSwitch(n int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 || n >= len(s.dips) {
		return
	}
	s.dips[n] = on
}

// SimLED records brightness for tests and the headless frontend.
type SimLED struct {
	mu         sync.Mutex
	staged     float32
	Brightness float32
}

func (l *SimLED) Set(brightness float32) {
	l.mu.Lock()
	l.staged = brightness
	l.mu.Unlock()
}

func (l *SimLED) Update() {
	l.mu.Lock()
	l.Brightness = l.staged
	l.mu.Unlock()
}

// Value returns the last pushed brightness.
func (l *SimLED) Value() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Brightness
}
