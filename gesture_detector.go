// gesture_detector.go - Footswitch gesture classification for the Flick Engine

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// FootswitchCallbacks carries the three optional gesture handlers. A nil
// handler means "not installed" and the corresponding gesture is dropped.
type FootswitchCallbacks struct {
	HandleNormalPress func(fs Footswitch)
	HandleDoublePress func(fs Footswitch)
	HandleLongPress   func(fs Footswitch)
}

// switchState is the per-footswitch gesture timing state, mutated once per
// control-loop tick by the detector that owns it.
type switchState struct {
	lastState          bool
	startTime          uint32
	lastPressTime      uint32
	pressCount         int
	longPressTriggered bool
}

// GestureDetector classifies raw debounced footswitch state into normal,
// double and long presses.
//
// Per tick: a rising edge records the press start and, when it lands inside
// DOUBLE_PRESS_WINDOW_MS of the previous rising edge, bumps the press count.
// A hold past HOLD_THRESHOLD_MS fires HandleLongPress exactly once. On
// release, a hold that never went long fires HandleDoublePress when the
// press count reached two, otherwise HandleNormalPress for a short press.
//
// Note that a double press therefore always arrives after a normal press
// was already delivered for the first release of the pair; double-press
// handlers are expected to reverse that effect first.
type GestureDetector struct {
	surface   ControlSurface
	callbacks *FootswitchCallbacks
	state     [FOOTSWITCH_COUNT]switchState
}

func NewGestureDetector(surface ControlSurface) *GestureDetector {
	return &GestureDetector{surface: surface}
}

// RegisterCallbacks installs the gesture handlers. With no callbacks
// registered the detector is a no-op.
func (g *GestureDetector) RegisterCallbacks(cb *FootswitchCallbacks) {
	g.callbacks = cb
}

// ProcessTick samples both footswitches and fires any classified gestures.
// Never blocks; called once per control-loop tick.
func (g *GestureDetector) ProcessTick(now uint32) {
	if g.callbacks == nil {
		return
	}
	g.processFootswitch(FOOTSWITCH_1, now)
	g.processFootswitch(FOOTSWITCH_2, now)
}

func (g *GestureDetector) processFootswitch(fs Footswitch, now uint32) {
	st := &g.state[fs]
	pressed := g.surface.FootswitchPressed(fs)

	if pressed && !st.lastState {
		// Rising edge
		st.startTime = now
		if now-st.lastPressTime <= DOUBLE_PRESS_WINDOW_MS {
			st.pressCount++
		} else {
			st.pressCount = 1
		}
		st.lastPressTime = now
		st.longPressTriggered = false
	}

	pressDuration := now - st.startTime

	if pressed && pressDuration >= HOLD_THRESHOLD_MS && !st.longPressTriggered {
		if g.callbacks.HandleLongPress != nil {
			g.callbacks.HandleLongPress(fs)
		}
		st.longPressTriggered = true // Long press fires only once per hold
	}

	if !pressed && st.lastState {
		// Release
		if !st.longPressTriggered {
			if st.pressCount >= 2 {
				if g.callbacks.HandleDoublePress != nil {
					g.callbacks.HandleDoublePress(fs)
				}
				st.pressCount = 0
			} else if pressDuration < HOLD_THRESHOLD_MS && g.callbacks.HandleNormalPress != nil {
				g.callbacks.HandleNormalPress(fs)
			}
		}
	}

	st.lastState = pressed
}

// DualHoldMonitor watches for both footswitches held together for
// DUAL_HOLD_DFU_MS and then triggers the irreversible firmware-update
// hand-off. While the hold is in progress the LEDs alternate as a visual
// countdown.
type DualHoldMonitor struct {
	surface   ControlSurface
	leds      *LedIndicator
	onTrigger func()

	holdStart  uint32
	holding    bool
	fired      bool
	blinkState bool
	lastBlink  uint32
}

func NewDualHoldMonitor(surface ControlSurface, leds *LedIndicator, onTrigger func()) *DualHoldMonitor {
	return &DualHoldMonitor{surface: surface, leds: leds, onTrigger: onTrigger}
}

// Check polls the dual-hold condition. Called once per control-loop tick.
func (d *DualHoldMonitor) Check(now uint32) {
	if d.fired {
		return
	}
	both := d.surface.FootswitchPressed(FOOTSWITCH_1) && d.surface.FootswitchPressed(FOOTSWITCH_2)
	if !both {
		d.holding = false
		return
	}
	if !d.holding {
		d.holding = true
		d.holdStart = now
		d.lastBlink = now
		return
	}

	// Countdown flash: alternate the LEDs at 10Hz while the hold endures
	if now-d.lastBlink >= 100 {
		d.lastBlink = now
		d.blinkState = !d.blinkState
		if d.leds != nil {
			d.leds.SetAlternate(d.blinkState)
		}
	}

	if now-d.holdStart >= DUAL_HOLD_DFU_MS {
		d.fired = true
		if d.onTrigger != nil {
			d.onTrigger()
		}
	}
}

// Triggered reports whether the hand-off already fired.
func (d *DualHoldMonitor) Triggered() bool { return d.fired }
