// takeover.go - Soft-takeover parameter capture for edit modes

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

import "math"

// KnobCapture implements soft takeover for knob-based parameters.
//
// When entering an edit mode the current parameter value is frozen and the
// knob position recorded as a baseline. Process keeps returning the frozen
// value until the knob moves at least threshold away from the baseline,
// preventing a knob that controlled parameter A in normal mode from
// slamming parameter B to its physical position the instant edit mode is
// entered. Capture must complete before the mode enum flips so the audio
// path never sees the new mode with stale capture state.
type KnobCapture struct {
	surface     ControlSurface
	knob        Knob
	threshold   float32
	frozenKnob  float32 // Baseline knob position at capture
	frozenValue float32 // Parameter value frozen at capture
	frozen      bool
}

// NewKnobCapture binds a capture to a knob. A zero threshold selects the
// default 5% of full range.
func NewKnobCapture(surface ControlSurface, knob Knob, threshold float32) *KnobCapture {
	if threshold <= 0 {
		threshold = KNOB_TAKEOVER_THRESHOLD
	}
	return &KnobCapture{surface: surface, knob: knob, threshold: threshold}
}

// Capture freezes value and records the knob baseline. Call on edit-mode entry.
func (c *KnobCapture) Capture(value float32) {
	c.frozenKnob = c.surface.KnobValue(c.knob)
	c.frozenValue = value
	c.frozen = true
}

// Process arbitrates between the frozen value and current, the caller's
// freshly computed (already scaled) parameter value. Pass-through when not
// frozen; otherwise the frozen value until the knob moves past the
// threshold, which activates pass-through permanently for this capture.
func (c *KnobCapture) Process(current float32) float32 {
	if !c.frozen {
		return current
	}
	raw := c.surface.KnobValue(c.knob)
	if float32(math.Abs(float64(raw-c.frozenKnob))) >= c.threshold {
		c.frozen = false
		return current
	}
	return c.frozenValue
}

// Reset forces pass-through, discarding any frozen value. Call on edit-mode exit.
func (c *KnobCapture) Reset() { c.frozen = false }

// IsFrozen reports whether the capture still holds the frozen value.
func (c *KnobCapture) IsFrozen() bool { return c.frozen }

// FrozenValue returns the parameter value recorded at capture.
func (c *KnobCapture) FrozenValue() float32 { return c.frozenValue }

// SwitchCapture is the discrete flavour of soft takeover: the parameter
// stays frozen until the toggle switch moves to any different position.
type SwitchCapture struct {
	surface      ControlSurface
	sw           Toggleswitch
	frozenSwitch ToggleswitchPosition
	frozenValue  float32
	frozen       bool
}

func NewSwitchCapture(surface ControlSurface, sw Toggleswitch) *SwitchCapture {
	return &SwitchCapture{surface: surface, sw: sw}
}

// Capture freezes value and records the switch position. Call on edit-mode entry.
func (c *SwitchCapture) Capture(value float32) {
	c.frozenSwitch = c.surface.ToggleswitchPosition(c.sw)
	c.frozenValue = value
	c.frozen = true
}

// Process returns current (the caller's value looked up from the live
// switch position) once the switch has moved, the frozen value otherwise.
func (c *SwitchCapture) Process(current float32) float32 {
	if !c.frozen {
		return current
	}
	if c.surface.ToggleswitchPosition(c.sw) != c.frozenSwitch {
		c.frozen = false
		return current
	}
	return c.frozenValue
}

// Position returns the live switch position, arbitrated: while frozen it
// reports the baseline position.
func (c *SwitchCapture) Position() ToggleswitchPosition {
	pos := c.surface.ToggleswitchPosition(c.sw)
	if !c.frozen {
		return pos
	}
	if pos != c.frozenSwitch {
		c.frozen = false
		return pos
	}
	return c.frozenSwitch
}

// Reset forces pass-through, discarding any frozen value.
func (c *SwitchCapture) Reset() { c.frozen = false }

// IsFrozen reports whether the capture still holds the frozen value.
func (c *SwitchCapture) IsFrozen() bool { return c.frozen }

// FrozenValue returns the parameter value recorded at capture.
func (c *SwitchCapture) FrozenValue() float32 { return c.frozenValue }
