// takeover_test.go - Soft-takeover arbitration tests

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

import "testing"

func TestKnobCapture_FreezesUntilMoved(t *testing.T) {
	t.Log("=== KNOB SOFT TAKEOVER ===")
	t.Log("A captured parameter holds its frozen value until the knob moves")
	t.Log("past the takeover threshold, then tracks the knob permanently")

	controls := NewSimControls()
	controls.SetKnob(KNOB_3, 0.50)
	capture := NewKnobCapture(controls, KNOB_3, 0)

	capture.Capture(0.80) // Stored value differs from knob position
	if !capture.IsFrozen() {
		t.Fatal("capture did not freeze")
	}

	// Knob untouched: frozen value wins
	if got := capture.Process(0.50); got != 0.80 {
		t.Errorf("unmoved knob: want frozen 0.80, got %v", got)
	}

	// Wiggle inside the threshold: still frozen
	controls.SetKnob(KNOB_3, 0.52)
	if got := capture.Process(0.52); got != 0.80 {
		t.Errorf("sub-threshold wiggle: want frozen 0.80, got %v", got)
	}

	// Cross the threshold: knob grabs the parameter
	controls.SetKnob(KNOB_3, 0.58)
	if got := capture.Process(0.58); got != 0.58 {
		t.Errorf("threshold crossed: want live 0.58, got %v", got)
	}
	if capture.IsFrozen() {
		t.Error("capture should stay unfrozen once grabbed")
	}

	// Moving back near the old baseline must NOT re-freeze
	controls.SetKnob(KNOB_3, 0.50)
	if got := capture.Process(0.50); got != 0.50 {
		t.Errorf("after grab: want live 0.50, got %v", got)
	}
}

func TestKnobCapture_ThresholdIsSymmetric(t *testing.T) {
	for _, dir := range []float32{+1, -1} {
		controls := NewSimControls()
		controls.SetKnob(KNOB_1, 0.50)
		capture := NewKnobCapture(controls, KNOB_1, 0)
		capture.Capture(0.20)

		pos := 0.50 + dir*KNOB_TAKEOVER_THRESHOLD
		controls.SetKnob(KNOB_1, pos)
		if got := capture.Process(pos); got != pos {
			t.Errorf("direction %+.0f: movement of exactly the threshold should grab, got %v", dir, got)
		}
	}
}

func TestKnobCapture_ResetForcesPassThrough(t *testing.T) {
	controls := NewSimControls()
	controls.SetKnob(KNOB_2, 0.10)
	capture := NewKnobCapture(controls, KNOB_2, 0)

	capture.Capture(0.90)
	capture.Reset()
	if capture.IsFrozen() {
		t.Fatal("Reset left the capture frozen")
	}
	if got := capture.Process(0.10); got != 0.10 {
		t.Errorf("after Reset: want live 0.10, got %v", got)
	}
}

func TestKnobCapture_FrozenValueSurvivesRecapture(t *testing.T) {
	controls := NewSimControls()
	controls.SetKnob(KNOB_4, 0.30)
	capture := NewKnobCapture(controls, KNOB_4, 0)

	capture.Capture(0.42)
	if capture.FrozenValue() != 0.42 {
		t.Errorf("FrozenValue: want 0.42, got %v", capture.FrozenValue())
	}

	// New capture re-baselines at the current knob position
	controls.SetKnob(KNOB_4, 0.90)
	capture.Capture(0.77)
	if got := capture.Process(0.90); got != 0.77 {
		t.Errorf("re-capture should re-baseline, want frozen 0.77, got %v", got)
	}
}

func TestSwitchCapture_AnyMovementGrabs(t *testing.T) {
	t.Log("=== TOGGLE SOFT TAKEOVER ===")
	t.Log("A captured switch parameter unfreezes on any position change,")
	t.Log("including moving back through the baseline later")

	controls := NewSimControls()
	controls.SetToggle(TOGGLESWITCH_1, TOGGLESWITCH_MIDDLE)
	capture := NewSwitchCapture(controls, TOGGLESWITCH_1)

	capture.Capture(0.25)
	if got := capture.Process(0.5); got != 0.25 {
		t.Errorf("unmoved toggle: want frozen 0.25, got %v", got)
	}
	if pos := capture.Position(); pos != TOGGLESWITCH_MIDDLE {
		t.Errorf("frozen Position: want MIDDLE, got %v", pos)
	}

	controls.SetToggle(TOGGLESWITCH_1, TOGGLESWITCH_LEFT)
	if got := capture.Process(1.0); got != 1.0 {
		t.Errorf("moved toggle: want live 1.0, got %v", got)
	}

	// Back to the original baseline: still live
	controls.SetToggle(TOGGLESWITCH_1, TOGGLESWITCH_MIDDLE)
	if pos := capture.Position(); pos != TOGGLESWITCH_MIDDLE {
		t.Errorf("live Position: want MIDDLE, got %v", pos)
	}
	if capture.IsFrozen() {
		t.Error("capture should stay unfrozen once the switch has moved")
	}
}

func TestSwitchCapture_PositionUnfreezes(t *testing.T) {
	controls := NewSimControls()
	controls.SetToggle(TOGGLESWITCH_3, TOGGLESWITCH_RIGHT)
	capture := NewSwitchCapture(controls, TOGGLESWITCH_3)

	capture.Capture(0.1)
	controls.SetToggle(TOGGLESWITCH_3, TOGGLESWITCH_LEFT)

	// Position alone must release the freeze, same as Process
	if pos := capture.Position(); pos != TOGGLESWITCH_LEFT {
		t.Errorf("Position after movement: want LEFT, got %v", pos)
	}
	if capture.IsFrozen() {
		t.Error("Position should have unfrozen the capture")
	}
}
