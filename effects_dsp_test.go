// effects_dsp_test.go - DSP primitive tests: delay line, LFO, limiting

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
	"math"
	"testing"
)

func TestDelayLine_TapPosition(t *testing.T) {
	t.Log("=== DELAY LINE, WHOLE-SAMPLE TAP ===")

	d := NewDelayLine(128)
	d.Write(1.0)
	for i := 0; i < 9; i++ {
		d.Write(0.0)
	}
	// Ten writes ago counting from the head: the impulse
	if got := d.ReadAt(10); got != 1.0 {
		t.Errorf("ReadAt(10): want the impulse, got %v", got)
	}
	if got := d.ReadAt(9); got != 0.0 {
		t.Errorf("ReadAt(9): want silence, got %v", got)
	}
}

func TestDelayLine_FractionalInterpolation(t *testing.T) {
	t.Log("=== DELAY LINE, FRACTIONAL TAP ===")
	t.Log("A half-sample tap between an impulse and silence reads 0.5")

	d := NewDelayLine(128)
	d.Write(1.0)
	for i := 0; i < 9; i++ {
		d.Write(0.0)
	}
	if got := d.ReadAt(9.5); got != 0.5 {
		t.Errorf("ReadAt(9.5): want 0.5, got %v", got)
	}
}

func TestDelayLine_WrapAround(t *testing.T) {
	d := NewDelayLine(16)
	for i := 0; i < 100; i++ {
		d.Write(float32(i))
	}
	// Most recent write was 99, one sample back
	if got := d.ReadAt(1); got != 99 {
		t.Errorf("ReadAt(1) after wrap: want 99, got %v", got)
	}
	if got := d.ReadAt(5); got != 95 {
		t.Errorf("ReadAt(5) after wrap: want 95, got %v", got)
	}
}

func TestDelayChannel_FeedbackDecays(t *testing.T) {
	t.Log("=== DELAY FEEDBACK ===")
	t.Log("Each pass around the loop scales by the feedback gain")

	c := NewDelayChannel(256)
	c.SetFeedback(0.5)
	c.SetTarget(10)
	// Force the glide to its destination so taps land on whole samples
	c.currentDelay = 10

	var peaks []float32
	in := float32(1.0)
	for i := 0; i < 40; i++ {
		out := c.Process(in)
		in = 0
		if out != 0 {
			peaks = append(peaks, out)
		}
	}

	if len(peaks) < 3 {
		t.Fatalf("expected at least three echoes, got %v", peaks)
	}
	for i := 1; i < 3; i++ {
		ratio := peaks[i] / peaks[i-1]
		if ratio < 0.49 || ratio > 0.51 {
			t.Errorf("echo %d decay ratio %v, want ~0.5", i, ratio)
		}
	}
}

func TestTremoloOscillator_SineBounds(t *testing.T) {
	t.Log("=== TREMOLO LFO ===")
	t.Log("One full cycle stays inside ±amp and actually reaches both lobes")

	osc := NewTremoloOscillator(48000)
	osc.SetFreq(100) // 480 samples per cycle
	osc.SetAmp(0.5)
	osc.SetWaveform(WAVE_SIN)

	var min, max float32
	for i := 0; i < 480; i++ {
		v := osc.Process()
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max < 0.49 || max > 0.5001 {
		t.Errorf("positive lobe peak %v, want ~0.5", max)
	}
	if min > -0.49 || min < -0.5001 {
		t.Errorf("negative lobe peak %v, want ~-0.5", min)
	}
}

func TestTremoloOscillator_RoundedSquareSaturates(t *testing.T) {
	t.Log("The opto waveform spends most of the cycle near the rails")

	osc := NewTremoloOscillator(48000)
	osc.SetFreq(100)
	osc.SetAmp(1.0)
	osc.SetWaveform(WAVE_SQUARE_ROUNDED)

	nearRail := 0
	const n = 480
	for i := 0; i < n; i++ {
		v := osc.Process()
		if v > 0.9 || v < -0.9 {
			nearRail++
		}
	}
	// A sine spends ~29% of its cycle above 0.9 in magnitude; the shaped
	// square must spend far more
	if nearRail < n/2 {
		t.Errorf("only %d/%d samples near the rails", nearRail, n)
	}
}

func TestFastSinAccuracy(t *testing.T) {
	for i := 0; i < 1000; i++ {
		phase := float32(i) * 2 * math.Pi / 1000
		if phase >= 2*math.Pi {
			break
		}
		got := float64(fastSin(phase))
		want := math.Sin(float64(phase))
		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("fastSin(%v) = %v, want %v", phase, got, want)
		}
	}
}

func TestFastTanhAccuracyAndClamp(t *testing.T) {
	for _, x := range []float32{-3.5, -1.0, -0.1, 0, 0.1, 1.0, 3.5} {
		got := float64(fastTanh(x))
		want := math.Tanh(float64(x))
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("fastTanh(%v) = %v, want %v", x, got, want)
		}
	}
	if fastTanh(10) != 1.0 || fastTanh(-10) != -1.0 {
		t.Error("fastTanh must clamp to ±1 outside the table range")
	}
}

func TestHardLimit(t *testing.T) {
	cases := []struct{ in, want float32 }{
		{0.5, 0.5},
		{-0.5, -0.5},
		{1.0, 1.0},
		{1.5, 1.0},
		{-2.0, -1.0},
	}
	for _, tc := range cases {
		if got := hardLimit(tc.in); got != tc.want {
			t.Errorf("hardLimit(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDampingPitchToHz(t *testing.T) {
	t.Log("=== DAMPING PITCH MAP ===")
	t.Log("Pitch 5 is 440Hz, each unit doubles or halves, extremes clamp")

	if got := dampingPitchToHz(5, 48000); got != 440 {
		t.Errorf("pitch 5: want 440Hz, got %v", got)
	}
	if got := dampingPitchToHz(6, 48000); got != 880 {
		t.Errorf("pitch 6: want 880Hz, got %v", got)
	}
	if got := dampingPitchToHz(0, 48000); got < 20 || got > 20.5 {
		t.Errorf("pitch 0: want ~20Hz (clamp floor region), got %v", got)
	}
	if got := dampingPitchToHz(10, 48000); got != 14080 {
		t.Errorf("pitch 10: want 14080Hz, got %v", got)
	}
	// The Nyquist guard engages at low sample rates
	guard := float32(16000) * 0.45
	if got := dampingPitchToHz(10, 16000); got != guard {
		t.Errorf("pitch 10 at 16kHz: want the Nyquist guard clamp %v, got %v", guard, got)
	}
}
