// reverb_engines_test.go - Shared behaviour tests for the three reverb engines

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

const verbTestSampleRate = 48000.0

func reverbEngines(t *testing.T) map[string]ReverbEngine {
	t.Helper()
	return map[string]ReverbEngine{
		"plate":  NewPlateReverb(verbTestSampleRate),
		"spring": NewSpringReverb(verbTestSampleRate),
		"hall":   NewHallReverb(verbTestSampleRate),
	}
}

// tailEnergy excites an engine with a unit impulse and integrates the output
// power over a window starting after the excitation.
func tailEnergy(e ReverbEngine, excite, window int) float64 {
	for i := 0; i < excite; i++ {
		in := float32(0.0)
		if i == 0 {
			in = 1.0
		}
		e.ProcessSample(in, in)
	}
	var energy float64
	for i := 0; i < window; i++ {
		l, r := e.ProcessSample(0, 0)
		energy += float64(l)*float64(l) + float64(r)*float64(r)
	}
	return energy
}

func TestReverbEngines_ImpulseProducesATail(t *testing.T) {
	t.Log("=== IMPULSE RESPONSE ===")
	t.Log("Each engine must still be ringing thousands of samples after a")
	t.Log("single impulse")

	for name, e := range reverbEngines(t) {
		e.Configure(0.8, 0.85, 7.25, 7.25, 0, 0, 0, 0)
		if energy := tailEnergy(e, 4096, 8192); energy == 0 {
			t.Errorf("%s: no tail energy", name)
		}
	}
}

func TestReverbEngines_DecayControlsTailLength(t *testing.T) {
	t.Log("=== DECAY PARAMETER ===")
	t.Log("Full decay must leave more late-tail energy than minimum decay")

	for name := range reverbEngines(t) {
		short := reverbEngines(t)[name]
		long := reverbEngines(t)[name]
		short.Configure(0.0, 0.85, 7.25, 7.25, 0, 0, 0, 0)
		long.Configure(1.0, 0.85, 7.25, 7.25, 0, 0, 0, 0)

		shortE := tailEnergy(short, 4096, 16384)
		longE := tailEnergy(long, 4096, 16384)
		if longE <= shortE {
			t.Errorf("%s: late tail at full decay (%v) not above minimum decay (%v)", name, longE, shortE)
		}
	}
}

func TestReverbEngines_ClearSilencesTheTank(t *testing.T) {
	t.Log("=== CLEAR ===")
	t.Log("After a flush a silent input must produce exactly silence")

	for name, e := range reverbEngines(t) {
		e.Configure(1.0, 0.85, 7.25, 7.25, 0, 0, 0, 0)
		tailEnergy(e, 4096, 1024) // Excite
		e.Clear()
		for i := 0; i < 4096; i++ {
			l, r := e.ProcessSample(0, 0)
			if l != 0 || r != 0 {
				t.Errorf("%s: residual output after Clear at sample %d: L=%v R=%v", name, i, l, r)
				break
			}
		}
	}
}

func TestReverbEngines_Stability(t *testing.T) {
	t.Log("=== STABILITY ===")
	t.Log("A sustained full-scale input at maximum decay must not blow up")

	for name, e := range reverbEngines(t) {
		e.Configure(1.0, 1.0, 10, 10, 0, 0, 0, 0)
		var peak float64
		for i := 0; i < verbTestSampleRate; i++ {
			l, r := e.ProcessSample(1.0, 1.0)
			la, ra := math.Abs(float64(l)), math.Abs(float64(r))
			if la > peak {
				peak = la
			}
			if ra > peak {
				peak = ra
			}
		}
		if math.IsNaN(peak) || math.IsInf(peak, 0) || peak > 1000 {
			t.Errorf("%s: unstable, peak %v", name, peak)
		}
	}
}

func TestPlateReverb_StereoDecorrelation(t *testing.T) {
	t.Log("=== PLATE STEREO FIELD ===")
	t.Log("The two tank sides use different prime lengths, so the channels")
	t.Log("must not be identical")

	p := NewPlateReverb(verbTestSampleRate)
	p.Configure(0.8, 0.85, 7.25, 7.25, 0, 0, 0, 0)

	differs := false
	for i := 0; i < 8192; i++ {
		in := float32(0.0)
		if i == 0 {
			in = 1.0
		}
		l, r := p.ProcessSample(in, in)
		if l != r {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("left and right tails are identical")
	}
}
