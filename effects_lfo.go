// effects_lfo.go - Tremolo LFO and sine/tanh lookup tables

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

// Lookup table sizes
const (
	sinLUTSize  = 8192           // ~0.00077 radian resolution
	sinLUTMask  = sinLUTSize - 1 // Mask for fast modulo
	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
)

// Precomputed scale factors
const (
	sinLUTScale  = float32(sinLUTSize) / (2 * math.Pi)
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

// sinLUT contains precomputed sine values for phase [0, 2π)
var sinLUT [sinLUTSize]float32

// tanhLUT contains precomputed tanh values for input [-4, 4];
// values outside this range clamp to ±1
var tanhLUT [tanhLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * 2 * math.Pi / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(phase))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
}

// fastSin returns sin(phase) using the lookup table with linear
// interpolation. phase must be in [0, 2π).
func fastSin(phase float32) float32 {
	pos := phase * sinLUTScale
	idx := int(pos)
	frac := pos - float32(idx)
	s1 := sinLUT[idx&sinLUTMask]
	s2 := sinLUT[(idx+1)&sinLUTMask]
	return s1 + (s2-s1)*frac
}

// fastTanh returns tanh(x) from the lookup table, clamped outside [-4, 4].
func fastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}
	pos := (x - tanhLUTMin) * tanhLUTScale
	idx := int(pos)
	frac := pos - float32(idx)
	t1 := tanhLUT[idx]
	t2 := tanhLUT[idx+1]
	return t1 + (t2-t1)*frac
}

// Tremolo oscillator waveforms
const (
	WAVE_SIN = iota
	WAVE_SQUARE_ROUNDED // Tanh-shaped square for opto-style tremolo
)

// TremoloOscillator is the amplitude-modulation LFO. Process advances one
// sample and returns the amplitude-scaled LFO value in [-amp, amp].
type TremoloOscillator struct {
	sampleRate float32
	phase      float32 // [0, 2π)
	phaseInc   float32
	amp        float32
	waveform   int
}

func NewTremoloOscillator(sampleRate float32) *TremoloOscillator {
	return &TremoloOscillator{sampleRate: sampleRate}
}

// SetFreq sets the LFO rate in Hz.
func (o *TremoloOscillator) SetFreq(hz float32) {
	o.phaseInc = hz * (2 * math.Pi) / o.sampleRate
}

// SetAmp sets the output amplitude (tremolo depth).
func (o *TremoloOscillator) SetAmp(amp float32) { o.amp = amp }

// SetWaveform selects WAVE_SIN or WAVE_SQUARE_ROUNDED.
func (o *TremoloOscillator) SetWaveform(w int) { o.waveform = w }

// Process advances the phase by one sample and returns the LFO value.
func (o *TremoloOscillator) Process() float32 {
	s := fastSin(o.phase)
	if o.waveform == WAVE_SQUARE_ROUNDED {
		// Soft-clipped sine approximates the lamp/photocell response of
		// an opto tremolo better than a hard-edged square
		s = fastTanh(4.0 * s)
	}

	o.phase += o.phaseInc
	if o.phase >= 2*math.Pi {
		o.phase -= 2 * math.Pi
	}
	return s * o.amp
}
