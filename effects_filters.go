// effects_filters.go - Biquad filter primitives for the effects pipeline

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

// Direct form I biquad. Coefficients follow the RBJ audio EQ cookbook,
// normalized by a0.
type biquad struct {
	b0, b1, b2 float32
	a1, a2     float32
	x1, x2     float32
	y1, y2     float32
}

func (f *biquad) set(b0, b1, b2, a0, a1, a2 float64) {
	f.b0 = float32(b0 / a0)
	f.b1 = float32(b1 / a0)
	f.b2 = float32(b2 / a0)
	f.a1 = float32(a1 / a0)
	f.a2 = float32(a2 / a0)
}

// Process runs one sample through the filter.
func (f *biquad) Process(in float32) float32 {
	out := f.b0*in + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2 = f.x1
	f.x1 = in
	f.y2 = f.y1
	f.y1 = out
	return out
}

// Reset clears the filter state without touching the coefficients.
func (f *biquad) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

// LowPassFilter is a 2nd-order Butterworth low-pass.
type LowPassFilter struct{ biquad }

func (f *LowPassFilter) Init(cutoff, sampleRate float32) {
	w0 := 2 * math.Pi * float64(cutoff) / float64(sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * 0.7071) // Butterworth Q
	f.set((1-cosW0)/2, 1-cosW0, (1-cosW0)/2, 1+alpha, -2*cosW0, 1-alpha)
}

// HighPassFilter is a 2nd-order Butterworth high-pass.
type HighPassFilter struct{ biquad }

func (f *HighPassFilter) Init(cutoff, sampleRate float32) {
	w0 := 2 * math.Pi * float64(cutoff) / float64(sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * 0.7071)
	f.set((1+cosW0)/2, -(1 + cosW0), (1+cosW0)/2, 1+alpha, -2*cosW0, 1-alpha)
}

// PeakingEQ boosts or cuts around a center frequency. A deep narrow cut
// (high Q, large negative gain) doubles as the resonance notch.
type PeakingEQ struct{ biquad }

func (f *PeakingEQ) Init(freq, gainDB, q, sampleRate float32) {
	a := math.Pow(10, float64(gainDB)/40)
	w0 := 2 * math.Pi * float64(freq) / float64(sampleRate)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * float64(q))
	f.set(1+alpha*a, -2*cosW0, 1-alpha*a, 1+alpha/a, -2*cosW0, 1-alpha/a)
}

// LowShelf boosts or cuts everything below a corner frequency.
type LowShelf struct{ biquad }

func (f *LowShelf) Init(freq, gainDB, slope, sampleRate float32) {
	a := math.Pow(10, float64(gainDB)/40)
	w0 := 2 * math.Pi * float64(freq) / float64(sampleRate)
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / 2 * math.Sqrt((a+1/a)*(1/float64(slope)-1)+2)
	sqrtA2Alpha := 2 * math.Sqrt(a) * alpha
	f.set(
		a*((a+1)-(a-1)*cosW0+sqrtA2Alpha),
		2*a*((a-1)-(a+1)*cosW0),
		a*((a+1)-(a-1)*cosW0-sqrtA2Alpha),
		(a+1)+(a-1)*cosW0+sqrtA2Alpha,
		-2*((a-1)+(a+1)*cosW0),
		(a+1)+(a-1)*cosW0-sqrtA2Alpha,
	)
}

// onePole moves out toward in by coeff per sample. The classic smoothing
// primitive for de-zippering parameter changes.
func onePole(out *float32, in, coeff float32) {
	*out += coeff * (in - *out)
}

// hardLimit clamps x to [-1, 1].
func hardLimit(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// dampingPitchToHz converts the 0-10 damping pitch used by the plate
// reverb controls to a frequency: 440 * 2^(p-5), clamped to a usable range.
func dampingPitchToHz(pitch, sampleRate float32) float32 {
	hz := float32(440.0 * math.Pow(2, float64(pitch)-5))
	return clamp32(hz, 20, sampleRate*0.45)
}
