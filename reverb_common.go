// reverb_common.go - Shared reverb building blocks and engine contract

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// ReverbEngine is the contract the dispatch stage drives. Configure takes
// the full edit-mode parameter surface; engines ignore the parameters they
// have no use for. ProcessSample must be allocation free.
type ReverbEngine interface {
	Configure(decay, diffusion, inputCutoff, tankCutoff, modSpeed, modDepth, modShape, preDelay float32)
	ProcessSample(inL, inR float32) (outL, outR float32)
	Clear()
}

// allpassFilter is a Schroeder allpass diffuser.
type allpassFilter struct {
	buf   []float32
	pos   int
	coeff float32
}

func newAllpassFilter(length int, coeff float32) allpassFilter {
	return allpassFilter{buf: make([]float32, length), coeff: coeff}
}

func (a *allpassFilter) Process(in float32) float32 {
	delayed := a.buf[a.pos]
	a.buf[a.pos] = in + delayed*a.coeff
	out := delayed - in*a.coeff
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (a *allpassFilter) Clear() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.pos = 0
}

// dampedComb is a feedback comb filter with a one-pole low-pass in the
// feedback path for high-frequency damping.
type dampedComb struct {
	buf       []float32
	pos       int
	decay     float32
	dampCoeff float32 // 0 = no damping, toward 1 = heavy damping
	dampState float32
}

func newDampedComb(length int, decay float32) dampedComb {
	return dampedComb{buf: make([]float32, length), decay: decay}
}

func (c *dampedComb) Process(in float32) float32 {
	delayed := c.buf[c.pos]
	c.dampState = delayed + c.dampCoeff*(c.dampState-delayed)
	c.buf[c.pos] = in + c.dampState*c.decay
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return delayed
}

func (c *dampedComb) Clear() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.pos = 0
	c.dampState = 0
}

// dampCoeffForCutoff maps a damping cutoff to the one-pole feedback
// coefficient: higher cutoff, less damping.
func dampCoeffForCutoff(cutoffHz, sampleRate float32) float32 {
	if cutoffHz >= sampleRate*0.45 {
		return 0
	}
	c := 1 - cutoffHz/(sampleRate*0.45)
	return clamp32(c, 0, 0.98)
}
