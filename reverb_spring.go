// reverb_spring.go - spring tank reverb engine

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// The spring character comes from a long cascade of short allpasses: each
// reflection gets smeared again on every pass through the loop, producing
// the familiar chirp on transients. A small damped comb bank behind the
// cascade supplies the tail.
const (
	SPRING_CHIRP_STAGES  = 8
	SPRING_CHIRP_COEFF   = 0.6
	SPRING_COMB_MIX      = 0.3333334
	SPRING_OUTPUT_SPREAD = 0.8 // right channel reads the cascade one stage early
)

var springChirpLengths = [SPRING_CHIRP_STAGES]int{23, 29, 37, 43, 53, 61, 71, 83}
var springCombLengthsL = [3]int{1913, 2129, 2347}
var springCombLengthsR = [3]int{1949, 2161, 2383}
var springCombDecayScale = [3]float32{1.0, 0.97, 0.94}

// SpringReverb ignores the plate-only mod and pre-delay parameters; its
// Configure keeps the full engine signature so the caller can swap engines
// without special cases.
type SpringReverb struct {
	sampleRate float32

	chirps [SPRING_CHIRP_STAGES]allpassFilter
	combsL [3]dampedComb
	combsR [3]dampedComb
}

func NewSpringReverb(sampleRate float32) *SpringReverb {
	s := &SpringReverb{sampleRate: sampleRate}
	for i := range s.chirps {
		s.chirps[i] = newAllpassFilter(springChirpLengths[i], SPRING_CHIRP_COEFF)
	}
	for i := 0; i < 3; i++ {
		s.combsL[i] = newDampedComb(springCombLengthsL[i], 0.7)
		s.combsR[i] = newDampedComb(springCombLengthsR[i], 0.7)
	}
	return s
}

func (s *SpringReverb) Configure(decay, diffusion, inputCutoff, tankCutoff, modSpeed, modDepth, modShape, preDelay float32) {
	baseDecay := 0.55 + 0.4*clamp32(decay, 0, 1)
	tankHz := dampingPitchToHz(tankCutoff, s.sampleRate)
	damp := dampCoeffForCutoff(tankHz, s.sampleRate)
	for i := 0; i < 3; i++ {
		s.combsL[i].decay = baseDecay * springCombDecayScale[i]
		s.combsR[i].decay = baseDecay * springCombDecayScale[i]
		s.combsL[i].dampCoeff = damp
		s.combsR[i].dampCoeff = damp
	}
	chirpCoeff := 0.4 + 0.35*clamp32(diffusion, 0, 1)
	for i := range s.chirps {
		s.chirps[i].coeff = chirpCoeff
	}
}

func (s *SpringReverb) ProcessSample(inL, inR float32) (float32, float32) {
	mono := (inL + inR) * 0.5

	sig := mono
	var early float32
	for i := range s.chirps {
		sig = s.chirps[i].Process(sig)
		if i == SPRING_CHIRP_STAGES-2 {
			early = sig
		}
	}

	var sumL, sumR float32
	for i := 0; i < 3; i++ {
		sumL += s.combsL[i].Process(sig)
		sumR += s.combsR[i].Process(early * SPRING_OUTPUT_SPREAD)
	}
	return sumL * SPRING_COMB_MIX, sumR * SPRING_COMB_MIX
}

func (s *SpringReverb) Clear() {
	for i := range s.chirps {
		s.chirps[i].Clear()
	}
	for i := 0; i < 3; i++ {
		s.combsL[i].Clear()
		s.combsR[i].Clear()
	}
}
