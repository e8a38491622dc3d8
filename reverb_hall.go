// reverb_hall.go - large hall reverb engine

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// Hall topology: short fixed pre-delay, then four long damped combs and two
// series allpasses per channel. Comb lengths are roughly double the plate
// tank's, which pushes the echo density down and the decay time up. High
// feedback defaults give the cathedral-length tail; the loudness difference
// against the other engines is trimmed at the dispatch stage.
const (
	HALL_PRE_DELAY_SECONDS = 0.008
	HALL_COMB_MIX          = 0.25
)

var hallCombLengthsL = [4]int{3323, 3557, 3907, 4217}
var hallCombLengthsR = [4]int{3347, 3581, 3931, 4241}
var hallCombDecayScale = [4]float32{0.97, 0.95, 0.93, 0.91}
var hallAllpassLengthsL = [2]int{389, 307}
var hallAllpassLengthsR = [2]int{401, 317}

type HallReverb struct {
	sampleRate float32

	preDelay        *DelayLine
	preDelaySamples int

	combsL [4]dampedComb
	combsR [4]dampedComb
	apL    [2]allpassFilter
	apR    [2]allpassFilter
}

func NewHallReverb(sampleRate float32) *HallReverb {
	pre := int(HALL_PRE_DELAY_SECONDS * sampleRate)
	h := &HallReverb{
		sampleRate:      sampleRate,
		preDelay:        NewDelayLine(pre + 2),
		preDelaySamples: pre,
	}
	for i := 0; i < 4; i++ {
		h.combsL[i] = newDampedComb(hallCombLengthsL[i], 0.95)
		h.combsR[i] = newDampedComb(hallCombLengthsR[i], 0.95)
	}
	for i := 0; i < 2; i++ {
		h.apL[i] = newAllpassFilter(hallAllpassLengthsL[i], 0.5)
		h.apR[i] = newAllpassFilter(hallAllpassLengthsR[i], 0.5)
	}
	return h
}

func (h *HallReverb) Configure(decay, diffusion, inputCutoff, tankCutoff, modSpeed, modDepth, modShape, preDelay float32) {
	baseDecay := 0.80 + 0.18*clamp32(decay, 0, 1)
	tankHz := dampingPitchToHz(tankCutoff, h.sampleRate)
	damp := dampCoeffForCutoff(tankHz, h.sampleRate)
	for i := 0; i < 4; i++ {
		h.combsL[i].decay = baseDecay * hallCombDecayScale[i]
		h.combsR[i].decay = baseDecay * hallCombDecayScale[i]
		h.combsL[i].dampCoeff = damp
		h.combsR[i].dampCoeff = damp
	}
	apCoeff := 0.3 + 0.3*clamp32(diffusion, 0, 1)
	for i := 0; i < 2; i++ {
		h.apL[i].coeff = apCoeff
		h.apR[i].coeff = apCoeff
	}
}

func (h *HallReverb) ProcessSample(inL, inR float32) (float32, float32) {
	mono := (inL + inR) * 0.5

	var delayed float32
	if h.preDelaySamples < 1 {
		delayed = mono
		h.preDelay.Write(mono)
	} else {
		delayed = h.preDelay.ReadAt(float32(h.preDelaySamples))
		h.preDelay.Write(mono)
	}

	var sumL, sumR float32
	for i := 0; i < 4; i++ {
		sumL += h.combsL[i].Process(delayed)
		sumR += h.combsR[i].Process(delayed)
	}
	outL := sumL * HALL_COMB_MIX
	outR := sumR * HALL_COMB_MIX

	for i := 0; i < 2; i++ {
		outL = h.apL[i].Process(outL)
		outR = h.apR[i].Process(outR)
	}
	return outL, outR
}

func (h *HallReverb) Clear() {
	h.preDelay.Clear()
	for i := 0; i < 4; i++ {
		h.combsL[i].Clear()
		h.combsR[i].Clear()
	}
	for i := 0; i < 2; i++ {
		h.apL[i].Clear()
		h.apR[i].Clear()
	}
}
