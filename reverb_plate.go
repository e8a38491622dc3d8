// reverb_plate.go - Dattorro-style plate reverb engine

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

// Plate topology: configurable pre-delay, input band-limiting, four input
// diffusion allpasses, then a stereo tank of four modulated damped combs
// per side followed by two series allpasses. Comb and allpass lengths are
// prime to avoid arithmetic relationships that cause audible periodicity;
// the right tank uses offset primes for decorrelation.
const PLATE_MAX_PRE_DELAY_SECONDS = 0.25

var plateCombLengthsL = [4]int{1687, 1601, 2053, 2251}
var plateCombLengthsR = [4]int{1733, 1637, 2089, 2293}
var plateCombDecayScale = [4]float32{1.0, 0.98, 0.96, 0.94}
var plateAllpassLengthsL = [2]int{389, 307}
var plateAllpassLengthsR = [2]int{419, 331}

const (
	PLATE_DIFFUSION_AP_1 = 142
	PLATE_DIFFUSION_AP_2 = 107
	PLATE_DIFFUSION_AP_3 = 379
	PLATE_DIFFUSION_AP_4 = 277
	PLATE_TANK_MIX       = 0.25 // 1/4 for the four parallel combs
)

// modComb is a feedback comb with a modulated, interpolated read tap and
// damping in the feedback path.
type modComb struct {
	line      *DelayLine
	length    float32
	decay     float32
	dampCoeff float32
	dampState float32
}

func newModComb(length int) modComb {
	// Headroom for the modulation excursion
	return modComb{line: NewDelayLine(length + 64), length: float32(length)}
}

func (c *modComb) Process(in, modOffset float32) float32 {
	read := c.line.ReadAt(c.length + modOffset)
	c.dampState = read + c.dampCoeff*(c.dampState-read)
	c.line.Write(in + c.dampState*c.decay)
	return read
}

func (c *modComb) Clear() {
	c.line.Clear()
	c.dampState = 0
}

// PlateReverb is the default reverb engine.
type PlateReverb struct {
	sampleRate float32

	preDelay        *DelayLine
	preDelaySamples int

	inputLPState float32
	inputLPCoeff float32

	diffusers [4]allpassFilter

	combsL [4]modComb
	combsR [4]modComb
	apL    [2]allpassFilter
	apR    [2]allpassFilter

	lfoPhase    float32
	lfoPhaseInc float32
	modDepth    float32 // samples
	modShape    float32 // phase offset between tank sides
}

func NewPlateReverb(sampleRate float32) *PlateReverb {
	p := &PlateReverb{
		sampleRate:   sampleRate,
		preDelay:     NewDelayLine(int(PLATE_MAX_PRE_DELAY_SECONDS*sampleRate) + 2),
		inputLPCoeff: 1.0,
	}
	diffusionLengths := [4]int{PLATE_DIFFUSION_AP_1, PLATE_DIFFUSION_AP_2, PLATE_DIFFUSION_AP_3, PLATE_DIFFUSION_AP_4}
	for i := range p.diffusers {
		p.diffusers[i] = newAllpassFilter(diffusionLengths[i], 0.68)
	}
	for i := 0; i < 4; i++ {
		p.combsL[i] = newModComb(plateCombLengthsL[i])
		p.combsR[i] = newModComb(plateCombLengthsR[i])
	}
	for i := 0; i < 2; i++ {
		p.apL[i] = newAllpassFilter(plateAllpassLengthsL[i], 0.5)
		p.apR[i] = newAllpassFilter(plateAllpassLengthsR[i], 0.5)
	}
	return p
}

// Configure applies the full plate parameter surface. Mod speed arrives
// pre-scaled to Hz and mod depth to samples by the caller's scale stack.
func (p *PlateReverb) Configure(decay, diffusion, inputCutoff, tankCutoff, modSpeed, modDepth, modShape, preDelay float32) {
	samples := int(preDelay * p.sampleRate)
	maxPre := p.preDelay.size - 2
	if samples < 0 {
		samples = 0
	} else if samples > maxPre {
		samples = maxPre
	}
	p.preDelaySamples = samples

	inputHz := dampingPitchToHz(inputCutoff, p.sampleRate)
	p.inputLPCoeff = float32(1 - math.Exp(-2*math.Pi*float64(inputHz)/float64(p.sampleRate)))

	tankHz := dampingPitchToHz(tankCutoff, p.sampleRate)
	damp := dampCoeffForCutoff(tankHz, p.sampleRate)

	baseDecay := 0.70 + 0.28*clamp32(decay, 0, 1)
	apCoeff := 0.45 + 0.3*clamp32(diffusion, 0, 1)
	for i := 0; i < 4; i++ {
		p.combsL[i].decay = baseDecay * plateCombDecayScale[i]
		p.combsR[i].decay = baseDecay * plateCombDecayScale[i]
		p.combsL[i].dampCoeff = damp
		p.combsR[i].dampCoeff = damp
	}
	for i := range p.diffusers {
		p.diffusers[i].coeff = apCoeff
	}

	p.lfoPhaseInc = modSpeed * (2 * math.Pi) / p.sampleRate
	p.modDepth = modDepth
	p.modShape = modShape
}

// ProcessSample runs one stereo sample through the plate.
func (p *PlateReverb) ProcessSample(inL, inR float32) (float32, float32) {
	mono := (inL + inR) * 0.5

	var delayed float32
	if p.preDelaySamples < 1 {
		delayed = mono
		p.preDelay.Write(mono)
	} else {
		delayed = p.preDelay.ReadAt(float32(p.preDelaySamples))
		p.preDelay.Write(mono)
	}

	// Input band-limiting
	p.inputLPState += p.inputLPCoeff * (delayed - p.inputLPState)
	sig := p.inputLPState

	for i := range p.diffusers {
		sig = p.diffusers[i].Process(sig)
	}

	p.lfoPhase += p.lfoPhaseInc
	if p.lfoPhase >= 2*math.Pi {
		p.lfoPhase -= 2 * math.Pi
	}

	var sumL, sumR float32
	for i := 0; i < 4; i++ {
		phaseL := p.lfoPhase + float32(i)*(math.Pi/2)
		phaseR := phaseL + p.modShape*math.Pi
		for phaseL >= 2*math.Pi {
			phaseL -= 2 * math.Pi
		}
		for phaseR >= 2*math.Pi {
			phaseR -= 2 * math.Pi
		}
		sumL += p.combsL[i].Process(sig, p.modDepth*fastSin(phaseL))
		sumR += p.combsR[i].Process(sig, p.modDepth*fastSin(phaseR))
	}
	outL := sumL * PLATE_TANK_MIX
	outR := sumR * PLATE_TANK_MIX

	for i := 0; i < 2; i++ {
		outL = p.apL[i].Process(outL)
		outR = p.apR[i].Process(outR)
	}
	return outL, outR
}

// Clear flushes the tank so un-bypassing starts from silence.
func (p *PlateReverb) Clear() {
	p.preDelay.Clear()
	p.inputLPState = 0
	for i := range p.diffusers {
		p.diffusers[i].Clear()
	}
	for i := 0; i < 4; i++ {
		p.combsL[i].Clear()
		p.combsR[i].Clear()
	}
	for i := 0; i < 2; i++ {
		p.apL[i].Clear()
		p.apR[i].Clear()
	}
	p.lfoPhase = 0
}
