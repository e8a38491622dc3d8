// effects_pipeline.go - per-sample stereo effects chain

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
	"sync/atomic"
)

// BlockParams carries every control decision the pipeline needs for one
// audio block. The resolver computes it once per block under its own lock;
// the sample loop then runs on plain locals with no synchronization.
type BlockParams struct {
	BypassReverb  bool
	BypassTremolo bool
	BypassDelay   bool

	MonoStereo MonoStereoMode
	ReverbType ReverbType

	TremoloMode  TremoloMode
	TremoloFreq  float32
	TremoloDepth float32 // post mode scaling, 0..1.25

	DelayTargetSamples float32
	DelayFeedback      float32
	DelayDryWet        float32 // 0..1
	DelayMakeupGain    float32

	TremoloMakeupGain float32

	PlateWet     float32
	PlateDry     float32
	DryScale     float32
	ReverseScale float32
	InputGain    float32 // full reverb input gain stack
	OutputTrim   float32

	Reverb ReverbParams // mod speed/depth already scaled to Hz/samples
}

// ControlResolver produces the per-block parameter snapshot. The mode
// controller implements it.
type ControlResolver interface {
	ResolveBlockControls() BlockParams
}

// Pipeline runs the fixed effect chain: input fan-in, resonance notches,
// delay, tremolo, reverb, output routing. The reverb is fed even while
// bypassed so re-engaging it picks up a tank that is already ringing.
type Pipeline struct {
	sampleRate float32
	resolver   ControlResolver

	notch1L, notch1R PeakingEQ
	notch2L, notch2R PeakingEQ

	delayL *DelayChannel
	delayR *DelayChannel

	osc      *TremoloOscillator
	dcOffset float32

	harmLpfL, harmLpfR         LowPassFilter
	harmHpfL, harmHpfR         HighPassFilter
	harmEqHpf1L, harmEqHpf1R   HighPassFilter
	harmEqLpf1L, harmEqLpf1R   LowPassFilter
	harmEqPeak1L, harmEqPeak1R PeakingEQ
	harmEqPeak2L, harmEqPeak2R PeakingEQ
	harmEqShelfL, harmEqShelfR LowShelf

	plate  *PlateReverb
	spring *SpringReverb
	hall   *HallReverb

	tremLevelBits  atomic.Uint32
	clearRequested atomic.Bool
}

func NewPipeline(sampleRate float32, resolver ControlResolver) *Pipeline {
	p := &Pipeline{
		sampleRate: sampleRate,
		resolver:   resolver,
		delayL:     NewDelayChannel(int(DELAY_TIME_MAX_SECONDS*sampleRate) + 2),
		delayR:     NewDelayChannel(int(DELAY_TIME_MAX_SECONDS*sampleRate) + 2),
		osc:        NewTremoloOscillator(sampleRate),
		plate:      NewPlateReverb(sampleRate),
		spring:     NewSpringReverb(sampleRate),
		hall:       NewHallReverb(sampleRate),
	}

	p.notch1L.Init(NOTCH_1_FREQ, NOTCH_GAIN_DB, NOTCH_Q, sampleRate)
	p.notch1R.Init(NOTCH_1_FREQ, NOTCH_GAIN_DB, NOTCH_Q, sampleRate)
	p.notch2L.Init(NOTCH_2_FREQ, NOTCH_GAIN_DB, NOTCH_Q, sampleRate)
	p.notch2R.Init(NOTCH_2_FREQ, NOTCH_GAIN_DB, NOTCH_Q, sampleRate)

	p.harmLpfL.Init(HARMONIC_TREMOLO_LPF_CUTOFF, sampleRate)
	p.harmLpfR.Init(HARMONIC_TREMOLO_LPF_CUTOFF, sampleRate)
	p.harmHpfL.Init(HARMONIC_TREMOLO_HPF_CUTOFF, sampleRate)
	p.harmHpfR.Init(HARMONIC_TREMOLO_HPF_CUTOFF, sampleRate)

	p.harmEqHpf1L.Init(HARMONIC_TREM_EQ_HPF1_CUTOFF, sampleRate)
	p.harmEqHpf1R.Init(HARMONIC_TREM_EQ_HPF1_CUTOFF, sampleRate)
	p.harmEqLpf1L.Init(HARMONIC_TREM_EQ_LPF1_CUTOFF, sampleRate)
	p.harmEqLpf1R.Init(HARMONIC_TREM_EQ_LPF1_CUTOFF, sampleRate)
	p.harmEqPeak1L.Init(HARMONIC_TREM_EQ_PEAK1_FREQ, HARMONIC_TREM_EQ_PEAK1_GAIN, HARMONIC_TREM_EQ_PEAK1_Q, sampleRate)
	p.harmEqPeak1R.Init(HARMONIC_TREM_EQ_PEAK1_FREQ, HARMONIC_TREM_EQ_PEAK1_GAIN, HARMONIC_TREM_EQ_PEAK1_Q, sampleRate)
	p.harmEqPeak2L.Init(HARMONIC_TREM_EQ_PEAK2_FREQ, HARMONIC_TREM_EQ_PEAK2_GAIN, HARMONIC_TREM_EQ_PEAK2_Q, sampleRate)
	p.harmEqPeak2R.Init(HARMONIC_TREM_EQ_PEAK2_FREQ, HARMONIC_TREM_EQ_PEAK2_GAIN, HARMONIC_TREM_EQ_PEAK2_Q, sampleRate)
	p.harmEqShelfL.Init(HARMONIC_TREM_EQ_LOW_SHELF_FREQ, HARMONIC_TREM_EQ_LOW_SHELF_GAIN, HARMONIC_TREM_EQ_LOW_SHELF_Q, sampleRate)
	p.harmEqShelfR.Init(HARMONIC_TREM_EQ_LOW_SHELF_FREQ, HARMONIC_TREM_EQ_LOW_SHELF_GAIN, HARMONIC_TREM_EQ_LOW_SHELF_Q, sampleRate)

	return p
}

// TremoloLevel returns the last tremolo amplitude, for the pulsing LED.
// Safe to call from the control loop while audio is running.
func (p *Pipeline) TremoloLevel() float32 {
	return math.Float32frombits(p.tremLevelBits.Load())
}

// ClearReverb requests a flush of all reverb tanks. Called from the control
// loop when the reverb is bypassed; the flush itself runs at the top of the
// next ProcessBlock so DSP state is only ever touched from the audio side.
func (p *Pipeline) ClearReverb() {
	p.clearRequested.Store(true)
}

func (p *Pipeline) clearAllReverbs() {
	p.plate.Clear()
	p.spring.Clear()
	p.hall.Clear()
}

// ProcessBlock renders n stereo samples. All slices must hold at least n
// samples. Called from the audio backend's render goroutine.
func (p *Pipeline) ProcessBlock(inL, inR, outL, outR []float32, n int) {
	if p.clearRequested.Swap(false) {
		p.clearAllReverbs()
	}

	bp := p.resolver.ResolveBlockControls()

	p.osc.SetFreq(bp.TremoloFreq)
	p.osc.SetAmp(bp.TremoloDepth)
	if bp.TremoloMode == TREMOLO_SQUARE {
		p.osc.SetWaveform(WAVE_SQUARE_ROUNDED)
	} else {
		p.osc.SetWaveform(WAVE_SIN)
	}
	p.dcOffset = 1.0 - bp.TremoloDepth

	p.delayL.SetTarget(bp.DelayTargetSamples)
	p.delayR.SetTarget(bp.DelayTargetSamples)
	p.delayL.SetFeedback(bp.DelayFeedback)
	p.delayR.SetFeedback(bp.DelayFeedback)

	rv := bp.Reverb
	switch bp.ReverbType {
	case REVERB_SPRING:
		p.spring.Configure(rv.Decay, rv.Diffusion, rv.InputCutoff, rv.TankCutoff, rv.ModSpeed, rv.ModDepth, rv.ModShape, rv.PreDelay)
	case REVERB_HALL:
		p.hall.Configure(rv.Decay, rv.Diffusion, rv.InputCutoff, rv.TankCutoff, rv.ModSpeed, rv.ModDepth, rv.ModShape, rv.PreDelay)
	default:
		p.plate.Configure(rv.Decay, rv.Diffusion, rv.InputCutoff, rv.TankCutoff, rv.ModSpeed, rv.ModDepth, rv.ModShape, rv.PreDelay)
	}

	tremVal := p.TremoloLevel()

	for i := 0; i < n; i++ {
		dryL := inL[i]
		dryR := inR[i]
		sL := dryL
		var sR float32
		if bp.MonoStereo == MS_MODE_MIMO || bp.MonoStereo == MS_MODE_MISO {
			// Mono input modes run the left input on both channels
			sR = dryL
		} else {
			sR = dryR
		}

		// Notch out the enclosure's resonant frequencies
		sL = p.notch1L.Process(sL)
		sR = p.notch1R.Process(sR)
		sL = p.notch2L.Process(sL)
		sR = p.notch2R.Process(sR)

		if !bp.BypassDelay {
			mixL := p.delayL.Process(sL)
			mixR := p.delayR.Process(sR)
			sL = bp.DelayDryWet*mixL*DELAY_WET_MIX_ATTENUATION + (1.0-bp.DelayDryWet)*sL*bp.DelayMakeupGain
			sR = bp.DelayDryWet*mixR*DELAY_WET_MIX_ATTENUATION + (1.0-bp.DelayDryWet)*sR*bp.DelayMakeupGain
		}

		if !bp.BypassTremolo {
			lfo := p.osc.Process()
			tremVal = p.dcOffset + lfo

			if bp.TremoloMode == TREMOLO_HARMONIC {
				// Split into bands and modulate them in opposite phase
				lowL := p.harmLpfL.Process(sL)
				highL := p.harmHpfL.Process(sL)
				sL = (lowL*(1.0+lfo) + highL*(1.0-lfo)) * bp.TremoloMakeupGain

				lowR := p.harmLpfR.Process(sR)
				highR := p.harmHpfR.Process(sR)
				sR = (lowR*(1.0+lfo) + highR*(1.0-lfo)) * bp.TremoloMakeupGain

				// Corrective EQ after the band recombination
				sL = p.harmEqHpf1L.Process(sL)
				sR = p.harmEqHpf1R.Process(sR)
				sL = p.harmEqLpf1L.Process(sL)
				sR = p.harmEqLpf1R.Process(sR)
				sL = p.harmEqShelfL.Process(sL)
				sR = p.harmEqShelfR.Process(sR)
				sL = p.harmEqPeak2L.Process(sL)
				sR = p.harmEqPeak2R.Process(sR)
				sL = p.harmEqPeak1L.Process(sL)
				sR = p.harmEqPeak1R.Process(sR)
			} else {
				sL = sL * tremVal * bp.TremoloMakeupGain
				sR = sR * tremVal * bp.TremoloMakeupGain
			}
		}

		// The reverb is fed unconditionally so that un-bypassing it does
		// not start from a cold tank.
		verbInL := hardLimit(sL) * bp.DryScale
		verbInR := hardLimit(sR) * bp.DryScale

		var revL, revR float32
		switch bp.ReverbType {
		case REVERB_SPRING:
			revL, revR = p.spring.ProcessSample(verbInL*bp.InputGain, verbInR*bp.InputGain)
		case REVERB_HALL:
			revL, revR = p.hall.ProcessSample(verbInL*bp.InputGain, verbInR*bp.InputGain)
			revL *= HALL_OUTPUT_SCALE
			revR *= HALL_OUTPUT_SCALE
		default:
			revL, revR = p.plate.ProcessSample(verbInL*bp.InputGain, verbInR*bp.InputGain)
		}

		if !bp.BypassReverb {
			sL = verbInL*bp.PlateDry*bp.ReverseScale + revL*bp.PlateWet*bp.OutputTrim
			sR = verbInR*bp.PlateDry*bp.ReverseScale + revR*bp.PlateWet*bp.OutputTrim
		}

		if bp.MonoStereo == MS_MODE_MIMO {
			outL[i] = sL*0.5 + sR*0.5
			outR[i] = 0.0
		} else {
			outL[i] = sL
			outR[i] = sR
		}
	}

	p.tremLevelBits.Store(math.Float32bits(tremVal))
}
