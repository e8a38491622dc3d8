// pedal_context.go - Shared pedal state and operating mode enums for the Flick Engine

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

import "sync"

// PedalMode is the top-level operating mode. Exactly one is active at any
// time and transitions happen only in the mode controller, never in the
// audio path.
type PedalMode int

const (
	PEDAL_MODE_NORMAL PedalMode = iota
	PEDAL_MODE_EDIT_REVERB      // Edit mode entered by long-press of the left footswitch
	PEDAL_MODE_EDIT_MONO_STEREO // Edit mode entered by long-press of the right footswitch
	PEDAL_MODE_TAP_TEMPO        // Entered by double-press of the left footswitch
)

func (m PedalMode) String() string {
	switch m {
	case PEDAL_MODE_NORMAL:
		return "normal"
	case PEDAL_MODE_EDIT_REVERB:
		return "edit-reverb"
	case PEDAL_MODE_EDIT_MONO_STEREO:
		return "edit-mono-stereo"
	case PEDAL_MODE_TAP_TEMPO:
		return "tap-tempo"
	}
	return "unknown"
}

// MonoStereoMode selects how input and output channels are derived.
type MonoStereoMode int

const (
	MS_MODE_MIMO MonoStereoMode = iota // Mono In, Mono Out
	MS_MODE_MISO                       // Mono In, Stereo Out
	MS_MODE_SISO                       // Stereo In, Stereo Out
)

// MakeupGainMode compensates perceived loudness loss from delay/tremolo.
type MakeupGainMode int

const (
	MAKEUP_GAIN_NONE MakeupGainMode = iota
	MAKEUP_GAIN_NORMAL
	MAKEUP_GAIN_HEAVY
)

// ReverbType selects which reverb engine the dispatch stage feeds.
type ReverbType int

const (
	REVERB_PLATE ReverbType = iota
	REVERB_SPRING
	REVERB_HALL
	REVERB_DEFAULT = REVERB_PLATE // For the 4th DIP combination
)

// TremoloMode selects the amplitude modulation flavour.
type TremoloMode int

const (
	TREMOLO_SINE     TremoloMode = iota // Sine wave tremolo (LEFT)
	TREMOLO_HARMONIC                    // Harmonic tremolo (MIDDLE)
	TREMOLO_SQUARE                      // Opto/square wave tremolo (RIGHT)
)

// ReverbKnobMode decides how the mix knob blends dry and wet reverb.
type ReverbKnobMode int

const (
	REVERB_KNOB_ALL_DRY ReverbKnobMode = iota
	REVERB_KNOB_DRY_WET_MIX
	REVERB_KNOB_ALL_WET
)

// Toggle switch position maps, indexed by ToggleswitchPosition (LEFT/MIDDLE/RIGHT).
var reverbKnobModeMap = [3]ReverbKnobMode{REVERB_KNOB_ALL_DRY, REVERB_KNOB_DRY_WET_MIX, REVERB_KNOB_ALL_WET}
var tremoloModeMap = [3]TremoloMode{TREMOLO_SINE, TREMOLO_HARMONIC, TREMOLO_SQUARE}
var makeupGainMap = [3]MakeupGainMode{MAKEUP_GAIN_NONE, MAKEUP_GAIN_NORMAL, MAKEUP_GAIN_HEAVY}
var monoStereoModeMap = [3]MonoStereoMode{MS_MODE_MIMO, MS_MODE_MISO, MS_MODE_SISO}

// ReverbParams is the live plate reverb parameter set edited in
// PEDAL_MODE_EDIT_REVERB and persisted by the settings store.
type ReverbParams struct {
	PreDelay    float32 // seconds
	Decay       float32
	Diffusion   float32
	InputCutoff float32 // damping pitch, 0-10 (440*2^(p-5) Hz)
	TankCutoff  float32 // damping pitch, 0-10
	ModSpeed    float32
	ModDepth    float32
	ModShape    float32
}

// PedalContext is the single owned home for every piece of state shared
// between the control loop and the audio-block callback. The control loop
// mutates it under mu; the audio path locks mu exactly once per block while
// resolving parameters and copies what the sample loop needs into locals.
// Every field is a plain scalar so a reader never observes a partially
// constructed composite value.
type PedalContext struct {
	mu sync.Mutex

	mode PedalMode

	bypassVerb  bool
	bypassTrem  bool
	bypassDelay bool

	monoStereo MonoStereoMode
	makeupGain MakeupGainMode
	reverbType ReverbType

	reverb ReverbParams

	// Reverb input/output scaling derived from monoStereo
	dryScale     float32
	reverseScale float32

	// Injectable gain-shaping multiplier applied to the reverb input gain
	// stack and the wet mix. Sourced from outside the pedal core.
	outputTrim float32

	inputAmp float32 // Input amplification stage, 0 = unity
}

// NewPedalContext returns a context with factory defaults: everything
// bypassed, mono in/out, plate reverb.
func NewPedalContext() *PedalContext {
	ctx := &PedalContext{
		mode:        PEDAL_MODE_NORMAL,
		bypassVerb:  true,
		bypassTrem:  true,
		bypassDelay: true,
		monoStereo:  MS_MODE_MIMO,
		makeupGain:  MAKEUP_GAIN_NONE,
		reverbType:  REVERB_PLATE,
		reverb: ReverbParams{
			PreDelay:    0.0,
			Decay:       0.8,
			Diffusion:   0.85,
			InputCutoff: 7.25,
			TankCutoff:  7.25,
			ModSpeed:    0.1,
			ModDepth:    0.1,
			ModShape:    0.25,
		},
		outputTrim: 1.0,
	}
	ctx.updateReverbScales()
	return ctx
}

// updateReverbScales recomputes the mono-stereo dependent scale factors.
// Callers must hold mu (or have exclusive access during construction).
func (ctx *PedalContext) updateReverbScales() {
	switch ctx.monoStereo {
	case MS_MODE_MIMO:
		ctx.dryScale = REVERB_DRY_SCALE_MIMO
		ctx.reverseScale = REVERB_REVERSE_SCALE_MIMO
	default: // MISO and SISO
		ctx.dryScale = REVERB_DRY_SCALE_STEREO
		ctx.reverseScale = REVERB_REVERSE_SCALE_STEREO
	}
}

// SetOutputTrim installs the externally sourced gain-shaping multiplier.
// Read once per audio block.
func (ctx *PedalContext) SetOutputTrim(trim float32) {
	ctx.mu.Lock()
	ctx.outputTrim = trim
	ctx.mu.Unlock()
}

// Mode returns the current operating mode.
func (ctx *PedalContext) Mode() PedalMode {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.mode
}
