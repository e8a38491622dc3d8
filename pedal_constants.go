// pedal_constants.go - Timing, gain and filter tuning constants for the Flick Engine

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// Footswitch gesture timing (milliseconds)
const (
	DOUBLE_PRESS_WINDOW_MS = 400  // Two rising edges inside this window count as a double press
	HOLD_THRESHOLD_MS      = 600  // Held at least this long fires a long press
	DUAL_HOLD_DFU_MS       = 5000 // Both footswitches held this long hands off to the bootloader
)

// Tap tempo bounds
const (
	TAP_MIN_INTERVAL_MS = 20   // 3000 BPM-equivalent, anything faster is switch bounce
	TAP_MAX_INTERVAL_MS = 4000 // 15 BPM-equivalent
	TAP_IDLE_TIMEOUT_MS = 5000 // No tap for this long exits tap-tempo mode
)

// Soft takeover
const KNOB_TAKEOVER_THRESHOLD = 0.05 // Fraction of full knob range to grab a parameter

// Tremolo constants
const (
	TREMOLO_SPEED_MIN      = 0.2  // Minimum tremolo speed in Hz
	TREMOLO_SPEED_MAX      = 16.0 // Maximum tremolo speed in Hz
	TREMOLO_DEPTH_SCALE    = 1.0  // Scale factor for tremolo depth
	TREMOLO_LED_BRIGHTNESS = 0.4  // LED brightness when only tremolo is active
)

// Delay constants
const (
	DELAY_TIME_MIN_SECONDS      = 0.05
	DELAY_TIME_MAX_SECONDS      = 2.0
	DELAY_WET_MIX_ATTENUATION   = 0.333 // Attenuation for the wet delay signal
	DELAY_DRY_WET_PERCENT_MAX   = 100.0
	DELAY_SMOOTHING_COEFFICIENT = 0.0002 // One-pole coefficient toward the target delay length
)

// Makeup gain multipliers, indexed by MakeupGainMode
var delayMakeupGainValues = [3]float32{1.0, 1.66, 2.0}
var tremMakeupGainValues = [3]float32{1.0, 1.2, 1.6}

// Plate reverb (Dattorro-style) scaling
const (
	PLATE_TANK_MOD_SPEED_SCALE = 8.0  // Multiplier for tank modulation speed
	PLATE_TANK_MOD_DEPTH_SCALE = 15.0 // Multiplier for tank modulation depth
	PLATE_PRE_DELAY_KNOB_SCALE = 0.25 // Knob position to pre-delay seconds
	CUTOFF_KNOB_SCALE          = 10.0 // Knob position to damping pitch (0-10)
)

// Resonance notch filters (platform-specific codec resonances)
const (
	NOTCH_1_FREQ    = 6020.0
	NOTCH_2_FREQ    = 12278.0
	NOTCH_GAIN_DB   = -30.0
	NOTCH_Q         = 40.0
)

// Harmonic tremolo band split (filter cutoffs taken from Fender 6G12-A schematic)
const (
	HARMONIC_TREMOLO_LPF_CUTOFF = 144.0 // 220K and 5nF LPF
	HARMONIC_TREMOLO_HPF_CUTOFF = 636.0 // 1M and 250pF HPF
)

// EQ-shaping filters applied after harmonic tremolo recombination
const (
	HARMONIC_TREM_EQ_HPF1_CUTOFF    = 63.0
	HARMONIC_TREM_EQ_LPF1_CUTOFF    = 11200.0
	HARMONIC_TREM_EQ_PEAK1_FREQ     = 7500.0
	HARMONIC_TREM_EQ_PEAK1_GAIN     = -3.37 // dB
	HARMONIC_TREM_EQ_PEAK1_Q        = 0.263
	HARMONIC_TREM_EQ_PEAK2_FREQ     = 254.0
	HARMONIC_TREM_EQ_PEAK2_GAIN     = 2.0 // dB
	HARMONIC_TREM_EQ_PEAK2_Q        = 0.707
	HARMONIC_TREM_EQ_LOW_SHELF_FREQ = 37.0
	HARMONIC_TREM_EQ_LOW_SHELF_GAIN = -10.5 // dB
	HARMONIC_TREM_EQ_LOW_SHELF_Q    = 1.0   // Shelf slope
)

// Reverb gain stack
const (
	MINUS_18DB_GAIN   = 0.12589254
	MINUS_20DB_GAIN   = 0.1
	HALL_OUTPUT_SCALE = 4.0 // Hall engine is quieter than plate/spring at the same mix
)

// Reverb input/output scale factors per mono-stereo mode
const (
	REVERB_DRY_SCALE_MIMO       = 5.0 // Make the signal stronger for mono-in mono-out
	REVERB_REVERSE_SCALE_MIMO   = 0.2
	REVERB_DRY_SCALE_STEREO     = 2.5 // MISO and SISO modes
	REVERB_REVERSE_SCALE_STEREO = 0.4
)

// Edit mode: value maps for the tank modulation switch parameters
var tankModSpeedValues = [3]float32{0.5, 0.25, 0.1}
var tankModDepthValues = [3]float32{0.5, 0.25, 0.1}
var tankModShapeValues = [3]float32{0.5, 0.25, 0.1}

// Factory reset knob sweep thresholds
const (
	FACTORY_RESET_KNOB_HIGH     = 0.95
	FACTORY_RESET_KNOB_LOW      = 0.05
	FACTORY_RESET_BLINK_MS      = 1000 // Initial LED alternation period
	FACTORY_RESET_BLINK_STEP_MS = 300  // Period reduction per completed sweep stage
	FACTORY_RESET_FLASH_MS      = 500  // Duration of the stage-complete flash
)
