// led_indicator.go - status LED behaviour for the two footswitch LEDs

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

const (
	EDIT_BLINK_PERIOD_MS = 500
	TAP_LED_ON_FRACTION  = 0.5
)

// LedState is the per-tick snapshot the controller hands to the indicator.
// Keeping it a value type avoids sharing PedalContext with the LED path.
type LedState struct {
	Mode          PedalMode
	ReverbActive  bool
	TremoloActive bool
	DelayActive   bool
	TremoloLevel  float32 // current tremolo LFO value, 0..1
	TapIntervalMs uint32  // 0 when no tempo is locked in
	TapAnchorMs   uint32  // timestamp of the most recent tap
}

// LedIndicator owns both footswitch LEDs. LED 1 reports the reverb
// footswitch, LED 2 the tremolo/delay footswitch.
type LedIndicator struct {
	led1 LED
	led2 LED

	blinkState    bool
	lastBlinkMs   uint32
	blinkPeriodMs uint32
	overridden    bool
}

func NewLedIndicator(led1, led2 LED) *LedIndicator {
	return &LedIndicator{led1: led1, led2: led2, blinkPeriodMs: EDIT_BLINK_PERIOD_MS}
}

// SetAlternate drives the two LEDs in opposition, used while a firmware
// update hold or a factory reset sweep is in progress. It overrides normal
// indication until the next Refresh.
func (l *LedIndicator) SetAlternate(state bool) {
	if state {
		l.led1.Set(1.0)
		l.led2.Set(0.0)
	} else {
		l.led1.Set(0.0)
		l.led2.Set(1.0)
	}
	l.led1.Update()
	l.led2.Update()
	l.overridden = true
}

// SetBoth drives both LEDs to the same brightness, used for the factory
// reset confirmation blink.
func (l *LedIndicator) SetBoth(brightness float32) {
	l.led1.Set(brightness)
	l.led2.Set(brightness)
	l.led1.Update()
	l.led2.Update()
	l.overridden = true
}

// Refresh computes and latches both LED brightness values for one control
// tick.
func (l *LedIndicator) Refresh(now uint32, st LedState) {
	l.overridden = false

	switch st.Mode {
	case PEDAL_MODE_EDIT_REVERB, PEDAL_MODE_EDIT_MONO_STEREO:
		// Reverb edit blinks both LEDs in phase; mono-stereo edit
		// alternates them so the two modes are distinguishable at a glance.
		l.advanceBlink(now, EDIT_BLINK_PERIOD_MS)
		b := float32(0.0)
		if l.blinkState {
			b = 1.0
		}
		if st.Mode == PEDAL_MODE_EDIT_REVERB {
			l.led1.Set(b)
			l.led2.Set(b)
		} else {
			l.led1.Set(b)
			l.led2.Set(1.0 - b)
		}

	case PEDAL_MODE_TAP_TEMPO:
		// The tap switch's LED flashes in time with the captured tempo so
		// the player can confirm the lock without looking at anything else.
		l.led1.Set(l.reverbBrightness(st))
		if st.TapIntervalMs > 0 {
			phase := (now - st.TapAnchorMs) % st.TapIntervalMs
			if float32(phase) < float32(st.TapIntervalMs)*TAP_LED_ON_FRACTION {
				l.led2.Set(1.0)
			} else {
				l.led2.Set(0.0)
			}
		} else {
			l.advanceBlink(now, EDIT_BLINK_PERIOD_MS)
			if l.blinkState {
				l.led2.Set(1.0)
			} else {
				l.led2.Set(0.0)
			}
		}

	default:
		l.led1.Set(l.reverbBrightness(st))
		l.led2.Set(l.activityBrightness(st))
	}

	l.led1.Update()
	l.led2.Update()
}

func (l *LedIndicator) reverbBrightness(st LedState) float32 {
	if st.ReverbActive {
		return 1.0
	}
	return 0.0
}

// activityBrightness follows the tremolo LFO when the tremolo is active so
// the LED breathes with the effect. Delay alone shows steady-on; tremolo
// alone pulses at reduced brightness; both together pulse at full strength.
func (l *LedIndicator) activityBrightness(st LedState) float32 {
	if st.TremoloActive {
		if st.DelayActive {
			return st.TremoloLevel
		}
		return st.TremoloLevel * TREMOLO_LED_BRIGHTNESS
	}
	if st.DelayActive {
		return 1.0
	}
	return 0.0
}

func (l *LedIndicator) advanceBlink(now, periodMs uint32) {
	if now-l.lastBlinkMs >= periodMs {
		l.blinkState = !l.blinkState
		l.lastBlinkMs = now
	}
}
