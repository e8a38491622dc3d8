// tap_tempo.go - Tap tempo derivation for delay time and tremolo rate

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// TapTempoEngine converts the spacing between footswitch taps into a delay
// length in samples and a tremolo rate in Hz.
//
// Ownership flags record which of the two parameters tap tempo currently
// drives. They are decided at mode entry and cleared individually when the
// user grabs the corresponding knob back mid-session; exiting tap-tempo
// mode clears ownership but keeps the timing history so re-entering the
// mode can refine the tempo with a single further tap.
type TapTempoEngine struct {
	sampleRate float32

	hasTap     bool
	lastTapMs  uint32
	intervalMs uint32 // Last accepted interval

	inSession      bool
	sessionStartMs uint32

	delaySamples float32
	tremoloHz    float32

	ownsDelay   bool
	ownsTremolo bool
}

func NewTapTempoEngine(sampleRate float32) *TapTempoEngine {
	return &TapTempoEngine{sampleRate: sampleRate}
}

// RegisterTap records a tap at now (milliseconds) and reports whether the
// resulting interval was accepted for tempo derivation. The tap timestamp
// is updated even for a rejected interval so a stray tap does not poison
// the next measurement.
func (t *TapTempoEngine) RegisterTap(now uint32) bool {
	if !t.hasTap {
		t.hasTap = true
		t.lastTapMs = now
		return false
	}

	interval := now - t.lastTapMs
	t.lastTapMs = now

	if interval < TAP_MIN_INTERVAL_MS || interval > TAP_MAX_INTERVAL_MS {
		return false
	}

	t.intervalMs = interval

	minSamples := float32(DELAY_TIME_MIN_SECONDS) * t.sampleRate
	maxSamples := float32(DELAY_TIME_MAX_SECONDS) * t.sampleRate
	t.delaySamples = clamp32(float32(interval)/1000.0*t.sampleRate, minSamples, maxSamples)
	t.tremoloHz = clamp32(1000.0/float32(interval), TREMOLO_SPEED_MIN, TREMOLO_SPEED_MAX)
	return true
}

// BeginSession anchors the idle timeout to mode entry. Without the anchor
// a session entered long after the previous one's last tap would time out
// on its first poll.
func (t *TapTempoEngine) BeginSession(now uint32) {
	t.inSession = true
	t.sessionStartMs = now
}

// TimedOut reports whether the idle timeout elapsed since the last
// activity: the most recent tap, or the session start when no tap has
// happened since entry.
func (t *TapTempoEngine) TimedOut(now uint32) bool {
	if !t.inSession && !t.hasTap {
		return false
	}
	ref := t.sessionStartMs
	if t.hasTap && t.lastTapMs > ref {
		ref = t.lastTapMs
	}
	return now-ref >= TAP_IDLE_TIMEOUT_MS
}

// HasTempo reports whether at least one valid interval has been measured.
func (t *TapTempoEngine) HasTempo() bool { return t.intervalMs != 0 }

// DelaySamples returns the tap-derived delay length in samples.
func (t *TapTempoEngine) DelaySamples() float32 { return t.delaySamples }

// TremoloHz returns the tap-derived tremolo rate.
func (t *TapTempoEngine) TremoloHz() float32 { return t.tremoloHz }

// IntervalMs returns the last accepted tap interval.
func (t *TapTempoEngine) IntervalMs() uint32 { return t.intervalMs }

// LastTapMs returns the timestamp of the most recent tap, accepted or not.
func (t *TapTempoEngine) LastTapMs() uint32 { return t.lastTapMs }

// SetOwnership installs which parameters the session drives, decided at
// mode entry from the current bypass states.
func (t *TapTempoEngine) SetOwnership(delay, tremolo bool) {
	t.ownsDelay = delay
	t.ownsTremolo = tremolo
}

// OwnsDelay reports whether tap tempo currently drives the delay time.
func (t *TapTempoEngine) OwnsDelay() bool { return t.ownsDelay }

// OwnsTremolo reports whether tap tempo currently drives the tremolo rate.
func (t *TapTempoEngine) OwnsTremolo() bool { return t.ownsTremolo }

// ReleaseDelay drops delay ownership (takeover fired on the delay knob).
func (t *TapTempoEngine) ReleaseDelay() { t.ownsDelay = false }

// ReleaseTremolo drops tremolo ownership (takeover fired on the rate knob).
func (t *TapTempoEngine) ReleaseTremolo() { t.ownsTremolo = false }

// EndSession clears ownership and the session anchor; the timing history
// survives so the next session can refine the measured tempo.
func (t *TapTempoEngine) EndSession() {
	t.inSession = false
	t.ownsDelay = false
	t.ownsTremolo = false
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
