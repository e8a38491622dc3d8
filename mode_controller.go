// mode_controller.go - pedal operating-mode state machine and block-rate parameter resolution

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
	"log/slog"
	"math"
)

// ReverbClearer lets the controller flush reverb tails without holding a
// reference to the whole pipeline.
type ReverbClearer interface {
	ClearReverb()
}

// ModeController is the top-level state machine. It consumes gesture events
// from the control loop, drives mode transitions and bypass toggles, owns
// every soft-takeover arbiter, and resolves the per-block parameter snapshot
// for the audio path.
//
// Ordering rule: on any transition into an arbitrated mode, every Capture
// call completes before the mode field changes, so a concurrent
// ResolveBlockControls can never observe the new mode with stale arbiters.
// The shared mutex in PedalContext makes the whole transition atomic anyway,
// but the capture-before-mode order is kept so the invariant does not depend
// on the lock.
type ModeController struct {
	ctx     *PedalContext
	surface ControlSurface
	store   *SettingsStore
	tap     *TapTempoEngine
	clock   Clock
	verb    ReverbClearer
	log     *slog.Logger

	sampleRate float32

	// Reverb edit mode arbiters
	preDelayCapture    *KnobCapture // KNOB_2
	decayCapture       *KnobCapture // KNOB_3
	diffusionCapture   *KnobCapture // KNOB_4
	inputCutoffCapture *KnobCapture // KNOB_5
	tankCutoffCapture  *KnobCapture // KNOB_6
	modSpeedCapture    *SwitchCapture
	modDepthCapture    *SwitchCapture
	modShapeCapture    *SwitchCapture

	// Tap-tempo session arbiters over the delay-time and tremolo-rate knobs
	tapDelayCapture *KnobCapture // KNOB_4
	tapTremCapture  *KnobCapture // KNOB_2

	// Last values resolved in normal mode. Edit modes keep running the
	// delay and tremolo on these instead of re-reading their knobs.
	plateWet    float32
	plateDry    float32
	tremFreq    float32
	tremDepth   float32 // post mode scaling
	tremMode    TremoloMode
	delayTarget float32
	delayFeed   float32
	delayDryWet float32
}

func NewModeController(ctx *PedalContext, surface ControlSurface, store *SettingsStore,
	tap *TapTempoEngine, clock Clock, sampleRate float32, log *slog.Logger) *ModeController {
	c := &ModeController{
		ctx:        ctx,
		surface:    surface,
		store:      store,
		tap:        tap,
		clock:      clock,
		log:        log,
		sampleRate: sampleRate,

		preDelayCapture:    NewKnobCapture(surface, KNOB_2, KNOB_TAKEOVER_THRESHOLD),
		decayCapture:       NewKnobCapture(surface, KNOB_3, KNOB_TAKEOVER_THRESHOLD),
		diffusionCapture:   NewKnobCapture(surface, KNOB_4, KNOB_TAKEOVER_THRESHOLD),
		inputCutoffCapture: NewKnobCapture(surface, KNOB_5, KNOB_TAKEOVER_THRESHOLD),
		tankCutoffCapture:  NewKnobCapture(surface, KNOB_6, KNOB_TAKEOVER_THRESHOLD),
		modSpeedCapture:    NewSwitchCapture(surface, TOGGLESWITCH_1),
		modDepthCapture:    NewSwitchCapture(surface, TOGGLESWITCH_2),
		modShapeCapture:    NewSwitchCapture(surface, TOGGLESWITCH_3),

		tapDelayCapture: NewKnobCapture(surface, KNOB_4, KNOB_TAKEOVER_THRESHOLD),
		tapTremCapture:  NewKnobCapture(surface, KNOB_2, KNOB_TAKEOVER_THRESHOLD),

		plateDry:    1.0,
		tremFreq:    TREMOLO_SPEED_MIN,
		tremMode:    TREMOLO_SINE,
		delayTarget: DELAY_TIME_MIN_SECONDS * sampleRate,
	}
	return c
}

// AttachReverbClearer wires the pipeline's tail flush. Separate from the
// constructor because the pipeline is built after the controller.
func (c *ModeController) AttachReverbClearer(v ReverbClearer) { c.verb = v }

// LoadFromStore pushes the persisted record into the live context. Called
// once at startup after SettingsStore.Load.
func (c *ModeController) LoadFromStore() {
	rec := c.store.Settings()

	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()
	c.restoreReverbLocked(rec)
	c.restoreMonoStereoLocked(rec)
	c.ctx.bypassVerb = rec.BypassReverb
	c.ctx.bypassTrem = rec.BypassTremolo
	c.ctx.bypassDelay = rec.BypassDelay
}

// HandleNormalPress implements the normal-press transitions. Registered as
// a gesture callback.
func (c *ModeController) HandleNormalPress(fs Footswitch) {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	switch c.ctx.mode {
	case PEDAL_MODE_EDIT_REVERB:
		if fs == FOOTSWITCH_2 {
			c.commitReverbLocked()
		} else {
			c.restoreReverbLocked(c.store.Settings())
		}
		c.resetReverbCaptures()
		c.ctx.mode = PEDAL_MODE_NORMAL
		c.log.Info("exited reverb edit mode", "committed", fs == FOOTSWITCH_2)
		c.saveBypassLocked()

	case PEDAL_MODE_EDIT_MONO_STEREO:
		if fs == FOOTSWITCH_2 {
			c.commitMonoStereoLocked()
		} else {
			c.restoreMonoStereoLocked(c.store.Settings())
		}
		c.ctx.mode = PEDAL_MODE_NORMAL
		c.log.Info("exited mono-stereo edit mode", "committed", fs == FOOTSWITCH_2)
		c.saveBypassLocked()

	case PEDAL_MODE_TAP_TEMPO:
		if fs == FOOTSWITCH_1 {
			c.exitTapTempoLocked("footswitch")
		} else {
			now := c.clock.NowMs()
			if c.tap.RegisterTap(now) {
				c.log.Debug("tap accepted", "interval_ms", c.tap.IntervalMs(), "tremolo_hz", c.tap.TremoloHz())
			} else {
				c.log.Debug("tap outside valid interval", "now_ms", now)
			}
		}

	default: // PEDAL_MODE_NORMAL
		if fs == FOOTSWITCH_1 {
			c.ctx.bypassVerb = !c.ctx.bypassVerb
			if c.ctx.bypassVerb && c.verb != nil {
				// Flush the tails so re-engaging starts fresh
				c.verb.ClearReverb()
			}
		} else {
			c.ctx.bypassDelay = !c.ctx.bypassDelay
		}
		c.saveBypassLocked()
	}
}

// HandleDoublePress implements the double-press transitions. The first
// release of the pair already delivered a normal press, so in normal mode
// that toggle is reversed before the double-press effect is applied.
func (c *ModeController) HandleDoublePress(fs Footswitch) {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	if c.ctx.mode != PEDAL_MODE_NORMAL {
		return
	}

	// Undo the implied normal press. That press already queued a settings
	// write, so the undo must queue one too or the persisted bypass state
	// ends up inverted.
	if fs == FOOTSWITCH_1 {
		c.ctx.bypassVerb = !c.ctx.bypassVerb
		c.saveBypassLocked()
		c.enterTapTempoLocked()
	} else {
		c.ctx.bypassDelay = !c.ctx.bypassDelay
		c.ctx.bypassTrem = !c.ctx.bypassTrem
		c.saveBypassLocked()
	}
}

// HandleLongPress implements the long-press transitions into the two edit
// modes.
func (c *ModeController) HandleLongPress(fs Footswitch) {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	if c.ctx.mode != PEDAL_MODE_NORMAL {
		return
	}

	if fs == FOOTSWITCH_1 {
		// Capture everything the edit mode arbitrates before the mode
		// flips; the hearable parameters must not jump to the knobs'
		// physical positions.
		rv := &c.ctx.reverb
		c.preDelayCapture.Capture(rv.PreDelay)
		c.decayCapture.Capture(rv.Decay)
		c.diffusionCapture.Capture(rv.Diffusion)
		c.inputCutoffCapture.Capture(rv.InputCutoff)
		c.tankCutoffCapture.Capture(rv.TankCutoff)
		c.modSpeedCapture.Capture(rv.ModSpeed)
		c.modDepthCapture.Capture(rv.ModDepth)
		c.modShapeCapture.Capture(rv.ModShape)

		c.ctx.bypassVerb = false // the edited reverb must be audible
		c.ctx.mode = PEDAL_MODE_EDIT_REVERB
		c.log.Info("entered reverb edit mode")
	} else {
		c.ctx.bypassVerb = false
		c.ctx.bypassTrem = true
		c.ctx.bypassDelay = true
		c.ctx.mode = PEDAL_MODE_EDIT_MONO_STEREO
		c.log.Info("entered mono-stereo edit mode")
	}
}

// Tick runs the controller's per-tick timeout polling. Called from the
// control loop once per tick.
func (c *ModeController) Tick(now uint32) {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	if c.ctx.mode == PEDAL_MODE_TAP_TEMPO && c.tap.TimedOut(now) {
		c.exitTapTempoLocked("timeout")
	}
}

// LedSnapshot assembles the LED indicator's view of the current state.
func (c *ModeController) LedSnapshot(tremLevel float32) LedState {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	return LedState{
		Mode:          c.ctx.mode,
		ReverbActive:  !c.ctx.bypassVerb,
		TremoloActive: !c.ctx.bypassTrem,
		DelayActive:   !c.ctx.bypassDelay,
		TremoloLevel:  tremLevel,
		TapIntervalMs: c.tap.IntervalMs(),
		TapAnchorMs:   c.tap.LastTapMs(),
	}
}

func (c *ModeController) enterTapTempoLocked() {
	// Arbiters first, mode second
	c.tapDelayCapture.Capture(c.delayTarget)
	c.tapTremCapture.Capture(c.tremFreq)
	c.tap.BeginSession(c.clock.NowMs())

	delayActive := !c.ctx.bypassDelay
	tremActive := !c.ctx.bypassTrem
	if delayActive == tremActive {
		// Both active or both bypassed: tap drives both
		c.tap.SetOwnership(true, true)
	} else {
		c.tap.SetOwnership(delayActive, tremActive)
	}

	c.ctx.mode = PEDAL_MODE_TAP_TEMPO
	c.log.Info("entered tap tempo mode", "owns_delay", c.tap.OwnsDelay(), "owns_tremolo", c.tap.OwnsTremolo())
}

func (c *ModeController) exitTapTempoLocked(reason string) {
	c.tap.EndSession()
	c.tapDelayCapture.Reset()
	c.tapTremCapture.Reset()
	c.ctx.mode = PEDAL_MODE_NORMAL
	c.log.Info("exited tap tempo mode", "reason", reason)
}

func (c *ModeController) resetReverbCaptures() {
	c.preDelayCapture.Reset()
	c.decayCapture.Reset()
	c.diffusionCapture.Reset()
	c.inputCutoffCapture.Reset()
	c.tankCutoffCapture.Reset()
	c.modSpeedCapture.Reset()
	c.modDepthCapture.Reset()
	c.modShapeCapture.Reset()
}

func (c *ModeController) commitReverbLocked() {
	rv := c.ctx.reverb
	rec := c.store.Settings()
	rec.Decay = rv.Decay
	rec.Diffusion = rv.Diffusion
	rec.InputCutoff = rv.InputCutoff
	rec.TankCutoff = rv.TankCutoff
	rec.TankModSpeed = rv.ModSpeed
	rec.TankModDepth = rv.ModDepth
	rec.TankModShape = rv.ModShape
	rec.PreDelay = rv.PreDelay
	c.store.MarkDirty()
}

func (c *ModeController) restoreReverbLocked(rec *Settings) {
	c.ctx.reverb = ReverbParams{
		Decay:       rec.Decay,
		Diffusion:   rec.Diffusion,
		InputCutoff: rec.InputCutoff,
		TankCutoff:  rec.TankCutoff,
		ModSpeed:    rec.TankModSpeed,
		ModDepth:    rec.TankModDepth,
		ModShape:    rec.TankModShape,
		PreDelay:    rec.PreDelay,
	}
}

func (c *ModeController) commitMonoStereoLocked() {
	rec := c.store.Settings()
	rec.MonoStereoMode = int(c.ctx.monoStereo)
	rec.MakeupGainMode = int(c.ctx.makeupGain)
	c.store.MarkDirty()
}

func (c *ModeController) restoreMonoStereoLocked(rec *Settings) {
	c.ctx.monoStereo = MonoStereoMode(rec.MonoStereoMode)
	c.ctx.makeupGain = MakeupGainMode(rec.MakeupGainMode)
	c.ctx.updateReverbScales()
}

func (c *ModeController) saveBypassLocked() {
	rec := c.store.Settings()
	rec.BypassReverb = c.ctx.bypassVerb
	rec.BypassTremolo = c.ctx.bypassTrem
	rec.BypassDelay = c.ctx.bypassDelay
	c.store.MarkDirty()
}

// togglePosition reads a toggle and maps the unknown sentinel to middle so
// a bad read never indexes out of a value table.
func (c *ModeController) togglePosition(t Toggleswitch) ToggleswitchPosition {
	pos := c.surface.ToggleswitchPosition(t)
	if pos < TOGGLESWITCH_LEFT || pos > TOGGLESWITCH_RIGHT {
		c.log.Warn("unknown toggle switch position", "switch", int(t))
		return TOGGLESWITCH_MIDDLE
	}
	return pos
}

// delayTimeFromKnob maps the delay-time knob logarithmically onto
// [DELAY_TIME_MIN_SECONDS, DELAY_TIME_MAX_SECONDS] in samples.
func (c *ModeController) delayTimeFromKnob(k float32) float32 {
	minS := float64(DELAY_TIME_MIN_SECONDS) * float64(c.sampleRate)
	maxS := float64(DELAY_TIME_MAX_SECONDS) * float64(c.sampleRate)
	return float32(minS * math.Pow(maxS/minS, float64(clamp32(k, 0, 1))))
}

// ResolveBlockControls computes the parameter snapshot for one audio block.
// This is the only place the audio path takes the context lock.
func (c *ModeController) ResolveBlockControls() BlockParams {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	ctx := c.ctx

	// Reverb engine selection follows the DIP switches at all times
	dip1 := c.surface.DIPSwitch(0)
	dip2 := c.surface.DIPSwitch(1)
	switch {
	case !dip1 && dip2:
		ctx.reverbType = REVERB_SPRING
	case dip1 && !dip2:
		ctx.reverbType = REVERB_HALL
	default:
		ctx.reverbType = REVERB_PLATE
	}

	c.plateWet = c.surface.KnobValue(KNOB_1)

	switch ctx.mode {
	case PEDAL_MODE_NORMAL:
		c.resolveNormalLocked()

	case PEDAL_MODE_TAP_TEMPO:
		c.resolveTapTempoLocked()

	case PEDAL_MODE_EDIT_REVERB:
		// Dry stays at full level while editing so the tail is judged
		// against the unprocessed signal
		c.plateDry = 1.0
		rv := &ctx.reverb
		rv.PreDelay = c.preDelayCapture.Process(c.surface.KnobValue(KNOB_2) * PLATE_PRE_DELAY_KNOB_SCALE)
		rv.Decay = c.decayCapture.Process(c.surface.KnobValue(KNOB_3))
		rv.Diffusion = c.diffusionCapture.Process(c.surface.KnobValue(KNOB_4))
		rv.InputCutoff = c.inputCutoffCapture.Process(c.surface.KnobValue(KNOB_5) * CUTOFF_KNOB_SCALE)
		rv.TankCutoff = c.tankCutoffCapture.Process(c.surface.KnobValue(KNOB_6) * CUTOFF_KNOB_SCALE)
		rv.ModSpeed = c.modSpeedCapture.Process(tankModSpeedValues[c.togglePosition(TOGGLESWITCH_1)])
		rv.ModDepth = c.modDepthCapture.Process(tankModDepthValues[c.togglePosition(TOGGLESWITCH_2)])
		rv.ModShape = c.modShapeCapture.Process(tankModShapeValues[c.togglePosition(TOGGLESWITCH_3)])

	case PEDAL_MODE_EDIT_MONO_STEREO:
		// Direct selection, no arbitration
		ctx.monoStereo = monoStereoModeMap[c.togglePosition(TOGGLESWITCH_3)]
		ctx.makeupGain = makeupGainMap[c.togglePosition(TOGGLESWITCH_2)]
		ctx.updateReverbScales()
	}

	tremMode := c.tremMode
	if ctx.mode != PEDAL_MODE_NORMAL && ctx.mode != PEDAL_MODE_TAP_TEMPO {
		tremMode = TREMOLO_SINE
	}

	rv := ctx.reverb
	rv.ModSpeed *= PLATE_TANK_MOD_SPEED_SCALE
	rv.ModDepth *= PLATE_TANK_MOD_DEPTH_SCALE

	return BlockParams{
		BypassReverb:  ctx.bypassVerb,
		BypassTremolo: ctx.bypassTrem,
		BypassDelay:   ctx.bypassDelay,

		MonoStereo: ctx.monoStereo,
		ReverbType: ctx.reverbType,

		TremoloMode:  tremMode,
		TremoloFreq:  c.tremFreq,
		TremoloDepth: c.tremDepth,

		DelayTargetSamples: c.delayTarget,
		DelayFeedback:      c.delayFeed,
		DelayDryWet:        c.delayDryWet,
		DelayMakeupGain:    delayMakeupGainValues[ctx.makeupGain],

		TremoloMakeupGain: tremMakeupGainValues[ctx.makeupGain],

		PlateWet:     c.plateWet,
		PlateDry:     c.plateDry,
		DryScale:     ctx.dryScale,
		ReverseScale: ctx.reverseScale,
		InputGain:    MINUS_18DB_GAIN * MINUS_20DB_GAIN * (1.0 + ctx.inputAmp*7.0) * ctx.outputTrim,
		OutputTrim:   ctx.outputTrim,

		Reverb: rv,
	}
}

// resolveNormalLocked reads the full normal-mode knob assignment.
func (c *ModeController) resolveNormalLocked() {
	c.tremFreq = TREMOLO_SPEED_MIN + c.surface.KnobValue(KNOB_2)*(TREMOLO_SPEED_MAX-TREMOLO_SPEED_MIN)
	c.resolveTremDepthAndModeLocked()
	c.delayTarget = c.delayTimeFromKnob(c.surface.KnobValue(KNOB_4))
	c.resolveDelayMixLocked()
	c.resolvePlateDryLocked()
}

// resolveTapTempoLocked is the normal-mode resolution with the delay-time
// and tremolo-rate knobs arbitrated against the tap session.
func (c *ModeController) resolveTapTempoLocked() {
	knobFreq := TREMOLO_SPEED_MIN + c.surface.KnobValue(KNOB_2)*(TREMOLO_SPEED_MAX-TREMOLO_SPEED_MIN)
	arbFreq := c.tapTremCapture.Process(knobFreq)
	if !c.tapTremCapture.IsFrozen() && c.tap.OwnsTremolo() {
		// The player grabbed the rate knob back mid-session
		c.tap.ReleaseTremolo()
		c.log.Debug("tremolo rate knob takeover, tap ownership released")
	}
	if c.tap.OwnsTremolo() && c.tap.HasTempo() {
		c.tremFreq = c.tap.TremoloHz()
	} else {
		c.tremFreq = arbFreq
	}

	knobDelay := c.delayTimeFromKnob(c.surface.KnobValue(KNOB_4))
	arbDelay := c.tapDelayCapture.Process(knobDelay)
	if !c.tapDelayCapture.IsFrozen() && c.tap.OwnsDelay() {
		c.tap.ReleaseDelay()
		c.log.Debug("delay time knob takeover, tap ownership released")
	}
	if c.tap.OwnsDelay() && c.tap.HasTempo() {
		c.delayTarget = c.tap.DelaySamples()
	} else {
		c.delayTarget = arbDelay
	}

	c.resolveTremDepthAndModeLocked()
	c.resolveDelayMixLocked()
	c.resolvePlateDryLocked()
}

func (c *ModeController) resolveTremDepthAndModeLocked() {
	depth := clamp32(c.surface.KnobValue(KNOB_3)*TREMOLO_DEPTH_SCALE, 0, 1)
	c.tremMode = tremoloModeMap[c.togglePosition(TOGGLESWITCH_2)]
	if c.tremMode == TREMOLO_HARMONIC {
		depth *= 1.25
	} else {
		depth *= 0.5
	}
	c.tremDepth = depth
}

func (c *ModeController) resolveDelayMixLocked() {
	c.delayFeed = c.surface.KnobValue(KNOB_5)
	percent := float32(int(c.surface.KnobValue(KNOB_6) * DELAY_DRY_WET_PERCENT_MAX))
	c.delayDryWet = percent / DELAY_DRY_WET_PERCENT_MAX
}

func (c *ModeController) resolvePlateDryLocked() {
	switch reverbKnobModeMap[c.togglePosition(TOGGLESWITCH_1)] {
	case REVERB_KNOB_ALL_DRY:
		c.plateDry = 1.0
	case REVERB_KNOB_DRY_WET_MIX:
		c.plateDry = 1.0 - c.plateWet
	default: // REVERB_KNOB_ALL_WET
		c.plateDry = 0.0
	}
}
