// control_loop.go - millisecond-cadence control loop and boot-time factory reset

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
	"context"
	"log/slog"
	"time"
)

// ControlLoop is the cooperative control-domain loop: it polls the control
// surface, runs gesture detection and the mode controller, refreshes the
// LEDs, and performs the deferred settings write. Audio never waits on it.
type ControlLoop struct {
	clock      Clock
	detector   *GestureDetector
	dualHold   *DualHoldMonitor
	controller *ModeController
	leds       *LedIndicator
	pipeline   *Pipeline
	store      *SettingsStore
	log        *slog.Logger

	tickMs int
}

func NewControlLoop(clock Clock, detector *GestureDetector, dualHold *DualHoldMonitor,
	controller *ModeController, leds *LedIndicator, pipeline *Pipeline,
	store *SettingsStore, tickMs int, log *slog.Logger) *ControlLoop {
	if tickMs < 1 {
		tickMs = 1
	}
	return &ControlLoop{
		clock:      clock,
		detector:   detector,
		dualHold:   dualHold,
		controller: controller,
		leds:       leds,
		pipeline:   pipeline,
		store:      store,
		log:        log,
		tickMs:     tickMs,
	}
}

// Step runs exactly one control tick. Split out from Run so offline tests
// can drive the loop with a simulated clock.
func (l *ControlLoop) Step(now uint32) {
	l.detector.ProcessTick(now)
	l.dualHold.Check(now)
	l.controller.Tick(now)

	if !l.dualHold.Triggered() {
		l.leds.Refresh(now, l.controller.LedSnapshot(l.pipeline.TremoloLevel()))
	}

	if saved, err := l.store.SaveIfDirty(); err != nil {
		l.log.Error("deferred settings write failed", "error", err)
	} else if saved {
		l.log.Debug("settings written")
	}
}

// Run ticks the loop until the context is cancelled.
func (l *ControlLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(l.tickMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Step(l.clock.NowMs())
		}
	}
}

// Factory reset sweep stages: with the right footswitch held at power-on,
// knob 1 must be swept full up, full down, full up, full down. Each
// completed stage speeds up the LED alternation; finishing the sequence
// restores factory defaults.
type FactoryResetMonitor struct {
	surface ControlSurface
	leds    *LedIndicator
	store   *SettingsStore
	log     *slog.Logger

	stage        int
	blinkState   bool
	lastBlinkMs  uint32
	flashUntilMs uint32
	done         bool
	completed    bool
}

func NewFactoryResetMonitor(surface ControlSurface, leds *LedIndicator,
	store *SettingsStore, log *slog.Logger) *FactoryResetMonitor {
	return &FactoryResetMonitor{surface: surface, leds: leds, store: store, log: log}
}

// Armed reports whether the reset entry condition holds: the right
// footswitch pressed at the moment of the check (power-on).
func (m *FactoryResetMonitor) Armed() bool {
	return m.surface.FootswitchPressed(FOOTSWITCH_2)
}

// Done reports whether the monitor finished, by completion or abort.
func (m *FactoryResetMonitor) Done() bool { return m.done }

// Completed reports whether the full sweep ran and defaults were restored.
func (m *FactoryResetMonitor) Completed() bool { return m.completed }

// Step advances the sweep state machine one tick. Releasing the footswitch
// before the sequence completes aborts without touching the settings.
func (m *FactoryResetMonitor) Step(now uint32) {
	if m.done {
		return
	}

	if !m.surface.FootswitchPressed(FOOTSWITCH_2) {
		m.done = true
		m.log.Info("factory reset aborted", "stage", m.stage)
		return
	}

	knob := m.surface.KnobValue(KNOB_1)
	// Odd stages wait for the top of the sweep, even stages for the bottom
	advanced := false
	if m.stage%2 == 0 {
		if knob >= FACTORY_RESET_KNOB_HIGH {
			m.stage++
			advanced = true
		}
	} else if knob <= FACTORY_RESET_KNOB_LOW {
		m.stage++
		advanced = true
	}

	// A completed stage holds both LEDs bright for a moment; the
	// alternation resumes afterwards at the faster rate.
	if advanced {
		m.flashUntilMs = now + FACTORY_RESET_FLASH_MS
		m.leds.SetBoth(1.0)
	}
	if now >= m.flashUntilMs {
		period := uint32(FACTORY_RESET_BLINK_MS - m.stage*FACTORY_RESET_BLINK_STEP_MS)
		if now-m.lastBlinkMs >= period {
			m.blinkState = !m.blinkState
			m.lastBlinkMs = now
			m.leds.SetAlternate(m.blinkState)
		}
	}

	if m.stage >= 4 {
		m.done = true
		m.completed = true
		if err := m.store.RestoreDefaults(); err != nil {
			m.log.Error("factory reset write failed", "error", err)
		} else {
			m.log.Info("factory defaults restored")
		}
		m.leds.SetBoth(1.0)
	}
}
