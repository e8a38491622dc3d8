// pedal_engine.go - top-level assembly of the pedal core

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
	"sync"
	"sync/atomic"
	"time"
)

// PedalEngine wires the control surface, state machines, settings store,
// effects pipeline and audio backend into a running pedal.
type PedalEngine struct {
	cfg Config
	log *slog.Logger

	ctx        *PedalContext
	controls   *SimControls
	clock      Clock
	store      *SettingsStore
	tap        *TapTempoEngine
	controller *ModeController
	pipeline   *Pipeline
	detector   *GestureDetector
	dualHold   *DualHoldMonitor
	led1, led2 *SimLED
	leds       *LedIndicator
	loop       *ControlLoop
	output     AudioOutput

	dfuRequested atomic.Bool

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewPedalEngine(cfg Config, log *slog.Logger) (*PedalEngine, error) {
	e := &PedalEngine{
		cfg:      cfg,
		log:      log,
		ctx:      NewPedalContext(),
		controls: NewSimControls(),
		clock:    NewSystemClock(),
	}

	e.led1 = &SimLED{}
	e.led2 = &SimLED{}
	e.leds = NewLedIndicator(e.led1, e.led2)

	e.store = NewSettingsStore(cfg.SettingsPath, FactoryDefaultSettings(), log)
	e.tap = NewTapTempoEngine(float32(cfg.SampleRate))
	e.controller = NewModeController(e.ctx, e.controls, e.store, e.tap, e.clock,
		float32(cfg.SampleRate), log)
	e.pipeline = NewPipeline(float32(cfg.SampleRate), e.controller)
	e.controller.AttachReverbClearer(e.pipeline)

	e.detector = NewGestureDetector(e.controls)
	e.detector.RegisterCallbacks(&FootswitchCallbacks{
		HandleNormalPress: e.controller.HandleNormalPress,
		HandleDoublePress: e.controller.HandleDoublePress,
		HandleLongPress:   e.controller.HandleLongPress,
	})
	e.dualHold = NewDualHoldMonitor(e.controls, e.leds, e.handleDFUTrigger)

	e.loop = NewControlLoop(e.clock, e.detector, e.dualHold, e.controller,
		e.leds, e.pipeline, e.store, cfg.ControlTickMs, log)

	if cfg.Backend == "oto" {
		out, err := NewAudioOutput(cfg.SampleRate, cfg.BlockSize, e.pipeline, SilentInput{})
		if err != nil {
			return nil, err
		}
		e.output = out
	}

	return e, nil
}

// Controls exposes the simulated control surface for the terminal host.
func (e *PedalEngine) Controls() *SimControls { return e.controls }

// LEDBrightness returns the two indicator brightness values.
func (e *PedalEngine) LEDBrightness() (float32, float32) {
	return e.led1.Value(), e.led2.Value()
}

// DFURequested reports whether the dual-footswitch bootloader hold fired.
func (e *PedalEngine) DFURequested() bool { return e.dfuRequested.Load() }

func (e *PedalEngine) handleDFUTrigger() {
	// The real unit hands off to the bootloader here; this core only
	// records the request and lets the host decide what to do with it.
	e.dfuRequested.Store(true)
	e.log.Info("firmware update hold complete, bootloader handoff requested")
}

// checkFactoryReset runs the boot-time reset sequence if the right
// footswitch is held at power-on. Blocks until the sweep completes or the
// footswitch is released.
func (e *PedalEngine) checkFactoryReset() {
	monitor := NewFactoryResetMonitor(e.controls, e.leds, e.store, e.log)
	if !monitor.Armed() {
		return
	}
	e.log.Info("factory reset armed, waiting for knob sweep")

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for !monitor.Done() {
		<-ticker.C
		monitor.Step(e.clock.NowMs())
	}
}

// Start loads settings, runs the boot-time factory reset check, and brings
// up the audio backend and control loop.
func (e *PedalEngine) Start() error {
	if e.started {
		return nil
	}

	e.checkFactoryReset()

	if err := e.store.Load(); err != nil {
		return err
	}
	e.controller.LoadFromStore()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.loop.Run(ctx)
	}()

	if e.output != nil {
		e.output.Start()
	}

	e.started = true
	e.log.Info("pedal engine started",
		"sample_rate", e.cfg.SampleRate,
		"block_size", e.cfg.BlockSize,
		"backend", e.cfg.Backend)
	return nil
}

// Stop shuts down audio and the control loop, then flushes any pending
// settings write.
func (e *PedalEngine) Stop() {
	if !e.started {
		return
	}

	if e.output != nil {
		e.output.Close()
	}
	e.cancel()
	e.wg.Wait()

	if _, err := e.store.SaveIfDirty(); err != nil {
		e.log.Error("final settings write failed", "error", err)
	}

	e.started = false
	e.log.Info("pedal engine stopped")
}
