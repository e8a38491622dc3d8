// terminal_host.go - raw-mode keyboard frontend for the simulated control surface

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
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Key tap press duration, short enough to stay under the long press hold
// threshold.
const hostTapPressMs = 80

// TerminalHost drives the simulated control surface from raw stdin. Only
// instantiated in main.go for interactive use — never in tests.
//
// Key map:
//
//	a / s      tap footswitch 1 / 2
//	A / S      toggle footswitch 1 / 2 held (for long presses)
//	1-6        select knob
//	+ / -      nudge the selected knob
//	q / w / e  cycle toggle switches 1 / 2 / 3
//	r          cycle reverb type DIP switches
//	x          quit
type TerminalHost struct {
	controls *SimControls
	stopCh   chan struct{}
	done     chan struct{}
	quitCh   chan struct{}
	stopped  sync.Once
	quitOnce sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State

	selectedKnob Knob
	held         [FOOTSWITCH_COUNT]bool
	releaseAt    [FOOTSWITCH_COUNT]time.Time
	dipState     int
}

func NewTerminalHost(controls *SimControls) *TerminalHost {
	return &TerminalHost{
		controls: controls,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		quitCh:   make(chan struct{}),
	}
}

// QuitRequested closes when the user presses the quit key.
func (h *TerminalHost) QuitRequested() <-chan struct{} { return h.quitCh }

// Start sets stdin to raw non-blocking mode and begins translating key
// presses into control surface changes. Call Stop() to restore stdin.
func (h *TerminalHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			h.releaseExpiredTaps()

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				h.handleKey(buf[0])
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// Stop terminates the reader goroutine and restores stdin.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

func (h *TerminalHost) releaseExpiredTaps() {
	now := time.Now()
	for fs := FOOTSWITCH_1; fs < FOOTSWITCH_COUNT; fs++ {
		if !h.held[fs] && !h.releaseAt[fs].IsZero() && now.After(h.releaseAt[fs]) {
			h.controls.SetFootswitch(fs, false)
			h.releaseAt[fs] = time.Time{}
		}
	}
}

func (h *TerminalHost) tapFootswitch(fs Footswitch) {
	h.controls.SetFootswitch(fs, true)
	h.releaseAt[fs] = time.Now().Add(hostTapPressMs * time.Millisecond)
}

func (h *TerminalHost) holdFootswitch(fs Footswitch) {
	h.held[fs] = !h.held[fs]
	h.controls.SetFootswitch(fs, h.held[fs])
	h.releaseAt[fs] = time.Time{}
}

func (h *TerminalHost) cycleToggle(t Toggleswitch) {
	pos := h.controls.ToggleswitchPosition(t)
	pos = (pos + 1) % 3
	h.controls.SetToggle(t, pos)
}

func (h *TerminalHost) handleKey(b byte) {
	switch b {
	case 'a':
		h.tapFootswitch(FOOTSWITCH_1)
	case 's':
		h.tapFootswitch(FOOTSWITCH_2)
	case 'A':
		h.holdFootswitch(FOOTSWITCH_1)
	case 'S':
		h.holdFootswitch(FOOTSWITCH_2)
	case '1', '2', '3', '4', '5', '6':
		h.selectedKnob = Knob(b - '1')
	case '+', '=':
		h.controls.SetKnob(h.selectedKnob, h.controls.KnobValue(h.selectedKnob)+0.05)
	case '-', '_':
		h.controls.SetKnob(h.selectedKnob, h.controls.KnobValue(h.selectedKnob)-0.05)
	case 'q':
		h.cycleToggle(TOGGLESWITCH_1)
	case 'w':
		h.cycleToggle(TOGGLESWITCH_2)
	case 'e':
		h.cycleToggle(TOGGLESWITCH_3)
	case 'r':
		h.dipState = (h.dipState + 1) % 3
		h.controls.SetDIPSwitch(0, h.dipState == 2)
		h.controls.SetDIPSwitch(1, h.dipState == 1)
	case 'x', 3: // 'x' or Ctrl-C in raw mode
		h.quitOnce.Do(func() { close(h.quitCh) })
	}
}
