// audio_output.go - audio backend contract and input sources

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// InputSource supplies the pedal's instrument input, one planar stereo
// block at a time. Implementations must not block the audio goroutine.
type InputSource interface {
	ReadBlock(inL, inR []float32, n int)
}

// SilentInput feeds silence, for running the pedal without an instrument
// attached (the reverb tails and the control surface still work).
type SilentInput struct{}

func (SilentInput) ReadBlock(inL, inR []float32, n int) {
	for i := 0; i < n; i++ {
		inL[i] = 0
		inR[i] = 0
	}
}

// AudioOutput is the playback backend. The oto implementation pulls blocks
// from the pipeline; the headless build stubs it out.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}
