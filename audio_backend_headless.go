//go:build headless

// audio_backend_headless.go - no-op audio output for headless builds

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

type OtoPlayer struct {
	started bool
}

func NewAudioOutput(sampleRate, blockSize int, pipeline *Pipeline, input InputSource) (AudioOutput, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) Start() {
	op.started = true
}

func (op *OtoPlayer) Stop() {
	op.started = false
}

func (op *OtoPlayer) Close() {
	op.started = false
}

func (op *OtoPlayer) IsStarted() bool {
	return op.started
}
