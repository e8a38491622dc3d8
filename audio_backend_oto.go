//go:build !headless

// audio_backend_oto.go - OTO v3 stereo audio output

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
	"sync"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

// OtoPlayer pulls planar blocks from the pipeline and interleaves them for
// the float32 stereo device stream. The pull model means the audio timing
// domain is oto's reader goroutine.
type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	pipeline  *Pipeline
	input     InputSource
	blockSize int

	inL, inR   []float32
	outL, outR []float32
	frameBuf   []float32 // Interleaved L/R staging buffer

	started bool
	mutex   sync.Mutex // Setup and control operations only
}

func NewAudioOutput(sampleRate, blockSize int, pipeline *Pipeline, input InputSource) (AudioOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // Backend default; the pedal block size is independent
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &OtoPlayer{
		ctx:       ctx,
		pipeline:  pipeline,
		input:     input,
		blockSize: blockSize,
		inL:       make([]float32, blockSize),
		inR:       make([]float32, blockSize),
		outL:      make([]float32, blockSize),
		outR:      make([]float32, blockSize),
		frameBuf:  make([]float32, 2*blockSize),
	}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read renders pedal blocks into the device stream. len(p) from oto is
// not necessarily a block multiple, so the tail of a request is rendered
// as one short block.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	frames := len(p) / 8 // 2 channels x 4 bytes
	written := 0

	for written < frames {
		n := op.blockSize
		if remaining := frames - written; remaining < n {
			n = remaining
		}

		op.input.ReadBlock(op.inL, op.inR, n)
		op.pipeline.ProcessBlock(op.inL, op.inR, op.outL, op.outR, n)

		buf := op.frameBuf[:2*n]
		for i := 0; i < n; i++ {
			buf[2*i] = op.outL[i]
			buf[2*i+1] = op.outR[i]
		}

		dst := p[written*8 : (written+n)*8]
		copy(dst, (*[1 << 30]byte)(unsafe.Pointer(&buf[0]))[:len(dst)])
		written += n
	}

	return written * 8, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
