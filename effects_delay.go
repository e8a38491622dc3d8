// effects_delay.go - Interpolated delay line with smoothed delay time

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

// DelayLine is a circular buffer with linearly interpolated fractional
// reads. All storage is allocated at construction; the audio path never
// allocates.
type DelayLine struct {
	buf      []float32
	size     int
	writePos int
}

func NewDelayLine(maxSamples int) *DelayLine {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return &DelayLine{
		buf:  make([]float32, maxSamples),
		size: maxSamples,
	}
}

// Write pushes one sample and advances the write head.
func (d *DelayLine) Write(sample float32) {
	d.buf[d.writePos] = sample
	d.writePos++
	if d.writePos >= d.size {
		d.writePos = 0
	}
}

// ReadAt returns the sample delaySamples behind the write head, with
// linear interpolation for fractional delays.
func (d *DelayLine) ReadAt(delaySamples float32) float32 {
	if delaySamples < 0 {
		delaySamples = 0
	}
	max := float32(d.size - 2)
	if delaySamples > max {
		delaySamples = max
	}

	readPos := float32(d.writePos) - delaySamples
	if readPos < 0 {
		readPos += float32(d.size)
	}

	idx := int(readPos)
	frac := readPos - float32(idx)
	s1 := d.buf[idx]
	next := idx + 1
	if next >= d.size {
		next = 0
	}
	s2 := d.buf[next]
	return s1*(1-frac) + s2*frac
}

// Clear zeroes the buffer.
func (d *DelayLine) Clear() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.writePos = 0
}

// DelayChannel is one channel of the delay effect: a delay line whose
// effective length glides toward a target with one-pole smoothing,
// recomputed every sample, plus feedback into the write path.
type DelayChannel struct {
	line         *DelayLine
	currentDelay float32
	targetDelay  float32
	feedback     float32
}

func NewDelayChannel(maxSamples int) *DelayChannel {
	return &DelayChannel{line: NewDelayLine(maxSamples)}
}

// SetTarget sets the delay length (samples) the channel glides toward.
func (c *DelayChannel) SetTarget(samples float32) { c.targetDelay = samples }

// SetFeedback sets the feedback gain applied to the delayed signal.
func (c *DelayChannel) SetFeedback(fb float32) { c.feedback = fb }

// Process runs one sample: glide the delay length, read the tap, write
// input plus scaled feedback, return the wet sample.
func (c *DelayChannel) Process(in float32) float32 {
	onePole(&c.currentDelay, c.targetDelay, DELAY_SMOOTHING_COEFFICIENT)
	read := c.line.ReadAt(c.currentDelay)
	c.line.Write(c.feedback*read + in)
	return read
}

// Clear flushes the delay memory, keeping the configured length/feedback.
func (c *DelayChannel) Clear() { c.line.Clear() }
