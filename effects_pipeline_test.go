// effects_pipeline_test.go - Stereo effect chain routing and reverb tail tests

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

import "testing"

const pipeTestSampleRate = 48000.0

// stubResolver hands the pipeline a fixed parameter snapshot.
type stubResolver struct{ bp BlockParams }

func (s *stubResolver) ResolveBlockControls() BlockParams { return s.bp }

// neutralParams is an everything-bypassed stereo baseline with unity gains.
func neutralParams() BlockParams {
	return BlockParams{
		BypassReverb:  true,
		BypassTremolo: true,
		BypassDelay:   true,

		MonoStereo: MS_MODE_SISO,
		ReverbType: REVERB_PLATE,

		TremoloMode:  TREMOLO_SINE,
		TremoloFreq:  4.0,
		TremoloDepth: 0.5,

		DelayTargetSamples: 0.1 * pipeTestSampleRate,
		DelayFeedback:      0.3,
		DelayDryWet:        0.5,
		DelayMakeupGain:    1.0,

		TremoloMakeupGain: 1.0,

		PlateWet:     1.0,
		PlateDry:     0.0,
		DryScale:     1.0,
		ReverseScale: 1.0,
		InputGain:    1.0,
		OutputTrim:   1.0,

		Reverb: ReverbParams{
			Decay:       0.8,
			Diffusion:   0.85,
			InputCutoff: 7.25,
			TankCutoff:  7.25,
		},
	}
}

// render pushes n samples of input through the pipeline in pedal-sized blocks.
func render(p *Pipeline, inL, inR []float32) (outL, outR []float32) {
	n := len(inL)
	outL = make([]float32, n)
	outR = make([]float32, n)
	const block = 8
	for off := 0; off < n; off += block {
		m := block
		if off+m > n {
			m = n - off
		}
		p.ProcessBlock(inL[off:], inR[off:], outL[off:], outR[off:], m)
	}
	return outL, outR
}

func impulse(n int) []float32 {
	buf := make([]float32, n)
	buf[0] = 1.0
	return buf
}

func TestPipeline_MonoOutputRouting(t *testing.T) {
	t.Log("=== MONO OUTPUT ROUTING ===")
	t.Log("Mono in / mono out sums both channels onto the left output and")
	t.Log("leaves the right output silent")

	resolver := &stubResolver{bp: neutralParams()}
	resolver.bp.MonoStereo = MS_MODE_MIMO

	p := NewPipeline(pipeTestSampleRate, resolver)
	n := 512
	outL, outR := render(p, impulse(n), make([]float32, n))

	for i, v := range outR {
		if v != 0 {
			t.Fatalf("right output must be silent in mono mode, sample %d = %v", i, v)
		}
	}
	if outL[0] == 0 {
		t.Error("left output lost the impulse")
	}
}

func TestPipeline_MonoInputDuplication(t *testing.T) {
	t.Log("=== MONO INPUT FAN-IN ===")
	t.Log("Mono in / stereo out runs the left input on both channels, so an")
	t.Log("input with signal only on the right stays silent")

	resolver := &stubResolver{bp: neutralParams()}
	resolver.bp.MonoStereo = MS_MODE_MISO

	p := NewPipeline(pipeTestSampleRate, resolver)
	n := 256
	outL, outR := render(p, make([]float32, n), impulse(n))

	for i := 0; i < n; i++ {
		if outL[i] != 0 || outR[i] != 0 {
			t.Fatalf("right-only input leaked through mono fan-in at sample %d", i)
		}
	}
}

func TestPipeline_PlatePreDelayGatesTheTail(t *testing.T) {
	t.Log("=== PLATE PRE-DELAY ===")
	t.Log("With a 100ms pre-delay the wet output must stay exactly silent for")
	t.Log("the first 4800 samples and ring within the tank's first echo span")

	resolver := &stubResolver{bp: neutralParams()}
	resolver.bp.BypassReverb = false
	resolver.bp.Reverb.PreDelay = 0.1

	preSamples := int(0.1 * pipeTestSampleRate)
	n := preSamples + 8192
	p := NewPipeline(pipeTestSampleRate, resolver)
	outL, _ := render(p, impulse(n), make([]float32, n))

	for i := 0; i < preSamples; i++ {
		if outL[i] != 0 {
			t.Fatalf("wet output before the pre-delay elapsed, sample %d = %v", i, outL[i])
		}
	}
	ringing := false
	for i := preSamples; i < n; i++ {
		if outL[i] != 0 {
			ringing = true
			break
		}
	}
	if !ringing {
		t.Error("no reverb tail after the pre-delay")
	}
}

func TestPipeline_ReverbStaysWarmWhileBypassed(t *testing.T) {
	t.Log("=== WARM TANK ===")
	t.Log("The reverb is fed while bypassed, so un-bypassing mid-tail is")
	t.Log("audible immediately instead of starting from a cold tank")

	resolver := &stubResolver{bp: neutralParams()}
	p := NewPipeline(pipeTestSampleRate, resolver)

	// Excite the tank with the reverb bypassed
	n := 8192
	render(p, impulse(n), make([]float32, n))

	// Un-bypass and run silence: the tail must already be ringing
	resolver.bp.BypassReverb = false
	outL, outR := render(p, make([]float32, 4096), make([]float32, 4096))

	ringing := false
	for i := range outL {
		if outL[i] != 0 || outR[i] != 0 {
			ringing = true
			break
		}
	}
	if !ringing {
		t.Error("tank was cold after un-bypassing")
	}
}

func TestPipeline_ClearReverbFlushesTheTail(t *testing.T) {
	t.Log("=== TAIL FLUSH ===")
	t.Log("ClearReverb empties the tank before the next block renders")

	resolver := &stubResolver{bp: neutralParams()}
	p := NewPipeline(pipeTestSampleRate, resolver)

	n := 8192
	render(p, impulse(n), make([]float32, n))

	p.ClearReverb()
	resolver.bp.BypassReverb = false
	outL, outR := render(p, make([]float32, 1500), make([]float32, 1500))

	// The dry chain's filters may still ring and re-feed the tank, but a
	// flushed tank cannot produce output before the shortest comb's read
	// tap (1601 samples) sees those new writes.
	for i := range outL {
		if outL[i] != 0 || outR[i] != 0 {
			t.Fatalf("tail survived the flush, sample %d: L=%v R=%v", i, outL[i], outR[i])
		}
	}
}

func TestPipeline_DelayMakeupGain(t *testing.T) {
	t.Log("=== DELAY MAKEUP GAIN ===")
	t.Log("With the mix fully dry the makeup gain scales the dry path exactly")

	mkParams := func(makeup float32) BlockParams {
		bp := neutralParams()
		bp.BypassDelay = false
		bp.DelayDryWet = 0.0
		bp.DelayFeedback = 0.0
		bp.DelayMakeupGain = makeup
		return bp
	}

	n := 256
	inL := impulse(n)
	inR := make([]float32, n)

	unity := NewPipeline(pipeTestSampleRate, &stubResolver{bp: mkParams(1.0)})
	refL, _ := render(unity, inL, inR)

	doubled := NewPipeline(pipeTestSampleRate, &stubResolver{bp: mkParams(2.0)})
	gotL, _ := render(doubled, inL, inR)

	for i := 0; i < n; i++ {
		if gotL[i] != 2.0*refL[i] {
			t.Fatalf("sample %d: want %v, got %v", i, 2.0*refL[i], gotL[i])
		}
	}
}

func TestPipeline_TremoloLevelExport(t *testing.T) {
	resolver := &stubResolver{bp: neutralParams()}
	resolver.bp.BypassTremolo = false
	resolver.bp.TremoloFreq = 1.0
	resolver.bp.TremoloDepth = 0.5

	p := NewPipeline(pipeTestSampleRate, resolver)
	if p.TremoloLevel() != 0 {
		t.Fatal("tremolo level should start at zero")
	}

	n := 256
	render(p, make([]float32, n), make([]float32, n))

	// dcOffset is 0.5 and the LFO has barely moved: level sits near 0.5
	lvl := p.TremoloLevel()
	if lvl < 0.1 || lvl > 1.0 {
		t.Errorf("tremolo level after a quiet block: got %v, want near 0.5", lvl)
	}
}

func TestPipeline_HallIsLouderThanItsRawTank(t *testing.T) {
	t.Log("=== HALL DISPATCH SCALE ===")
	t.Log("The hall engine's dispatch applies its loudness compensation, so a")
	t.Log("hall tail carries energy comparable to the plate's")

	bp := neutralParams()
	bp.BypassReverb = false
	bp.ReverbType = REVERB_HALL

	p := NewPipeline(pipeTestSampleRate, &stubResolver{bp: bp})
	n := 16384
	outL, _ := render(p, impulse(n), make([]float32, n))

	var energy float64
	for _, v := range outL {
		energy += float64(v) * float64(v)
	}
	if energy == 0 {
		t.Error("hall engine produced no tail")
	}
}

func BenchmarkPipelineProcessBlock(b *testing.B) {
	resolver := &stubResolver{bp: neutralParams()}
	resolver.bp.BypassReverb = false
	resolver.bp.BypassTremolo = false
	resolver.bp.BypassDelay = false

	p := NewPipeline(pipeTestSampleRate, resolver)
	const block = 8
	inL := make([]float32, block)
	inR := make([]float32, block)
	outL := make([]float32, block)
	outR := make([]float32, block)
	inL[0] = 1.0

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessBlock(inL, inR, outL, outR, block)
	}
}
