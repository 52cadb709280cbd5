package effectchain

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-blockfx/dsp/effects"
	"github.com/cwbudde/algo-blockfx/dsp/synth"
)

// ErrNoIRProvider is returned when a reverb node is configured without an
// impulse response source.
var ErrNoIRProvider = errors.New("effectchain: no impulse response provider")

// ErrIRSampleRate is returned when an impulse response was recorded at a
// different sample rate than the chain runs at.
var ErrIRSampleRate = errors.New("effectchain: impulse response sample rate mismatch")

// delayRuntime handles the "delay" node type. The line is rebuilt only when
// the delay time or sample rate changes.
type delayRuntime struct {
	fx         *effects.Delay
	seconds    float64
	sampleRate float64
}

func (r *delayRuntime) Configure(ctx Context, p Params) error {
	seconds := p.GetNum("time", 0.1)

	if r.fx == nil || r.seconds != seconds || r.sampleRate != ctx.SampleRate {
		fx, err := effects.NewDelay(seconds, ctx.SampleRate)
		if err != nil {
			return fmt.Errorf("effectchain: create delay: %w", err)
		}

		r.fx = fx
		r.seconds = seconds
		r.sampleRate = ctx.SampleRate
	}

	r.fx.SetFeedback(p.GetNum("feedback", 0.4))
	r.fx.SetMix(p.GetNum("mix", 0.5))

	return nil
}

func (r *delayRuntime) Process(dst, src []float64) error {
	return r.fx.ProcessTo(dst, src)
}

func (r *delayRuntime) Reset() { r.fx.Reset() }

// distortionRuntime handles the "distortion" node type. It holds no signal
// state, so every parameter is applied in place.
type distortionRuntime struct {
	fx effects.Distortion
}

func (r *distortionRuntime) Configure(_ Context, p Params) error {
	mode, _ := effects.ParseDistortionMode(p.GetStr("mode", "soft"))

	r.fx.Mode = mode
	r.fx.SetAmount(p.GetNum("amount", 5))
	r.fx.SetMix(p.GetNum("mix", 1))

	return nil
}

func (r *distortionRuntime) Process(dst, src []float64) error {
	return r.fx.ProcessTo(dst, src)
}

// reverbRuntime handles the "reverb" node type. The convolver is rebuilt
// only when the impulse response name, block size or sample rate changes.
type reverbRuntime struct {
	fx         *effects.Reverb
	irName     string
	blockSize  int
	sampleRate float64
	irProvider IRProvider
}

func (r *reverbRuntime) Configure(ctx Context, p Params) error {
	irName := p.GetStr("ir", "")

	if r.fx == nil || r.irName != irName || r.blockSize != ctx.BlockSize || r.sampleRate != ctx.SampleRate {
		if r.irProvider == nil {
			return ErrNoIRProvider
		}

		samples, rate, err := r.irProvider.GetIR(irName)
		if err != nil {
			return fmt.Errorf("effectchain: load impulse response %q: %w", irName, err)
		}

		if rate != ctx.SampleRate {
			return fmt.Errorf("%w: %q is %g Hz, chain runs at %g Hz", ErrIRSampleRate, irName, rate, ctx.SampleRate)
		}

		fx, err := effects.NewReverb(downmix(samples), ctx.BlockSize)
		if err != nil {
			return fmt.Errorf("effectchain: create reverb: %w", err)
		}

		r.fx = fx
		r.irName = irName
		r.blockSize = ctx.BlockSize
		r.sampleRate = ctx.SampleRate
	}

	mix := p.GetNum("mix", 1)
	if _, ok := p.Num["dry"]; ok {
		r.fx.SetWetDry(mix, p.GetNum("dry", 0))
	} else {
		r.fx.SetMix(mix)
	}

	return nil
}

func (r *reverbRuntime) Process(dst, src []float64) error {
	return r.fx.ProcessTo(dst, src)
}

func (r *reverbRuntime) Reset() { r.fx.Reset() }

// vibratoRuntime handles the "vibrato" node type. The line is rebuilt only
// when the sweep width or sample rate changes. Vibrato works on the PCM16
// scale, so blocks are scaled up on the way in and back down on the way out.
type vibratoRuntime struct {
	fx         *effects.Vibrato
	width      float64
	sampleRate float64
	scaled     []float64
}

func (r *vibratoRuntime) Configure(ctx Context, p Params) error {
	width := p.GetNum("width", 0.015)

	if r.fx == nil || r.width != width || r.sampleRate != ctx.SampleRate {
		fx, err := effects.NewVibrato(width, ctx.SampleRate)
		if err != nil {
			return fmt.Errorf("effectchain: create vibrato: %w", err)
		}

		r.fx = fx
		r.width = width
		r.sampleRate = ctx.SampleRate
	}

	r.fx.SetRate(p.GetNum("rate", 2))

	return nil
}

func (r *vibratoRuntime) Process(dst, src []float64) error {
	if cap(r.scaled) < len(src) {
		r.scaled = make([]float64, len(src))
	}
	scaled := r.scaled[:len(src)]

	f64.Scale(scaled, src, synth.PCM16Scale)
	if err := r.fx.ProcessTo(dst, scaled); err != nil {
		return err
	}

	synth.FromPCM16(dst, dst)

	return nil
}

func (r *vibratoRuntime) Reset() { r.fx.Reset() }

// downmix averages all channels into one. Shorter channels contribute zeros
// past their end.
func downmix(channels [][]float64) []float64 {
	switch len(channels) {
	case 0:
		return nil
	case 1:
		return channels[0]
	}

	n := 0
	for _, ch := range channels {
		n = max(n, len(ch))
	}

	out := make([]float64, n)
	for _, ch := range channels {
		for i, v := range ch {
			out[i] += v
		}
	}

	scale := 1 / float64(len(channels))
	for i := range out {
		out[i] *= scale
	}

	return out
}
