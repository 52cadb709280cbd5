package synth

import (
	"fmt"

	"github.com/cwbudde/algo-blockfx/dsp/core"
	"github.com/cwbudde/algo-blockfx/dsp/effects"
)

const (
	// DefaultSweep is the vibrato sweep width in seconds.
	DefaultSweep = 0.015
	// DefaultVibratoRate is the vibrato LFO frequency in Hz.
	DefaultVibratoRate = 1.0
)

// WithSweep sets the vibrato sweep width in seconds. It takes effect on the
// next pluck.
func WithSweep(seconds float64) Option {
	return func(c *config) {
		c.sweep = seconds
	}
}

// WithVibratoRate sets the vibrato LFO frequency in Hz.
func WithVibratoRate(hz float64) Option {
	return func(c *config) {
		c.vibratoRate = hz
	}
}

// Voice is a plucked string followed by a vibrato. Its output is PCM16
// scaled. Until the first pluck it emits silence.
type Voice struct {
	sampleRate float64
	cfg        config

	str     *KarplusStrong
	vibrato *effects.Vibrato
}

// NewVoice returns a silent voice at sampleRate.
func NewVoice(sampleRate float64, opts ...Option) (*Voice, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	v := &Voice{sampleRate: sampleRate, cfg: cfg}
	if err := v.resetVibrato(); err != nil {
		return nil, err
	}
	return v, nil
}

// Pluck replaces the string with fresh noise of length samples and clears
// the vibrato line.
func (v *Voice) Pluck(length int) error {
	opts := []Option{WithDecay(v.cfg.decay)}
	if v.cfg.rng != nil {
		opts = append(opts, WithRand(v.cfg.rng))
	}

	str, err := Pluck(length, opts...)
	if err != nil {
		return err
	}
	if err := v.resetVibrato(); err != nil {
		return err
	}
	v.str = str
	return nil
}

// PluckFrequency plucks a string tuned to freq Hz.
func (v *Voice) PluckFrequency(freq float64) error {
	length := LengthForFrequency(v.sampleRate, freq)
	if length <= 0 {
		return fmt.Errorf("%w: %g Hz at %g Hz sample rate", ErrInvalidLength, freq, v.sampleRate)
	}
	return v.Pluck(length)
}

// PluckNote plucks a string tuned to a note name.
func (v *Voice) PluckNote(name string) error {
	freq, ok := NoteFrequency(name)
	if !ok {
		return fmt.Errorf("synth: unknown note %q", name)
	}
	return v.PluckFrequency(freq)
}

// SetDecay changes K on the sounding string without re-plucking.
func (v *Voice) SetDecay(k float64) {
	v.cfg.decay = clampDecay(k)
	if v.str != nil {
		v.str.SetDecay(k)
	}
}

// SetVibratoRate changes the LFO frequency without clearing the line.
func (v *Voice) SetVibratoRate(hz float64) {
	v.cfg.vibratoRate = hz
	v.vibrato.SetRate(hz)
}

// SetSweep changes the vibrato sweep width. The line is resized on the next
// pluck.
func (v *Voice) SetSweep(seconds float64) error {
	if seconds < 0 || !core.IsFinite(seconds) {
		return fmt.Errorf("%w: %f s", effects.ErrInvalidSweep, seconds)
	}
	v.cfg.sweep = seconds
	return nil
}

// Process fills dst with the next len(dst) PCM16-scaled samples.
func (v *Voice) Process(dst []float64) error {
	if v.str == nil {
		clear(dst)
	} else {
		v.str.GenerateTo(dst)
		ToPCM16(dst, dst)
	}
	return v.vibrato.ProcessTo(dst, dst)
}

// Apply returns the next n samples as a new block.
func (v *Voice) Apply(n int) (core.Block, error) {
	out := core.NewBlock(n)
	if err := v.Process(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Resonator returns the sounding string, or nil before the first pluck.
func (v *Voice) Resonator() *KarplusStrong { return v.str }

// Vibrato returns the vibrato stage.
func (v *Voice) Vibrato() *effects.Vibrato { return v.vibrato }

// SampleRate returns sample rate in Hz.
func (v *Voice) SampleRate() float64 { return v.sampleRate }

func (v *Voice) resetVibrato() error {
	vib, err := effects.NewVibrato(v.cfg.sweep, v.sampleRate)
	if err != nil {
		return fmt.Errorf("synth: vibrato: %w", err)
	}
	vib.SetRate(v.cfg.vibratoRate)
	v.vibrato = vib
	return nil
}
