package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

const defaultMaxDenominator = 4096

// Quality controls the anti-aliasing filter length and window.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation.
	QualityBest
)

type profile struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func profileFor(q Quality) profile {
	switch q {
	case QualityFast:
		return profile{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5.0}
	case QualityBest:
		return profile{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9.0}
	default:
		return profile{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures a Resampler.
type Option func(*config)

// WithQuality selects a predefined filter quality.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator bounds the denominator used to approximate a rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxDen: defaultMaxDenominator}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Resampler performs rational sample-rate conversion using a polyphase FIR.
type Resampler struct {
	up   int
	down int

	taps     int
	branches [][]float64 // reversed so a branch dots directly with history
	order    int

	phase   int
	pending int // input samples still needed before the next output
	history []float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := newConfig(opts)
	taps, branches, err := designPolyphase(up, down, profileFor(cfg.quality))
	if err != nil {
		return nil, err
	}

	order := len(branches[0])
	r := &Resampler{
		up:       up,
		down:     down,
		taps:     len(taps),
		branches: branches,
		order:    order,
		history:  make([]float64, order),
	}
	return r, nil
}

// NewForRates creates a resampler by approximating outRate/inRate as a ratio.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, fmt.Errorf("%w: %g -> %g", ErrInvalidRate, inRate, outRate)
	}

	cfg := newConfig(opts)
	up, down := approximateRatio(outRate/inRate, cfg.maxDen)
	return NewRational(up, down, opts...)
}

// Reset clears the filter history.
func (r *Resampler) Reset() {
	clear(r.history)
	r.phase = 0
	r.pending = 0
}

// Ratio returns the reduced up/down conversion factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// GroupDelay returns the filter delay in output samples.
func (r *Resampler) GroupDelay() float64 {
	return float64(r.taps-1) / 2 / float64(r.down)
}

// Process converts one input block and keeps the filter state for the next.
func (r *Resampler) Process(input []float64) []float64 {
	out := make([]float64, 0, len(input)*r.up/r.down+1)

	for _, x := range input {
		// Newest sample last so reversed branches line up with history.
		copy(r.history, r.history[1:])
		r.history[r.order-1] = x

		if r.pending > 0 {
			r.pending--
			continue
		}

		for r.pending == 0 {
			out = append(out, f64.DotProduct(r.branches[r.phase], r.history))

			r.phase += r.down
			r.pending = r.phase / r.up
			r.phase %= r.up
		}
		r.pending--
	}

	return out
}

// Convert resamples a finite signal from inRate to outRate. The output has
// ceil(len(input)*outRate/inRate) samples and is aligned with the input.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if inRate == outRate && inRate > 0 {
		return append([]float64(nil), input...), nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return nil, nil
	}

	want := int(math.Ceil(float64(len(input)) * float64(r.up) / float64(r.down)))
	skip := int(math.Round(r.GroupDelay()))

	padded := make([]float64, len(input)+(skip+1)*r.down/r.up+r.order+1)
	copy(padded, input)

	out := r.Process(padded)
	if skip+want > len(out) {
		want = len(out) - skip
	}
	return out[skip : skip+want], nil
}
