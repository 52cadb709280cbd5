package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-blockfx/dsp/core"
	"github.com/cwbudde/algo-blockfx/dsp/ring"
)

// DefaultDecay is the decay factor K used when none is given.
const DefaultDecay = 0.99

// ErrInvalidLength is returned for a string length below one sample.
var ErrInvalidLength = errors.New("synth: string length must be > 0")

// Option configures Pluck and NewVoice.
type Option func(*config)

type config struct {
	rng         *rand.Rand
	decay       float64
	sweep       float64
	vibratoRate float64
}

func defaultConfig() config {
	return config{
		decay:       DefaultDecay,
		sweep:       DefaultSweep,
		vibratoRate: DefaultVibratoRate,
	}
}

// WithRand sets the noise source used for excitation. Without it a source
// seeded from the global generator is used.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithDecay sets the initial decay factor K.
func WithDecay(k float64) Option {
	return func(c *config) {
		c.decay = clampDecay(k)
	}
}

// KarplusStrong is a noise-excited string resonator.
type KarplusStrong struct {
	line  *ring.Buffer
	decay float64
}

// Pluck seeds a new string of length samples with uniform noise in [-1, 1].
func Pluck(length int, opts ...Option) (*KarplusStrong, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	rng := cfg.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	noise := make([]float64, length)
	for i := range noise {
		noise[i] = rng.Float64()*2 - 1
	}
	return NewKarplusStrong(noise, cfg.decay)
}

// NewKarplusStrong builds a string from an explicit excitation. The slice
// is copied; excitation[0] is the first sample Generate emits.
func NewKarplusStrong(excitation []float64, decay float64) (*KarplusStrong, error) {
	if len(excitation) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, 0)
	}

	line, err := ring.FromSamples(append([]float64(nil), excitation...))
	if err != nil {
		return nil, err
	}
	return &KarplusStrong{line: line, decay: clampDecay(decay)}, nil
}

// SetDecay sets K, clamped to (0, 1]. Changing K never reseeds the string.
func (ks *KarplusStrong) SetDecay(k float64) {
	ks.decay = clampDecay(k)
}

// Decay returns K.
func (ks *KarplusStrong) Decay() float64 { return ks.decay }

// Len returns the string length N in samples.
func (ks *KarplusStrong) Len() int { return ks.line.Len() }

// Next returns one output sample and advances the string.
func (ks *KarplusStrong) Next() float64 {
	first := ks.line.Current()
	second := 0.0
	if ks.line.Len() > 1 {
		second = ks.line.Peek(1)
	}
	ks.line.Write(ks.decay * 0.5 * (first + second))
	return first
}

// GenerateTo fills dst with the next len(dst) samples.
func (ks *KarplusStrong) GenerateTo(dst []float64) {
	for i := range dst {
		dst[i] = ks.Next()
	}
}

// Generate returns the next n samples as a new block.
func (ks *KarplusStrong) Generate(n int) core.Block {
	out := core.NewBlock(n)
	ks.GenerateTo(out)
	return out
}

// Excitation returns the current ring contents, oldest first.
func (ks *KarplusStrong) Excitation() []float64 {
	n := ks.line.Len()
	out := make([]float64, n)
	for i := range out {
		out[i] = ks.line.Peek(i)
	}
	return out
}

func clampDecay(k float64) float64 {
	if math.IsNaN(k) || k <= 0 {
		return DefaultDecay
	}
	if k > 1 {
		return 1
	}
	return k
}
