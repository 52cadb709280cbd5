package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-blockfx/dsp/core"
	"github.com/cwbudde/algo-blockfx/dsp/ring"
)

const (
	defaultDelayFeedback = 0.4
	defaultDelayMix      = 0.5
)

// Delay is a feedback delay line with dry/wet mix.
//
// The line holds exactly floor(delaySeconds*sampleRate) samples and a single
// cursor: for each input sample the slot under the cursor is read (the
// delayed sample), overwritten with dry + delayed*feedback, and the cursor
// advances by one.
type Delay struct {
	sampleRate   float64
	delaySeconds float64
	feedback     float64
	mix          float64

	line *ring.Buffer
}

// NewDelay allocates a zeroed delay line of floor(delaySeconds*sampleRate)
// samples. A delay that rounds down to zero samples is rejected.
func NewDelay(delaySeconds, sampleRate float64) (*Delay, error) {
	if !validSampleRate(sampleRate) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	if isNaNOrInf(delaySeconds) {
		return nil, fmt.Errorf("%w: %f s", ErrInvalidDelay, delaySeconds)
	}

	samples := DelaySamples(delaySeconds, sampleRate)
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %f s at %g Hz is %d samples", ErrInvalidDelay, delaySeconds, sampleRate, samples)
	}

	line, err := ring.New(samples)
	if err != nil {
		return nil, fmt.Errorf("effects: delay line: %w", err)
	}

	return &Delay{
		sampleRate:   sampleRate,
		delaySeconds: delaySeconds,
		feedback:     defaultDelayFeedback,
		mix:          defaultDelayMix,
		line:         line,
	}, nil
}

// DelaySamples returns floor(delaySeconds*sampleRate).
func DelaySamples(delaySeconds, sampleRate float64) int {
	return int(math.Floor(delaySeconds * sampleRate))
}

// SetFeedback sets the feedback amount, clamped to [0, 1].
func (d *Delay) SetFeedback(feedback float64) {
	d.feedback = core.ClampParam(feedback, 0, 1, defaultDelayFeedback)
}

// SetMix sets the wet amount, clamped to [0, 1].
func (d *Delay) SetMix(mix float64) {
	d.mix = core.ClampParam(mix, 0, 1, defaultDelayMix)
}

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(input float64) float64 {
	delayed := d.line.Current()
	out := (1-d.mix)*input + d.mix*delayed
	d.line.Write(input + delayed*d.feedback)
	return out
}

// ProcessTo writes the delayed signal for src into dst.
func (d *Delay) ProcessTo(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), len(src))
	}
	for i, x := range src {
		dst[i] = d.ProcessSample(x)
	}
	return nil
}

// Apply processes one block and returns a new output block of the same length.
func (d *Delay) Apply(in []float64) core.Block {
	out := core.NewBlock(len(in))
	_ = d.ProcessTo(out, in)
	return out
}

// Reset zeroes the line and returns the cursor to 0.
func (d *Delay) Reset() {
	d.line.Reset()
}

// SampleRate returns sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.sampleRate }

// Time returns the requested delay time in seconds.
func (d *Delay) Time() float64 { return d.delaySeconds }

// Samples returns the line length in samples.
func (d *Delay) Samples() int { return d.line.Len() }

// Index returns the line cursor.
func (d *Delay) Index() int { return d.line.WritePos() }

// Feedback returns the feedback amount in [0, 1].
func (d *Delay) Feedback() float64 { return d.feedback }

// Mix returns the wet amount in [0, 1].
func (d *Delay) Mix() float64 { return d.mix }

func isNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
