package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-blockfx/dsp/core"
	"github.com/cwbudde/algo-blockfx/dsp/ring"
)

const (
	defaultVibratoRate  = 2.0
	defaultVibratoSweep = 0.015

	pcm16Min = -32768
	pcm16Max = 32767
)

// Vibrato sweeps a fractional read cursor around a write cursor in a short
// delay line.
//
// The line holds floor(W*rate)+2 samples. The write cursor starts at the
// middle of the line and the read cursor at 0; with a zero modulation rate
// the effect is a pure delay of Len()/2 samples. For each sample n of a block
// the read cursor is set to base + W*rate*sin(2*pi*f0*n/rate), where base is
// an integer counter that advances by one per sample and persists across
// blocks. The sine phase restarts at n=0 on every block.
//
// Output is scaled for 16-bit PCM: every sample is clipped to
// [-32768, 32767] and truncated toward zero.
type Vibrato struct {
	sampleRate float64
	sweep      float64
	rate       float64

	line *ring.Buffer
	base int
}

// NewVibrato allocates a zeroed line for a maximum sweep of sweepSeconds.
func NewVibrato(sweepSeconds, sampleRate float64) (*Vibrato, error) {
	if !validSampleRate(sampleRate) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	if sweepSeconds < 0 || isNaNOrInf(sweepSeconds) {
		return nil, fmt.Errorf("%w: %f s", ErrInvalidSweep, sweepSeconds)
	}

	line, err := ring.New(VibratoBufferLen(sweepSeconds, sampleRate))
	if err != nil {
		return nil, fmt.Errorf("effects: vibrato line: %w", err)
	}

	v := &Vibrato{
		sampleRate: sampleRate,
		sweep:      sweepSeconds,
		rate:       defaultVibratoRate,
		line:       line,
	}
	v.Reset()
	return v, nil
}

// VibratoBufferLen returns floor(sweepSeconds*sampleRate)+2.
func VibratoBufferLen(sweepSeconds, sampleRate float64) int {
	return int(math.Floor(sweepSeconds*sampleRate)) + 2
}

// SetRate sets the modulation frequency f0 in Hz, clamped to [0, rate/2].
func (v *Vibrato) SetRate(hz float64) {
	v.rate = core.ClampParam(hz, 0, v.sampleRate/2, defaultVibratoRate)
}

// ProcessTo writes the modulated, PCM16-scaled block into dst.
func (v *Vibrato) ProcessTo(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), len(src))
	}

	size := v.line.Len()
	depth := v.sweep * v.sampleRate
	omega := 2 * math.Pi * v.rate / v.sampleRate

	for n, x := range src {
		y := v.line.ReadLinear()
		v.line.Write(x)

		v.base++
		if v.base >= size {
			v.base -= size
		}

		read := float64(v.base) + depth*math.Sin(omega*float64(n))
		if read >= float64(size) {
			read -= float64(size)
		}
		v.line.SetReadPos(read)

		dst[n] = toPCM16(y)
	}
	return nil
}

// Apply processes one block and returns a new output block.
func (v *Vibrato) Apply(in []float64) core.Block {
	out := core.NewBlock(len(in))
	_ = v.ProcessTo(out, in)
	return out
}

// Reset zeroes the line, puts the read cursor at 0 and the write cursor at
// the middle of the line.
func (v *Vibrato) Reset() {
	v.line.Reset()
	v.line.SetWritePos(v.line.Len() / 2)
	v.base = 0
}

// SampleRate returns sample rate in Hz.
func (v *Vibrato) SampleRate() float64 { return v.sampleRate }

// Rate returns the modulation frequency in Hz.
func (v *Vibrato) Rate() float64 { return v.rate }

// Sweep returns the maximum sweep width in seconds.
func (v *Vibrato) Sweep() float64 { return v.sweep }

// Depth returns the sweep width in samples.
func (v *Vibrato) Depth() float64 { return v.sweep * v.sampleRate }

// BufferLen returns the delay line length.
func (v *Vibrato) BufferLen() int { return v.line.Len() }

// ReadIndex returns the fractional read cursor.
func (v *Vibrato) ReadIndex() float64 { return v.line.ReadPos() }

// WriteIndex returns the write cursor.
func (v *Vibrato) WriteIndex() int { return v.line.WritePos() }

// BaseIndex returns the integer counter the read cursor is modulated around.
func (v *Vibrato) BaseIndex() int { return v.base }

func toPCM16(y float64) float64 {
	if math.IsNaN(y) {
		return 0
	}
	return math.Trunc(core.Clamp(y, pcm16Min, pcm16Max))
}
