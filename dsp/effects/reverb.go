package effects

import (
	"fmt"

	"github.com/cwbudde/algo-blockfx/dsp/conv"
	"github.com/cwbudde/algo-blockfx/dsp/core"
)

const (
	defaultReverbWet = 1.0
	defaultReverbDry = 0.0
)

// Reverb is a convolution reverb. The impulse response is normalized to unit
// peak once at construction and convolved block by block with overlap-save.
type Reverb struct {
	convolver *conv.SpectralConvolver
	wet       float64
	dry       float64

	scratch []float64
}

// NewReverb normalizes ir by its peak absolute value and prepares a
// convolver for blocks of blockSize samples. An empty, silent or non-finite
// impulse response is a configuration error.
func NewReverb(ir []float64, blockSize int, opts ...conv.SpectralOption) (*Reverb, error) {
	normalized, err := conv.NormalizePeak(ir)
	if err != nil {
		return nil, fmt.Errorf("effects: reverb impulse response: %w", err)
	}

	convolver, err := conv.NewSpectralConvolver(normalized, blockSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("effects: reverb: %w", err)
	}

	return &Reverb{
		convolver: convolver,
		wet:       defaultReverbWet,
		dry:       defaultReverbDry,
		scratch:   make([]float64, blockSize),
	}, nil
}

// NewReverbFromState rebuilds a reverb from a previously captured spectrum
// and history. Mismatched lengths are rejected.
func NewReverbFromState(spectrum []complex128, history []float64, blockSize int, opts ...conv.SpectralOption) (*Reverb, error) {
	convolver, err := conv.NewSpectralConvolverFromState(spectrum, history, blockSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("effects: reverb: %w", err)
	}

	return &Reverb{
		convolver: convolver,
		wet:       defaultReverbWet,
		dry:       defaultReverbDry,
		scratch:   make([]float64, blockSize),
	}, nil
}

// SetMix sets the wet level and the dry level to 1-mix.
func (r *Reverb) SetMix(mix float64) {
	mix = core.ClampParam(mix, 0, 1, defaultReverbWet)
	r.wet = mix
	r.dry = 1 - mix
}

// SetWetDry sets independent wet and dry levels, each clamped to [0, 1].
func (r *Reverb) SetWetDry(wet, dry float64) {
	r.wet = core.ClampParam(wet, 0, 1, defaultReverbWet)
	r.dry = core.ClampParam(dry, 0, 1, defaultReverbDry)
}

// Apply processes one block and returns a new output block.
func (r *Reverb) Apply(in []float64) (core.Block, error) {
	out := core.NewBlock(len(in))
	if err := r.ProcessTo(out, in); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessTo convolves src with the impulse response and writes blockSize
// samples to dst. A block of the wrong length is rejected before any state
// changes.
func (r *Reverb) ProcessTo(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), len(src))
	}
	if r.wet == 1 && r.dry == 0 {
		return r.convolver.ProcessBlockTo(dst, src)
	}

	if err := r.convolver.ProcessBlockTo(r.scratch, src); err != nil {
		return err
	}
	for i, x := range src {
		dst[i] = r.dry*x + r.wet*r.scratch[i]
	}
	return nil
}

// Reset clears the overlap-save history.
func (r *Reverb) Reset() { r.convolver.Reset() }

// BlockSize returns the number of samples per block.
func (r *Reverb) BlockSize() int { return r.convolver.BlockSize() }

// Length returns the convolution length L.
func (r *Reverb) Length() int { return r.convolver.Length() }

// KernelLen returns the impulse response length.
func (r *Reverb) KernelLen() int { return r.convolver.KernelLen() }

// Wet returns the wet level.
func (r *Reverb) Wet() float64 { return r.wet }

// Dry returns the dry level.
func (r *Reverb) Dry() float64 { return r.dry }

// Convolver exposes the underlying convolver for state capture.
func (r *Reverb) Convolver() *conv.SpectralConvolver { return r.convolver }
