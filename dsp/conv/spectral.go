package conv

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// SpectralConvolver is a block-streaming overlap-save convolver.
//
// It holds the kernel spectrum H of length L and a time-domain history window
// of the same length L. Each ProcessBlock call slides the window left by one
// block, appends the new block, and convolves the whole window circularly;
// the first L-blockSize output samples are wrap-around and are dropped, the
// last blockSize samples are the linear convolution output for the block.
//
// H never changes after construction. The window is the only mutable state.
type SpectralConvolver struct {
	spectrum  []complex128
	history   []float64
	blockSize int
	kernelLen int
	backend   Backend

	fft transform

	// Scratch, sized once.
	work []complex128
	freq []complex128
	prod []complex128
}

// SpectralOption configures a SpectralConvolver.
type SpectralOption func(*spectralConfig)

type spectralConfig struct {
	backend    Backend
	powerOfTwo bool
}

// WithBackend selects the FFT backend. The default is BackendAuto.
func WithBackend(b Backend) SpectralOption {
	return func(cfg *spectralConfig) {
		cfg.backend = b
	}
}

// WithPowerOfTwoLength rounds the convolution length up to the next power of
// two. The output is unchanged; only the transform size grows.
func WithPowerOfTwoLength() SpectralOption {
	return func(cfg *spectralConfig) {
		cfg.powerOfTwo = true
	}
}

// ConvolutionLength returns len(kernel) - 1 + blockSize, the shortest window
// for which overlap-save yields blockSize valid samples.
func ConvolutionLength(kernelLen, blockSize int) int {
	return kernelLen - 1 + blockSize
}

// NewSpectralConvolver builds a convolver for kernel at a fixed block size.
// The kernel is used as given; see NormalizePeak for peak normalisation.
func NewSpectralConvolver(kernel []float64, blockSize int, opts ...SpectralOption) (*SpectralConvolver, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: blockSize must be positive, got %d", ErrInvalidBlockSize, blockSize)
	}
	for _, v := range kernel {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFiniteKernel
		}
	}

	cfg := spectralConfig{backend: BackendAuto}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	length := ConvolutionLength(len(kernel), blockSize)
	if cfg.powerOfTwo {
		length = nextPowerOf2(length)
	}

	fft, backend, err := newTransform(cfg.backend, length)
	if err != nil {
		return nil, err
	}

	sc := &SpectralConvolver{
		spectrum:  make([]complex128, length),
		history:   make([]float64, length),
		blockSize: blockSize,
		kernelLen: len(kernel),
		backend:   backend,
		fft:       fft,
		work:      make([]complex128, length),
		freq:      make([]complex128, length),
		prod:      make([]complex128, length),
	}

	// Zero-pad the kernel to L and transform it once.
	for i, v := range kernel {
		sc.work[i] = complex(v, 0)
	}
	if err := fft.Forward(sc.spectrum, sc.work); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}
	clear(sc.work)

	return sc, nil
}

// NewSpectralConvolverFromState rebuilds a convolver from a kernel spectrum
// and a history window produced by an earlier session. Both must have the
// same length, and that length must hold at least one block.
func NewSpectralConvolverFromState(spectrum []complex128, history []float64, blockSize int, opts ...SpectralOption) (*SpectralConvolver, error) {
	if len(spectrum) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(spectrum) != len(history) {
		return nil, fmt.Errorf("%w: spectrum has %d bins, history has %d samples",
			ErrLengthMismatch, len(spectrum), len(history))
	}
	if blockSize <= 0 || blockSize > len(history) {
		return nil, fmt.Errorf("%w: blockSize %d does not fit convolution length %d",
			ErrInvalidBlockSize, blockSize, len(history))
	}

	cfg := spectralConfig{backend: BackendAuto}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	length := len(spectrum)
	fft, backend, err := newTransform(cfg.backend, length)
	if err != nil {
		return nil, err
	}

	sc := &SpectralConvolver{
		spectrum:  make([]complex128, length),
		history:   make([]float64, length),
		blockSize: blockSize,
		kernelLen: length - blockSize + 1,
		backend:   backend,
		fft:       fft,
		work:      make([]complex128, length),
		freq:      make([]complex128, length),
		prod:      make([]complex128, length),
	}
	copy(sc.spectrum, spectrum)
	copy(sc.history, history)

	return sc, nil
}

// ProcessBlock convolves one block and returns a newly allocated output block.
func (sc *SpectralConvolver) ProcessBlock(input []float64) ([]float64, error) {
	output := make([]float64, sc.blockSize)
	if err := sc.ProcessBlockTo(output, input); err != nil {
		return nil, err
	}
	return output, nil
}

// ProcessBlockTo convolves one block into output without allocating.
// Both slices must hold exactly BlockSize samples. On error the history is
// left untouched.
func (sc *SpectralConvolver) ProcessBlockTo(output, input []float64) error {
	if len(input) != sc.blockSize {
		return fmt.Errorf("%w: expected %d input samples, got %d", ErrLengthMismatch, sc.blockSize, len(input))
	}
	if len(output) != sc.blockSize {
		return fmt.Errorf("%w: expected %d output samples, got %d", ErrLengthMismatch, sc.blockSize, len(output))
	}

	length := len(sc.history)
	keep := length - sc.blockSize

	// Slide the window: keep the newest L-blockSize samples, append the block.
	copy(sc.history[:keep], sc.history[sc.blockSize:])
	copy(sc.history[keep:], input)

	for i, v := range sc.history {
		sc.work[i] = complex(v, 0)
	}

	if err := sc.fft.Forward(sc.freq, sc.work); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	multiplySpectra(sc.prod, sc.freq, sc.spectrum)

	if err := sc.fft.Inverse(sc.work, sc.prod); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// The leading samples are circular wrap-around; only the tail is valid.
	for i := range output {
		output[i] = real(sc.work[keep+i])
	}

	return nil
}

// Reset zeroes the history window. The kernel spectrum is kept.
func (sc *SpectralConvolver) Reset() {
	clear(sc.history)
}

// Length returns the convolution length L shared by the spectrum and history.
func (sc *SpectralConvolver) Length() int {
	return len(sc.history)
}

// BlockSize returns the block size.
func (sc *SpectralConvolver) BlockSize() int {
	return sc.blockSize
}

// KernelLen returns the number of kernel samples the window can hold, the
// retained history length plus one.
func (sc *SpectralConvolver) KernelLen() int {
	return sc.kernelLen
}

// Backend returns the FFT backend in use.
func (sc *SpectralConvolver) Backend() Backend {
	return sc.backend
}

// Spectrum returns a copy of the kernel spectrum H.
func (sc *SpectralConvolver) Spectrum() []complex128 {
	out := make([]complex128, len(sc.spectrum))
	copy(out, sc.spectrum)
	return out
}

// History returns a copy of the history window.
func (sc *SpectralConvolver) History() []float64 {
	out := make([]float64, len(sc.history))
	copy(out, sc.history)
	return out
}

// NormalizePeak returns a copy of kernel scaled so its largest absolute
// sample is 1.
func NormalizePeak(kernel []float64) ([]float64, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	peak := 0.0
	for _, v := range kernel {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFiniteKernel
		}
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return nil, ErrSilentKernel
	}

	out := make([]float64, len(kernel))
	f64.Scale(out, kernel, 1/peak)
	return out, nil
}
