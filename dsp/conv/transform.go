package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation behind a SpectralConvolver.
type Backend int

const (
	// BackendAuto uses algo-fft for power-of-two lengths and gonum otherwise.
	BackendAuto Backend = iota
	// BackendAlgoFFT forces the algo-fft plan. The length must be a power of two.
	BackendAlgoFFT
	// BackendGonum forces gonum's mixed-radix complex FFT, valid for any length.
	BackendGonum
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendAlgoFFT:
		return "algo-fft"
	case BackendGonum:
		return "gonum"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// transform is a complex DFT of fixed length whose inverse is scaled by 1/n,
// so Inverse(Forward(x)) == x.
type transform interface {
	Len() int
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

func newTransform(backend Backend, n int) (transform, Backend, error) {
	if backend == BackendAuto {
		backend = BackendGonum
		if isPowerOf2(n) {
			backend = BackendAlgoFFT
		}
	}

	switch backend {
	case BackendAlgoFFT:
		if !isPowerOf2(n) {
			return nil, backend, fmt.Errorf("%w: algo-fft backend needs a power-of-two length, got %d", ErrInvalidBlockSize, n)
		}
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, backend, fmt.Errorf("conv: failed to create FFT plan: %w", err)
		}
		return &algoTransform{plan: plan, n: n}, backend, nil
	case BackendGonum:
		return &gonumTransform{fft: fourier.NewCmplxFFT(n), scale: complex(1/float64(n), 0)}, backend, nil
	default:
		return nil, backend, fmt.Errorf("conv: unknown backend %d", int(backend))
	}
}

type algoTransform struct {
	plan *algofft.Plan[complex128]
	n    int
}

func (t *algoTransform) Len() int { return t.n }

func (t *algoTransform) Forward(dst, src []complex128) error {
	return t.plan.Forward(dst, src)
}

func (t *algoTransform) Inverse(dst, src []complex128) error {
	return t.plan.Inverse(dst, src)
}

// gonumTransform wraps fourier.CmplxFFT, whose inverse is unnormalized.
type gonumTransform struct {
	fft   *fourier.CmplxFFT
	scale complex128
}

func (t *gonumTransform) Len() int { return t.fft.Len() }

func (t *gonumTransform) Forward(dst, src []complex128) error {
	t.fft.Coefficients(dst, src)
	return nil
}

func (t *gonumTransform) Inverse(dst, src []complex128) error {
	t.fft.Sequence(dst, src)
	for i := range dst {
		dst[i] *= t.scale
	}
	return nil
}

// multiplySpectra computes dst[i] = a[i] * b[i].
func multiplySpectra(dst, a, b []complex128) {
	c128.Mul(dst, a, b)
}
