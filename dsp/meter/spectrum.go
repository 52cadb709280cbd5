package meter

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrInvalidSize is returned for analyzer sizes that are not a power of two.
	ErrInvalidSize = errors.New("meter: FFT size must be a power of two >= 2")
	// ErrBlockTooLong is returned when a block exceeds the analyzer size.
	ErrBlockTooLong = errors.New("meter: block longer than FFT size")
)

// Analyzer computes Hann-windowed one-sided magnitude spectra of a fixed FFT
// size. Shorter blocks are windowed over their own length and zero-padded.
// An Analyzer reuses its buffers and is not safe for concurrent use.
type Analyzer struct {
	size int
	plan *algofft.Plan[complex128]

	window   []float64
	windowed []float64
	frame    []complex128
	bins     []complex128
	re       []float64
	im       []float64
}

// NewAnalyzer returns an analyzer for size-point transforms.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("meter: failed to create FFT plan: %w", err)
	}

	half := size/2 + 1
	return &Analyzer{
		size:     size,
		plan:     plan,
		windowed: make([]float64, size),
		frame:    make([]complex128, size),
		bins:     make([]complex128, size),
		re:       make([]float64, half),
		im:       make([]float64, half),
	}, nil
}

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of one-sided bins, Size()/2+1.
func (a *Analyzer) Bins() int { return a.size/2 + 1 }

// Magnitude writes |X[k]| for k in [0, Size()/2] into dst and returns it.
// dst is grown when it is too short.
func (a *Analyzer) Magnitude(dst, block []float64) ([]float64, error) {
	if err := a.transform(block); err != nil {
		return nil, err
	}

	dst = grow(dst, a.Bins())
	vecmath.Magnitude(dst, a.re, a.im)
	return dst, nil
}

// Power writes |X[k]|^2 for the one-sided bins into dst and returns it.
func (a *Analyzer) Power(dst, block []float64) ([]float64, error) {
	if err := a.transform(block); err != nil {
		return nil, err
	}

	dst = grow(dst, a.Bins())
	vecmath.Power(dst, a.re, a.im)
	return dst, nil
}

func (a *Analyzer) transform(block []float64) error {
	if len(block) > a.size {
		return fmt.Errorf("%w: %d > %d", ErrBlockTooLong, len(block), a.size)
	}

	n := len(block)
	if len(a.window) != n {
		a.window = hann(n)
	}

	clear(a.windowed)
	vecmath.MulBlock(a.windowed[:n], block, a.window)
	for i, v := range a.windowed {
		a.frame[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.bins, a.frame); err != nil {
		return fmt.Errorf("meter: forward FFT failed: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.bins[k])
		a.im[k] = imag(a.bins[k])
	}
	return nil
}

// Spectrum returns the one-sided magnitude spectrum of block using the
// smallest power-of-two FFT that holds it.
func Spectrum(block []float64) ([]float64, error) {
	size := 2
	for size < len(block) {
		size <<= 1
	}

	a, err := NewAnalyzer(size)
	if err != nil {
		return nil, err
	}
	return a.Magnitude(nil, block)
}

// BinFrequency returns the frequency in Hz of bin k of a one-sided spectrum
// with bins entries.
func BinFrequency(k int, sampleRate float64, bins int) float64 {
	if bins < 2 {
		return 0
	}
	return float64(k) * sampleRate / float64(2*(bins-1))
}

// PeakFrequency returns the frequency of the strongest non-DC bin of a
// one-sided magnitude spectrum, refined by parabolic interpolation.
func PeakFrequency(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	best := 1
	for k := 2; k < n; k++ {
		if magnitude[k] > magnitude[best] {
			best = k
		}
	}

	offset := 0.0
	if best > 0 && best < n-1 {
		l, c, r := magnitude[best-1], magnitude[best], magnitude[best+1]
		if den := l - 2*c + r; den != 0 {
			offset = 0.5 * (l - r) / den
		}
	}
	return (float64(best) + offset) * sampleRate / float64(2*(n-1))
}

// Centroid returns the magnitude-weighted mean frequency in Hz.
func Centroid(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	var num, den float64
	for k, m := range magnitude {
		num += BinFrequency(k, sampleRate, n) * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// hann returns a periodic Hann window of n points.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func grow(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
