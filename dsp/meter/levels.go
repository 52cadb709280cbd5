package meter

import (
	"math"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-blockfx/dsp/core"
)

// Levels holds time-domain measurements of one block.
type Levels struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	RMSdB         float64
	Peak          float64 // max |x|
	PeakdB        float64
	PeakPos       int
	CrestFactor   float64 // peak / RMS, 0 for silence
	Energy        float64 // sum of squares
	ZeroCrossings int
}

// Calculate measures block. An empty block yields zero levels with -Inf dB
// fields.
func Calculate(block []float64) Levels {
	n := len(block)
	if n == 0 {
		return Levels{RMSdB: math.Inf(-1), PeakdB: math.Inf(-1)}
	}

	energy := Energy(block)
	rms := math.Sqrt(energy / float64(n))
	peak, peakPos := peakWithPos(block)

	zc := 0
	for i := 1; i < n; i++ {
		if block[i-1]*block[i] < 0 {
			zc++
		}
	}

	crest := 0.0
	if rms > 0 {
		crest = peak / rms
	}

	return Levels{
		Length:        n,
		DC:            DC(block),
		RMS:           rms,
		RMSdB:         core.LinearToDB(rms),
		Peak:          peak,
		PeakdB:        core.LinearToDB(peak),
		PeakPos:       peakPos,
		CrestFactor:   crest,
		Energy:        energy,
		ZeroCrossings: zc,
	}
}

// Energy returns the sum of squares of block.
func Energy(block []float64) float64 {
	if len(block) == 0 {
		return 0
	}
	return f64.DotProduct(block, block)
}

// RMS returns the root-mean-square of block.
func RMS(block []float64) float64 {
	if len(block) == 0 {
		return 0
	}
	return math.Sqrt(Energy(block) / float64(len(block)))
}

// DC returns the mean of block.
func DC(block []float64) float64 {
	if len(block) == 0 {
		return 0
	}
	return f64.Sum(block) / float64(len(block))
}

// Peak returns the largest absolute sample of block.
func Peak(block []float64) float64 {
	peak, _ := peakWithPos(block)
	return peak
}

func peakWithPos(block []float64) (float64, int) {
	peak, pos := 0.0, 0
	for i, x := range block {
		if a := math.Abs(x); a > peak {
			peak, pos = a, i
		}
	}
	return peak, pos
}
