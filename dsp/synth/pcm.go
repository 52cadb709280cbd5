package synth

import "math"

// PCM16Scale maps a normalized sample in [-1, 1] onto the 16-bit range.
const PCM16Scale = 32767

// ToPCM16 scales src by 32767, truncates toward zero and writes the result
// into dst, clipped to [-32768, 32767]. dst may alias src.
func ToPCM16(dst, src []float64) {
	for i, x := range src {
		y := math.Trunc(x * PCM16Scale)
		switch {
		case math.IsNaN(y):
			y = 0
		case y > math.MaxInt16:
			y = math.MaxInt16
		case y < math.MinInt16:
			y = math.MinInt16
		}
		dst[i] = y
	}
}

// FromPCM16 scales integer-valued samples back into [-1, 1].
func FromPCM16(dst, src []float64) {
	for i, x := range src {
		dst[i] = x / PCM16Scale
	}
}
