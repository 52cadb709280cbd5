package effects

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-blockfx/dsp/core"
)

const (
	defaultDistortionAmount = 5.0
	defaultDistortionMix    = 1.0

	// maxDistortionAmount bounds infinite drive so tanh and sin stay finite.
	maxDistortionAmount = 1e6

	minHardThreshold = 0.01
	maxHardThreshold = 1.0

	minBitcrushBits = 1.0
	maxBitcrushBits = 16.0

	distortionShapeGain = 0.8

	// DistortionCeiling is the symmetric output bound of Distort.
	DistortionCeiling = 0.99
)

// DistortionMode selects the transfer function used by Distort.
type DistortionMode int

const (
	// DistortionBypass passes the dry signal to the wet path unchanged.
	DistortionBypass DistortionMode = iota
	// DistortionSoft is tanh(amount*x).
	DistortionSoft
	// DistortionHard clips at a threshold in [0.01, 1] and rescales to unit peak.
	DistortionHard
	// DistortionSine is 0.8*sin(pi*amount*x).
	DistortionSine
	// DistortionBitcrush quantizes to 2^bits levels and scales by 0.8.
	DistortionBitcrush
)

var distortionModeNames = map[DistortionMode]string{
	DistortionBypass:   "bypass",
	DistortionSoft:     "soft",
	DistortionHard:     "hard",
	DistortionSine:     "sine",
	DistortionBitcrush: "bitcrush",
}

// String returns the mode name used by presets.
func (m DistortionMode) String() string {
	if name, ok := distortionModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DistortionMode(%d)", int(m))
}

// ParseDistortionMode maps a mode name to its DistortionMode. Unknown names
// map to DistortionBypass and report ok=false; they never fail.
func ParseDistortionMode(name string) (DistortionMode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for mode, n := range distortionModeNames {
		if n == name {
			return mode, true
		}
	}
	return DistortionBypass, false
}

// Distortion holds mode, amount and mix for repeated block calls. It keeps no
// signal state; the zero value is a bypass with mix 0.
type Distortion struct {
	Mode   DistortionMode
	Amount float64
	Mix    float64
}

// NewDistortion returns a Distortion with clamped knobs.
func NewDistortion(mode DistortionMode, amount, mix float64) *Distortion {
	d := &Distortion{Mode: mode}
	d.SetAmount(amount)
	d.SetMix(mix)
	return d
}

// SetAmount sets the drive amount. NaN falls back to the default and
// infinities saturate.
func (d *Distortion) SetAmount(amount float64) {
	d.Amount = sanitizeAmount(amount)
}

// SetMix sets the wet amount, clamped to [0, 1].
func (d *Distortion) SetMix(mix float64) {
	d.Mix = core.ClampParam(mix, 0, 1, defaultDistortionMix)
}

// Apply returns a new distorted block.
func (d *Distortion) Apply(in []float64) core.Block {
	return Distort(in, d.Mode, d.Amount, d.Mix)
}

// ProcessTo writes the distorted block into dst.
func (d *Distortion) ProcessTo(dst, src []float64) error {
	return DistortTo(dst, src, d.Mode, d.Amount, d.Mix)
}

// Distort applies mode to in and returns a new block. The result is
// clip((1-mix)*x + mix*wet, -0.99, 0.99) for every sample.
func Distort(in []float64, mode DistortionMode, amount, mix float64) core.Block {
	out := core.NewBlock(len(in))
	_ = DistortTo(out, in, mode, amount, mix)
	return out
}

// DistortTo is the allocation-free form of Distort. dst may alias src.
func DistortTo(dst, src []float64, mode DistortionMode, amount, mix float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), len(src))
	}

	amount = sanitizeAmount(amount)
	mix = core.ClampParam(mix, 0, 1, defaultDistortionMix)
	shape := shaperFor(mode, amount)

	for i, x := range src {
		y := (1-mix)*x + mix*shape(x)
		dst[i] = clipOutput(y)
	}
	return nil
}

func shaperFor(mode DistortionMode, amount float64) func(float64) float64 {
	switch mode {
	case DistortionSoft:
		return func(x float64) float64 {
			return math.Tanh(amount * x)
		}
	case DistortionHard:
		threshold := core.Clamp(amount, minHardThreshold, maxHardThreshold)
		return func(x float64) float64 {
			return core.Clamp(x, -threshold, threshold) / threshold
		}
	case DistortionSine:
		return func(x float64) float64 {
			return distortionShapeGain * math.Sin(math.Pi*amount*x)
		}
	case DistortionBitcrush:
		levels := math.Exp2(core.Clamp(amount, minBitcrushBits, maxBitcrushBits))
		return func(x float64) float64 {
			return distortionShapeGain * math.RoundToEven(x*levels) / levels
		}
	default:
		return func(x float64) float64 { return x }
	}
}

func sanitizeAmount(amount float64) float64 {
	switch {
	case math.IsNaN(amount):
		return defaultDistortionAmount
	case amount > maxDistortionAmount:
		return maxDistortionAmount
	case amount < -maxDistortionAmount:
		return -maxDistortionAmount
	default:
		return amount
	}
}

func clipOutput(y float64) float64 {
	if math.IsNaN(y) {
		return 0
	}
	return core.Clamp(y, -DistortionCeiling, DistortionCeiling)
}
