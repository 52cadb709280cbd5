package effects

import "errors"

// Configuration errors returned by effect constructors and block processors.
var (
	ErrInvalidSampleRate = errors.New("effects: sample rate must be > 0")
	ErrInvalidDelay      = errors.New("effects: delay must span at least one sample")
	ErrInvalidSweep      = errors.New("effects: sweep width must be >= 0")
	ErrLengthMismatch    = errors.New("effects: block length mismatch")
)

func validSampleRate(sampleRate float64) bool {
	return sampleRate > 0 && !isNaNOrInf(sampleRate)
}
