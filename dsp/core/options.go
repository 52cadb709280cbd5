package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by ProcessorConfig.Validate.
var ErrInvalidConfig = errors.New("core: invalid processor config")

// Session defaults: 44.1 kHz and a 0.1 s stream duration per block.
const (
	DefaultSampleRate     = 44100.0
	DefaultStreamDuration = 0.1
)

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the streaming session defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  BlockSizeFor(DefaultSampleRate, DefaultStreamDuration),
	}
}

// BlockSizeFor returns floor(sampleRate * seconds), the block size of a
// stream whose blocks last the given duration.
func BlockSizeFor(sampleRate, seconds float64) int {
	return int(math.Floor(sampleRate*seconds + 1e-9))
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithStreamDuration derives the block size from a per-block duration in
// seconds at the configured sample rate. Apply it after WithSampleRate.
func WithStreamDuration(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n := BlockSizeFor(cfg.SampleRate, seconds); n > 0 {
			cfg.BlockSize = n
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate rejects non-positive sample rates and block sizes.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || !IsFinite(c.SampleRate) {
		return fmt.Errorf("%w: sample rate must be > 0: %f", ErrInvalidConfig, c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size must be > 0: %d", ErrInvalidConfig, c.BlockSize)
	}
	return nil
}
