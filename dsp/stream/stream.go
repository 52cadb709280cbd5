package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrInvalidBlockSize is returned by Pump for block sizes below 1.
var ErrInvalidBlockSize = errors.New("stream: block size must be > 0")

// Source produces signal. ReadBlock fills up to len(dst) samples and returns
// the count. At the end of the signal it returns io.EOF, possibly together
// with a final partial count.
type Source interface {
	ReadBlock(dst []float64) (int, error)
}

// Processor transforms one block. dst and src have the same length.
type Processor interface {
	ProcessTo(dst, src []float64) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(dst, src []float64) error

// ProcessTo calls f(dst, src).
func (f ProcessorFunc) ProcessTo(dst, src []float64) error { return f(dst, src) }

// Sink consumes processed blocks. The block is only valid during the call.
type Sink interface {
	WriteBlock(block []float64) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(block []float64) error

// WriteBlock calls f(block).
func (f SinkFunc) WriteBlock(block []float64) error { return f(block) }

// Stats summarizes a finished Pump run.
type Stats struct {
	// Blocks is the number of blocks written to the sink, tail included.
	Blocks int
	// Samples is the number of samples read from the source.
	Samples int
	// TailBlocks is the number of silent blocks appended after the source ended.
	TailBlocks int
}

type config struct {
	log  logrus.FieldLogger
	tail int
}

// Option configures Pump.
type Option func(*config)

// WithLogger sets the logger for run events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTail feeds n blocks of silence after the source ends so that delay
// lines and reverb history can ring out.
func WithTail(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tail = n
		}
	}
}

// Pump reads blocks of blockSize samples from src, runs each through proc
// and writes the result to sink until the source is exhausted. A final
// partial block is zero-padded to blockSize. A nil proc passes blocks
// through unchanged.
//
// Pump stops at the first error from any stage, or when ctx is done, and
// returns the statistics gathered so far.
func Pump(ctx context.Context, blockSize int, src Source, proc Processor, sink Sink, opts ...Option) (Stats, error) {
	cfg := config{log: logrus.StandardLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var stats Stats

	if blockSize <= 0 {
		return stats, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	in := make([]float64, blockSize)
	out := make([]float64, blockSize)
	eof := false

	for !eof || stats.TailBlocks < cfg.tail {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if eof {
			clear(in)
			stats.TailBlocks++
		} else {
			n, err := readFull(src, in)
			stats.Samples += n

			switch {
			case errors.Is(err, io.EOF):
				eof = true
				if n == 0 {
					continue
				}
			case err != nil:
				return stats, fmt.Errorf("stream: read block %d: %w", stats.Blocks, err)
			}

			clear(in[n:])
		}

		block := in
		if proc != nil {
			if err := proc.ProcessTo(out, in); err != nil {
				return stats, fmt.Errorf("stream: process block %d: %w", stats.Blocks, err)
			}
			block = out
		}

		if err := sink.WriteBlock(block); err != nil {
			return stats, fmt.Errorf("stream: write block %d: %w", stats.Blocks, err)
		}

		stats.Blocks++
		cfg.log.WithField("block", stats.Blocks).Debug("block processed")
	}

	cfg.log.WithFields(logrus.Fields{
		"blocks":  stats.Blocks,
		"samples": stats.Samples,
		"tail":    stats.TailBlocks,
	}).Info("stream finished")

	return stats, nil
}

// readFull reads until dst is full or the source ends.
func readFull(src Source, dst []float64) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := src.ReadBlock(dst[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}

	return total, nil
}
