package core

import (
	"errors"
	"fmt"
)

// ErrBlockSize is returned when a block does not have the session block size.
var ErrBlockSize = errors.New("core: block size mismatch")

// Block is a fixed-length run of normalized samples processed as one unit.
//
// A stage never hands the caller's Block back as its output: it either writes
// into a destination supplied by the caller or returns a freshly allocated Block.
type Block []float64

// NewBlock returns a zero-filled Block of n samples.
func NewBlock(n int) Block {
	if n < 0 {
		n = 0
	}
	return make(Block, n)
}

// Len returns the number of samples.
func (b Block) Len() int {
	return len(b)
}

// Clone returns a deep copy of b.
func (b Block) Clone() Block {
	out := make(Block, len(b))
	copy(out, b)
	return out
}

// CheckLen reports ErrBlockSize if b does not hold exactly n samples.
func (b Block) CheckLen(n int) error {
	if len(b) != n {
		return fmt.Errorf("%w: expected %d samples, got %d", ErrBlockSize, n, len(b))
	}
	return nil
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// SplitBlocks cuts signal into consecutive blocks of size samples. A short
// tail is zero-padded to a full block.
func SplitBlocks(signal []float64, size int) []Block {
	if size <= 0 || len(signal) == 0 {
		return nil
	}
	count := (len(signal) + size - 1) / size
	blocks := make([]Block, count)
	for i := range blocks {
		blk := NewBlock(size)
		copy(blk, signal[i*size:])
		blocks[i] = blk
	}
	return blocks
}

// JoinBlocks concatenates blocks into one contiguous signal.
func JoinBlocks(blocks []Block) []float64 {
	total := 0
	for _, b := range blocks {
		total += len(b)
	}
	out := make([]float64, 0, total)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
