package ring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSize is returned when a buffer would hold no samples.
var ErrInvalidSize = errors.New("ring: size must be > 0")

// Buffer is a circular sample buffer with a write cursor and a fractional
// read cursor.
type Buffer struct {
	data  []float64
	write int
	read  float64
}

// New returns a zero-filled buffer of size samples with both cursors at 0.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Buffer{data: make([]float64, size)}, nil
}

// FromSamples returns a buffer that takes ownership of samples.
func FromSamples(samples []float64) (*Buffer, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, len(samples))
	}
	return &Buffer{data: samples}, nil
}

// Len returns the buffer capacity in samples.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Samples exposes the backing storage in physical order.
func (b *Buffer) Samples() []float64 {
	return b.data
}

// WritePos returns the write cursor.
func (b *Buffer) WritePos() int {
	return b.write
}

// SetWritePos moves the write cursor, wrapping pos into range.
func (b *Buffer) SetWritePos(pos int) {
	n := len(b.data)
	pos %= n
	if pos < 0 {
		pos += n
	}
	b.write = pos
}

// Current returns the sample under the write cursor, i.e. the sample written
// Len() writes ago.
func (b *Buffer) Current() float64 {
	return b.data[b.write]
}

// Peek returns the sample offset positions after the write cursor.
func (b *Buffer) Peek(offset int) float64 {
	n := len(b.data)
	i := (b.write + offset) % n
	if i < 0 {
		i += n
	}
	return b.data[i]
}

// Write stores sample under the write cursor and advances it by one.
func (b *Buffer) Write(sample float64) {
	b.data[b.write] = sample
	b.write++
	if b.write == len(b.data) {
		b.write = 0
	}
}

// ReadPos returns the fractional read cursor.
func (b *Buffer) ReadPos() float64 {
	return b.read
}

// SetReadPos moves the read cursor to pos wrapped into [0, Len()).
func (b *Buffer) SetReadPos(pos float64) {
	b.read = b.Wrap(pos)
}

// Wrap maps pos into [0, Len()). Values already in range are returned
// unchanged, so a single overflow or underflow is corrected by exactly one
// buffer length.
func (b *Buffer) Wrap(pos float64) float64 {
	n := float64(len(b.data))
	if pos >= 0 && pos < n {
		return pos
	}
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return 0
	}
	pos = math.Mod(pos, n)
	if pos < 0 {
		pos += n
	}
	if pos >= n {
		pos = 0
	}
	return pos
}

// ReadLinear returns the sample at the read cursor, linearly interpolated
// between its floor and the following slot (wrapping at the end).
func (b *Buffer) ReadLinear() float64 {
	prev := int(math.Floor(b.read))
	frac := b.read - float64(prev)
	next := prev + 1
	if next == len(b.data) {
		next = 0
	}
	return (1-frac)*b.data[prev] + frac*b.data[next]
}

// Reset zeroes the contents and returns both cursors to 0.
func (b *Buffer) Reset() {
	clear(b.data)
	b.write = 0
	b.read = 0
}
