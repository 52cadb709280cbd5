package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// ImpulseBlocks returns count blocks of blockSize samples, all zero except a
// unit impulse at absolute sample index pos.
func ImpulseBlocks(blockSize, count, pos int) [][]float64 {
	blocks := make([][]float64, count)
	for i := range blocks {
		blocks[i] = make([]float64, blockSize)
	}
	if pos >= 0 && pos < blockSize*count {
		blocks[pos/blockSize][pos%blockSize] = 1
	}
	return blocks
}

// Blocks cuts signal into consecutive blockSize slices sharing its storage.
// A short tail is dropped.
func Blocks(signal []float64, blockSize int) [][]float64 {
	n := len(signal) / blockSize
	out := make([][]float64, n)
	for i := range out {
		out[i] = signal[i*blockSize : (i+1)*blockSize : (i+1)*blockSize]
	}
	return out
}

// Concat joins blocks into one signal.
func Concat(blocks [][]float64) []float64 {
	var out []float64
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
