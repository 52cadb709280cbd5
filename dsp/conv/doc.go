// Package conv provides block-streaming FFT convolution.
//
// The central type is [SpectralConvolver], an overlap-save convolver for
// fixed-size blocks. For a kernel of K samples and a block size B it keeps a
// window of L = K - 1 + B samples. Every block slides the window by B,
// multiplies its spectrum with the precomputed kernel spectrum, and keeps the
// last B samples of the inverse transform:
//
//	sc, err := conv.NewSpectralConvolver(kernel, 512)
//	out, err := sc.ProcessBlock(block)
//
// The transform length is exactly L by default. Power-of-two lengths run on
// algo-fft; other lengths run on gonum's mixed-radix FFT. [WithPowerOfTwoLength]
// rounds L up when a faster power-of-two plan is preferred.
//
// [Direct] is a plain O(N*M) linear convolution kept as a reference.
package conv
