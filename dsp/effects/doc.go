// Package effects provides stateful block effects for streaming audio.
//
// Effects in this package:
//   - Delay: single-cursor feedback delay with dry/wet mix.
//   - Distortion: stateless waveshaper with soft, hard, sine and bitcrush modes.
//   - Reverb: convolution reverb built on an overlap-save SpectralConvolver.
//   - Vibrato: fractional-delay pitch modulation with PCM16-scaled output.
//
// Every stateful effect owns its buffers exclusively. Apply returns a fresh
// block and never aliases its input; ProcessTo writes into a caller buffer
// without allocating. Calls against one effect instance must be serialized
// in signal order.
//
// Knob setters (feedback, mix, amount, rate) clamp out-of-range values and
// never fail. Constructors reject sizing parameters that cannot produce a
// valid buffer.
package effects
