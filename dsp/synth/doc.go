// Package synth provides a Karplus-Strong plucked-string generator and a
// Voice that feeds it through a vibrato, matching a classic real-time
// plucked-string instrument.
//
// A KarplusStrong owns a ring of N samples seeded with uniform noise in
// [-1, 1]. Each output sample is the oldest entry of the ring; it is replaced
// by K*0.5*(oldest+next), a leaky two-tap average. The pitch period is N
// samples, so the fundamental is close to sampleRate/N. Re-plucking builds a
// new ring; a ring is never resized in place.
package synth
