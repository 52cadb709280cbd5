// Package irload reads and writes PCM WAV files as float64 channels and
// serves impulse responses to convolution reverbs.
//
// A Loader resolves impulse-response names against a base directory, decodes
// each file once, optionally resamples it to the session rate and caches the
// result. It satisfies effectchain.IRProvider.
package irload
