// Package resample converts impulse responses and other finite signals
// between sample rates with a polyphase Kaiser-windowed FIR.
//
// A Resampler approximates outRate/inRate by a reduced ratio up/down and
// streams blocks through the polyphase branches. Convert is the one-shot
// form used when loading assets: it flushes the filter tail and removes the
// filter's group delay so that sample 0 of the input lands on sample 0 of
// the output.
//
//	quality         taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
