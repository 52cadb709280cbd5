// Package ring provides a fixed-capacity circular sample buffer.
//
// A Buffer carries an integer write cursor and an independent fractional read
// cursor. Both cursors are kept in [0, Len()) at all times. A pure delay line
// uses only the write cursor: the value found there is the sample written one
// buffer length ago. Modulated delays (vibrato) move the read cursor freely and
// read it back with linear interpolation.
//
// Buffers are sized once at construction and never grow, so reading and
// writing never allocate.
package ring
