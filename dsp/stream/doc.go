// Package stream moves fixed-size blocks from a Source through a Processor
// into a Sink.
//
// Pump is the single-producer, single-consumer loop that the effects in this
// module are written for: one block at a time, in signal order, with no
// concurrency inside the loop. Cancellation is checked between blocks.
package stream
