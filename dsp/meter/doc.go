// Package meter measures blocks flowing through an effect chain.
//
// Calculate and its single-value helpers describe one block in the time
// domain. BlockMeter accumulates per-block levels across a stream. Analyzer
// computes a windowed magnitude spectrum for pitch and tone checks on
// generated or processed audio.
package meter
