package meter

import "math"

// BlockMeter accumulates levels over a sequence of blocks.
type BlockMeter struct {
	blocks  int
	samples int
	energy  float64
	peak    float64
	history []float64
	limit   int
}

// NewBlockMeter returns a meter that keeps the RMS of at most historyLimit
// recent blocks. A limit <= 0 keeps every block.
func NewBlockMeter(historyLimit int) *BlockMeter {
	return &BlockMeter{limit: historyLimit}
}

// Observe measures block, folds it into the running totals and returns its
// levels.
func (m *BlockMeter) Observe(block []float64) Levels {
	lv := Calculate(block)

	m.blocks++
	m.samples += lv.Length
	m.energy += lv.Energy
	m.peak = math.Max(m.peak, lv.Peak)

	m.history = append(m.history, lv.RMS)
	if m.limit > 0 && len(m.history) > m.limit {
		m.history = m.history[len(m.history)-m.limit:]
	}
	return lv
}

// Blocks returns the number of observed blocks.
func (m *BlockMeter) Blocks() int { return m.blocks }

// Samples returns the number of observed samples.
func (m *BlockMeter) Samples() int { return m.samples }

// Peak returns the largest absolute sample seen.
func (m *BlockMeter) Peak() float64 { return m.peak }

// RMS returns the RMS over every observed sample.
func (m *BlockMeter) RMS() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.energy / float64(m.samples))
}

// History returns the per-block RMS values, oldest first.
func (m *BlockMeter) History() []float64 {
	return append([]float64(nil), m.history...)
}

// NonIncreasing reports whether the recorded per-block RMS never rises by
// more than tol.
func (m *BlockMeter) NonIncreasing(tol float64) bool {
	for i := 1; i < len(m.history); i++ {
		if m.history[i] > m.history[i-1]+tol {
			return false
		}
	}
	return true
}

// Reset clears all totals and history.
func (m *BlockMeter) Reset() {
	m.blocks = 0
	m.samples = 0
	m.energy = 0
	m.peak = 0
	m.history = m.history[:0]
}
