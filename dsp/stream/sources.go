package stream

import "io"

// SliceSource reads from an in-memory signal.
type SliceSource struct {
	data []float64
	pos  int
}

// NewSliceSource returns a Source over data. The slice is not copied.
func NewSliceSource(data []float64) *SliceSource {
	return &SliceSource{data: data}
}

// ReadBlock copies the next samples into dst.
func (s *SliceSource) ReadBlock(dst []float64) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}

	n := copy(dst, s.data[s.pos:])
	s.pos += n
	if s.pos >= len(s.data) {
		return n, io.EOF
	}

	return n, nil
}

// Remaining returns the number of unread samples.
func (s *SliceSource) Remaining() int { return len(s.data) - s.pos }

// GeneratorSource produces a fixed number of samples from a generator
// function such as a synthesizer's GenerateTo.
type GeneratorSource struct {
	gen  func(dst []float64) error
	left int
}

// NewGeneratorSource returns a Source that calls gen until total samples
// have been produced.
func NewGeneratorSource(total int, gen func(dst []float64) error) *GeneratorSource {
	return &GeneratorSource{gen: gen, left: max(total, 0)}
}

// ReadBlock fills dst, or fewer samples at the end of the run.
func (g *GeneratorSource) ReadBlock(dst []float64) (int, error) {
	if g.left == 0 {
		return 0, io.EOF
	}

	n := min(len(dst), g.left)
	if err := g.gen(dst[:n]); err != nil {
		return 0, err
	}

	g.left -= n
	if g.left == 0 {
		return n, io.EOF
	}

	return n, nil
}

// CollectSink appends every block to Samples.
type CollectSink struct {
	Samples []float64
	Blocks  int
}

// WriteBlock copies block into the collected signal.
func (c *CollectSink) WriteBlock(block []float64) error {
	c.Samples = append(c.Samples, block...)
	c.Blocks++

	return nil
}
