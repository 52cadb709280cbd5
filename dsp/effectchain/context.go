package effectchain

// Context provides the session settings that effect runtimes need.
type Context struct {
	SampleRate float64
	BlockSize  int
}

// IRProvider allows runtimes to load impulse responses without depending on
// where they are stored. samples holds one slice per channel.
type IRProvider interface {
	GetIR(name string) (samples [][]float64, sampleRate float64, err error)
}
