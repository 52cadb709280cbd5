package effectchain

type registryConfig struct {
	irProvider IRProvider
}

// RegistryOption configures the default registry.
type RegistryOption func(*registryConfig)

// WithIRProvider sets the impulse response provider for convolution reverb.
func WithIRProvider(p IRProvider) RegistryOption {
	return func(c *registryConfig) { c.irProvider = p }
}

// DefaultRegistry returns a Registry with the built-in effect runtimes:
// "delay", "distortion", "reverb" and "vibrato".
func DefaultRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := NewRegistry()

	r.MustRegister("delay", func(_ Context) (Runtime, error) {
		return &delayRuntime{}, nil
	})
	r.MustRegister("distortion", func(_ Context) (Runtime, error) {
		return &distortionRuntime{}, nil
	})
	r.MustRegister("reverb", func(_ Context) (Runtime, error) {
		return &reverbRuntime{irProvider: cfg.irProvider}, nil
	})
	r.MustRegister("vibrato", func(_ Context) (Runtime, error) {
		return &vibratoRuntime{}, nil
	})

	return r
}
