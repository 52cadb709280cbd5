package effectchain

import (
	"errors"
	"fmt"
)

// stubRuntime records configure and process calls.
type stubRuntime struct {
	configureErr   error
	configureCalls int
	processCalls   int
	resetCalls     int
	lastCtx        Context
	lastParams     Params
}

func (s *stubRuntime) Configure(ctx Context, params Params) error {
	s.configureCalls++
	s.lastCtx = ctx
	s.lastParams = params

	return s.configureErr
}

func (s *stubRuntime) Process(dst, src []float64) error {
	s.processCalls++
	copy(dst, src)

	return nil
}

func (s *stubRuntime) Reset() {
	s.resetCalls++
}

// gainRuntime multiplies every sample by a fixed gain.
type gainRuntime struct {
	gain float64
}

func (g *gainRuntime) Configure(_ Context, params Params) error {
	g.gain = params.GetNum("gain", 1.0)

	return nil
}

func (g *gainRuntime) Process(dst, src []float64) error {
	for i, x := range src {
		dst[i] = x * g.gain
	}

	return nil
}

// addRuntime adds a constant to every sample, so node order is observable.
type addRuntime struct {
	value float64
}

func (a *addRuntime) Configure(_ Context, params Params) error {
	a.value = params.GetNum("value", 0)

	return nil
}

func (a *addRuntime) Process(dst, src []float64) error {
	for i, x := range src {
		dst[i] = x + a.value
	}

	return nil
}

var errProcessFailed = errors.New("process failed")

// failRuntime always fails to process.
type failRuntime struct{}

func (failRuntime) Configure(Context, Params) error { return nil }

func (failRuntime) Process(_, _ []float64) error { return errProcessFailed }

// testRegistry creates a registry with simple test effects.
func testRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("stub", func(_ Context) (Runtime, error) {
		return &stubRuntime{}, nil
	})
	r.MustRegister("gain", func(_ Context) (Runtime, error) {
		return &gainRuntime{gain: 1.0}, nil
	})
	r.MustRegister("add", func(_ Context) (Runtime, error) {
		return &addRuntime{}, nil
	})
	r.MustRegister("fail", func(_ Context) (Runtime, error) {
		return failRuntime{}, nil
	})

	return r
}

// mapIRProvider serves impulse responses from memory and counts loads.
type mapIRProvider struct {
	irs   map[string][][]float64
	loads int
}

func (m *mapIRProvider) GetIR(name string) ([][]float64, float64, error) {
	m.loads++

	ir, ok := m.irs[name]
	if !ok {
		return nil, 0, fmt.Errorf("no impulse response %q", name)
	}

	return ir, 44100, nil
}
