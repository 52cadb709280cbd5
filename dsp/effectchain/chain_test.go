package effectchain

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-blockfx/dsp/core"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func newTestChain(t *testing.T, blockSize int, params ...Params) *Chain {
	t.Helper()

	c := New(Context{SampleRate: 1000, BlockSize: blockSize}, testRegistry(), WithLogger(quietLogger()))
	require.NoError(t, c.Configure(params))

	return c
}

func TestChainAppliesNodesInOrder(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 3,
		Params{ID: "a", Type: "add", Num: map[string]float64{"value": 1}},
		Params{ID: "g", Type: "gain", Num: map[string]float64{"gain": 2}},
	)

	out, err := c.Process([]float64{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, core.Block{2, 4, 6}, out)
}

func TestChainEmptyIsIdentity(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 2)
	in := []float64{0.25, -0.5}

	out, err := c.Process(in)
	require.NoError(t, err)
	assert.Equal(t, core.Block{0.25, -0.5}, out)

	out[0] = 9
	assert.InDelta(t, 0.25, in[0], 0, "Process aliased its input")
}

func TestChainBypassSkipsNode(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 1,
		Params{ID: "g", Type: "gain", Bypassed: true, Num: map[string]float64{"gain": 10}},
		Params{ID: "a", Type: "add", Num: map[string]float64{"value": 1}},
	)

	out, err := c.Process([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out[0], 0)

	require.True(t, c.SetBypassed("g", false))

	out, err = c.Process([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 11.0, out[0], 0)

	assert.False(t, c.SetBypassed("missing", true))
}

func TestChainReconfigureKeepsRuntime(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 1, Params{ID: "s", Type: "stub"})
	first, ok := c.NodeRuntime("s").(*stubRuntime)
	require.True(t, ok)

	require.NoError(t, c.Configure([]Params{{ID: "s", Type: "stub", Num: map[string]float64{"x": 1}}}))

	assert.Same(t, first, c.NodeRuntime("s"))
	assert.Equal(t, 2, first.configureCalls)
	assert.InDelta(t, 1.0, first.lastParams.GetNum("x", 0), 0)

	require.NoError(t, c.Configure([]Params{{ID: "s", Type: "gain"}}))
	assert.IsType(t, &gainRuntime{}, c.NodeRuntime("s"))
}

func TestChainConfigureDropsRemovedNodes(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 1, Params{ID: "a", Type: "add"}, Params{ID: "b", Type: "gain"})

	require.NoError(t, c.Configure([]Params{{ID: "b", Type: "gain"}}))
	assert.Equal(t, 1, c.Len())
	assert.Nil(t, c.NodeRuntime("a"))
}

func TestChainConfigureErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []Params
		want   error
	}{
		{"unknown type", []Params{{ID: "x", Type: "nope"}}, ErrUnknownEffect},
		{"duplicate id", []Params{{ID: "x", Type: "add"}, {ID: "x", Type: "gain"}}, ErrInvalidPreset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestChain(t, 1, Params{ID: "keep", Type: "add"})

			require.ErrorIs(t, c.Configure(tt.params), tt.want)
			assert.NotNil(t, c.NodeRuntime("keep"), "failed Configure replaced the node list")
		})
	}
}

func TestChainConfigureRejectsBadContext(t *testing.T) {
	t.Parallel()

	c := New(Context{SampleRate: 44100}, testRegistry(), WithLogger(quietLogger()))
	require.ErrorIs(t, c.Configure(nil), core.ErrInvalidConfig)
}

func TestChainRejectsWrongBlockSize(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 4, Params{ID: "a", Type: "add"})

	_, err := c.Process(make([]float64, 3))
	require.ErrorIs(t, err, core.ErrBlockSize)

	err = c.ProcessTo(make([]float64, 5), make([]float64, 4))
	require.ErrorIs(t, err, core.ErrBlockSize)
}

func TestChainSurfacesNodeErrors(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 2, Params{ID: "f", Type: "fail"})

	_, err := c.Process([]float64{1, 2})
	require.ErrorIs(t, err, errProcessFailed)
}

func TestChainProcessToInPlace(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 2, Params{ID: "g", Type: "gain", Num: map[string]float64{"gain": 3}})

	buf := []float64{1, 2}
	require.NoError(t, c.ProcessTo(buf, buf))
	assert.Equal(t, []float64{3, 6}, buf)
}

func TestChainResetAndSetContext(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 2, Params{ID: "s", Type: "stub"})
	stub, ok := c.NodeRuntime("s").(*stubRuntime)
	require.True(t, ok)

	c.Reset()
	assert.Equal(t, 1, stub.resetCalls)

	require.NoError(t, c.SetContext(Context{SampleRate: 2000, BlockSize: 8}))
	assert.Equal(t, Context{SampleRate: 2000, BlockSize: 8}, stub.lastCtx)

	_, err := c.Process(make([]float64, 8))
	require.NoError(t, err)
}

func TestChainSetContextKeepsOldContextOnError(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, 2, Params{ID: "s", Type: "stub"})

	require.ErrorIs(t, c.SetContext(Context{SampleRate: 2000}), core.ErrInvalidConfig)
	assert.Equal(t, Context{SampleRate: 1000, BlockSize: 2}, c.Context())
}
