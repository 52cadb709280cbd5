package irload

import (
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-blockfx/dsp/effectchain"
	"github.com/cwbudde/algo-blockfx/internal/testutil"
)

var _ effectchain.IRProvider = (*Loader)(nil)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func writeIR(t *testing.T, dir, name string, rate int, channels ...[]float64) {
	t.Helper()
	require.NoError(t, WriteFile(filepath.Join(dir, name), channels, rate, 16))
}

func TestLoaderCachesByPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeIR(t, dir, "room.wav", 44100, []float64{0, 0.5, 0.25})

	log, hook := test.NewNullLogger()
	l := New(dir, WithLogger(log))

	channels, rate, err := l.GetIR("room.wav")
	require.NoError(t, err)
	assert.InDelta(t, 44100.0, rate, 0)
	require.Len(t, channels, 1)
	testutil.RequireSliceNearlyEqual(t, channels[0], []float64{0, 0.5, 0.25}, 1e-4)

	again, _, err := l.GetIR(filepath.Join(dir, "room.wav"))
	require.NoError(t, err)
	assert.Same(t, &channels[0][0], &again[0][0])
	assert.Equal(t, 1, l.Len())
	assert.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "impulse response loaded", hook.LastEntry().Message)

	l.Purge()
	assert.Equal(t, 0, l.Len())
}

func TestLoaderResamples(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ir := testutil.DeterministicSine(100, 44100, 0.5, 441)
	writeIR(t, dir, "sine.wav", 44100, ir, ir)

	l := New(dir, WithSampleRate(22050), WithLogger(quietLogger()))

	channels, rate, err := l.GetIR("sine.wav")
	require.NoError(t, err)
	assert.InDelta(t, 22050.0, rate, 0)
	require.Len(t, channels, 2)
	assert.Len(t, channels[0], 221)
	assert.Len(t, channels[1], 221)
	testutil.RequireFinite(t, channels[0])
}

func TestLoaderMissingFile(t *testing.T) {
	t.Parallel()

	l := New(t.TempDir(), WithLogger(quietLogger()))

	_, _, err := l.GetIR("nope.wav")
	require.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestLoaderPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("irs", "hall.wav"), New("irs").Path("hall.wav"))
	assert.Equal(t, "hall.wav", New("").Path("./hall.wav"))

	abs := filepath.Join(t.TempDir(), "x.wav")
	assert.Equal(t, abs, New("irs").Path(abs))
}

func TestLoaderConcurrentGet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeIR(t, dir, "a.wav", 48000, []float64{1, 0})

	l := New(dir, WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := l.GetIR("a.wav")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, l.Len())
}

func TestLoaderFeedsReverbNode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeIR(t, dir, "tap.wav", 44100, []float64{0, 0.5}, []float64{0, 0.5})

	provider := New(dir, WithLogger(quietLogger()))
	reg := effectchain.DefaultRegistry(effectchain.WithIRProvider(provider))

	c := effectchain.New(effectchain.Context{SampleRate: 44100, BlockSize: 4}, reg, effectchain.WithLogger(quietLogger()))
	err := c.Configure([]effectchain.Params{{
		ID:   "rev",
		Type: "reverb",
		Str:  map[string]string{"ir": "tap.wav"},
	}})
	require.NoError(t, err)

	out, err := c.Process([]float64{1, 0, 0, 0})
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, out, []float64{0, 1, 0, 0}, 1e-9)
}
