package stream

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-blockfx/dsp/effects"
	"github.com/cwbudde/algo-blockfx/internal/testutil"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func double(dst, src []float64) error {
	for i, x := range src {
		dst[i] = 2 * x
	}

	return nil
}

func TestPumpPadsFinalBlock(t *testing.T) {
	t.Parallel()

	sink := &CollectSink{}

	stats, err := Pump(context.Background(), 4, NewSliceSource([]float64{1, 2, 3, 4, 5, 6}), ProcessorFunc(double), sink,
		WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, Stats{Blocks: 2, Samples: 6}, stats)
	assert.Equal(t, []float64{2, 4, 6, 8, 10, 12, 0, 0}, sink.Samples)
}

func TestPumpNilProcessorPassesThrough(t *testing.T) {
	t.Parallel()

	sink := &CollectSink{}

	_, err := Pump(context.Background(), 2, NewSliceSource([]float64{1, 2, 3, 4}), nil, sink, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, sink.Samples)
	assert.Equal(t, 2, sink.Blocks)
}

func TestPumpEmptySource(t *testing.T) {
	t.Parallel()

	sink := &CollectSink{}

	stats, err := Pump(context.Background(), 8, NewSliceSource(nil), ProcessorFunc(double), sink, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Zero(t, stats.Blocks)
	assert.Empty(t, sink.Samples)
}

func TestPumpTailLetsDelayRingOut(t *testing.T) {
	t.Parallel()

	d, err := effects.NewDelay(0.01, 1000)
	require.NoError(t, err)
	d.SetFeedback(0)
	d.SetMix(1)

	sink := &CollectSink{}

	stats, err := Pump(context.Background(), 4, NewSliceSource(testutil.Impulse(4, 0)), d, sink,
		WithTail(3), WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TailBlocks)
	assert.Equal(t, 4, stats.Blocks)
	require.Len(t, sink.Samples, 16)
	assert.InDelta(t, 1.0, sink.Samples[10], 0)
}

func TestPumpStopsOnErrors(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name string
		src  Source
		proc Processor
		sink Sink
	}{
		{
			name: "source",
			src:  NewGeneratorSource(10, func([]float64) error { return errBoom }),
			sink: &CollectSink{},
		},
		{
			name: "processor",
			src:  NewSliceSource(make([]float64, 8)),
			proc: ProcessorFunc(func(_, _ []float64) error { return errBoom }),
			sink: &CollectSink{},
		},
		{
			name: "sink",
			src:  NewSliceSource(make([]float64, 8)),
			sink: SinkFunc(func([]float64) error { return errBoom }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stats, err := Pump(context.Background(), 4, tt.src, tt.proc, tt.sink, WithLogger(quietLogger()))
			require.ErrorIs(t, err, errBoom)
			assert.Zero(t, stats.Blocks)
		})
	}
}

func TestPumpHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	sink := SinkFunc(func([]float64) error {
		cancel()
		return nil
	})

	stats, err := Pump(ctx, 2, NewSliceSource(make([]float64, 100)), nil, sink, WithLogger(quietLogger()))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.Blocks)
}

func TestPumpRejectsBadBlockSize(t *testing.T) {
	t.Parallel()

	_, err := Pump(context.Background(), 0, NewSliceSource(nil), nil, &CollectSink{})
	require.ErrorIs(t, err, ErrInvalidBlockSize)
}

func TestPumpLogsFinish(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	_, err := Pump(context.Background(), 2, NewSliceSource([]float64{1, 2, 3}), nil, &CollectSink{}, WithLogger(log))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "block processed", entries[0].Message)
	assert.Equal(t, "stream finished", hook.LastEntry().Message)
	assert.Equal(t, 2, hook.LastEntry().Data["blocks"])
}

func TestGeneratorSource(t *testing.T) {
	t.Parallel()

	next := 0.0
	src := NewGeneratorSource(5, func(dst []float64) error {
		for i := range dst {
			next++
			dst[i] = next
		}
		return nil
	})

	buf := make([]float64, 3)

	n, err := src.ReadBlock(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = src.ReadBlock(buf)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float64{4, 5}, buf[:n])

	n, err = src.ReadBlock(buf)
	require.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)
}

func TestSliceSourceRemaining(t *testing.T) {
	t.Parallel()

	src := NewSliceSource([]float64{1, 2, 3})
	buf := make([]float64, 2)

	_, err := src.ReadBlock(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, src.Remaining())
}
