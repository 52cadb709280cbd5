package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoPreset = `{
  "name": "echo",
  "sampleRate": 1000,
  "blockSize": 100,
  "nodes": [
    {"id": "d", "type": "delay", "params": {"time": 0.15, "feedback": 0, "mix": 1}}
  ]
}`

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func writePreset(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "preset.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestRunReportsImpulseResponse(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	opts := options{preset: writePreset(t, echoPreset), blocks: 3, signal: "impulse"}
	require.NoError(t, run(context.Background(), &buf, opts, quietLogger()))

	out := buf.String()
	assert.Contains(t, out, "Preset:      echo")
	assert.Contains(t, out, "Block size:  100")
	assert.Contains(t, out, "Nodes:       d:delay")
	assert.Contains(t, out, "Overall peak: 1.0000 at sample 150")
	assert.Contains(t, out, "over 3 blocks")
	assert.Contains(t, out, "-inf")
	assert.Contains(t, out, "Zero x")
	assert.Equal(t, 2, strings.Count(out, "1.0000"))
}

func TestRunOverridesContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	preset := writePreset(t, `{"sampleRate": 1000, "nodes": [{"type": "distortion", "params": {"mode": "bypass"}}]}`)
	opts := options{preset: preset, blocks: 2, blockSize: 50, sampleRate: 2000, signal: "sine", freq: 100}
	require.NoError(t, run(context.Background(), &buf, opts, quietLogger()))

	out := buf.String()
	assert.Contains(t, out, "Sample rate: 2000 Hz")
	assert.Contains(t, out, "Block size:  50")
	assert.Contains(t, out, "Preset:      (unnamed)")
	assert.Contains(t, out, "Nodes:       distortion-0:distortion")
	assert.Contains(t, out, "Peak freq:")
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := run(context.Background(), &buf, options{preset: writePreset(t, echoPreset), blocks: 1, signal: "chirp"}, quietLogger())
	require.ErrorIs(t, err, errUnknownSignal)

	err = run(context.Background(), &buf, options{preset: filepath.Join(t.TempDir(), "none.json"), blocks: 1, signal: "impulse"}, quietLogger())
	require.Error(t, err)
}

func TestTestSignal(t *testing.T) {
	t.Parallel()

	step, err := testSignal("STEP", 3, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, step)

	imp, err := testSignal("impulse", 3, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, imp)

	sine, err := testSignal("sine", 4, 250, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sine[1], 1e-12)
}
