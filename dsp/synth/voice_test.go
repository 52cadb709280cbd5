package synth

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-blockfx/dsp/effects"
	"github.com/cwbudde/algo-blockfx/internal/testutil"
)

func TestVoiceSilentUntilPlucked(t *testing.T) {
	v, err := NewVoice(44100)
	require.NoError(t, err)
	assert.Nil(t, v.Resonator())

	out, err := v.Apply(441)
	require.NoError(t, err)
	for _, s := range out {
		assert.Zero(t, s)
	}
	assert.Equal(t, DefaultVibratoRate, v.Vibrato().Rate())
	assert.Equal(t, 663, v.Vibrato().BufferLen())
}

func TestVoiceMatchesStringThroughVibrato(t *testing.T) {
	const rate = 8000.0
	v, err := NewVoice(rate, WithRand(rand.New(rand.NewSource(4))), WithSweep(0.002), WithVibratoRate(3))
	require.NoError(t, err)
	require.NoError(t, v.PluckFrequency(200))
	assert.Equal(t, 40, v.Resonator().Len())

	ks, err := Pluck(40, WithRand(rand.New(rand.NewSource(4))))
	require.NoError(t, err)
	vib, err := effects.NewVibrato(0.002, rate)
	require.NoError(t, err)
	vib.SetRate(3)

	for range 5 {
		got, err := v.Apply(80)
		require.NoError(t, err)

		want := ks.Generate(80)
		ToPCM16(want, want)
		require.NoError(t, vib.ProcessTo(want, want))

		assert.Equal(t, want, got)
	}
}

func TestVoiceOutputIsPCM16(t *testing.T) {
	v, err := NewVoice(44100, WithRand(rand.New(rand.NewSource(9))))
	require.NoError(t, err)
	require.NoError(t, v.PluckNote("A"))
	assert.Equal(t, 100, v.Resonator().Len())

	for range 10 {
		out, err := v.Apply(441)
		require.NoError(t, err)
		testutil.RequireIntegral(t, out)
		testutil.RequireBounded(t, out, -32768, 32767)
	}
}

func TestVoiceRepluckResetsStringAndVibrato(t *testing.T) {
	v, err := NewVoice(1000, WithRand(rand.New(rand.NewSource(1))), WithSweep(0.01), WithVibratoRate(0))
	require.NoError(t, err)
	require.NoError(t, v.Pluck(10))

	_, err = v.Apply(50)
	require.NoError(t, err)
	first := v.Resonator()

	require.NoError(t, v.SetSweep(0.02))
	assert.Equal(t, 12, v.Vibrato().BufferLen(), "sweep applies on next pluck")

	require.NoError(t, v.Pluck(20))
	assert.NotSame(t, first, v.Resonator())
	assert.Equal(t, 20, v.Resonator().Len())
	assert.Equal(t, 22, v.Vibrato().BufferLen())
	assert.Zero(t, v.Vibrato().BaseIndex())
	assert.Equal(t, 11, v.Vibrato().WriteIndex())
}

func TestVoiceKnobsDoNotReinitialize(t *testing.T) {
	v, err := NewVoice(1000, WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	require.NoError(t, v.Pluck(10))
	str, vib := v.Resonator(), v.Vibrato()

	v.SetDecay(0.5)
	v.SetVibratoRate(4)

	assert.Same(t, str, v.Resonator())
	assert.Same(t, vib, v.Vibrato())
	assert.Equal(t, 0.5, str.Decay())
	assert.Equal(t, 4.0, vib.Rate())
}

func TestVoiceRejectsBadInput(t *testing.T) {
	_, err := NewVoice(0)
	require.ErrorIs(t, err, effects.ErrInvalidSampleRate)

	_, err = NewVoice(44100, WithSweep(-1))
	require.ErrorIs(t, err, effects.ErrInvalidSweep)

	v, err := NewVoice(44100)
	require.NoError(t, err)
	require.ErrorIs(t, v.PluckFrequency(0), ErrInvalidLength)
	require.ErrorIs(t, v.Pluck(0), ErrInvalidLength)
	require.Error(t, v.PluckNote("X"))
	require.ErrorIs(t, v.SetSweep(-0.1), effects.ErrInvalidSweep)
}
