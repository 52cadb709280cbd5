package irload

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV is returned for input that is not a readable PCM WAV file.
	ErrInvalidWAV = errors.New("irload: invalid wav file")
	// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24 or 32.
	ErrUnsupportedBitDepth = errors.New("irload: unsupported bit depth")
	// ErrNoChannels is returned when encoding zero channels.
	ErrNoChannels = errors.New("irload: no channels")
)

const wavFormatPCM = 1

// fullScale returns 2^(bitDepth-1), the magnitude of the most negative
// sample at that depth.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// Decode reads a PCM WAV stream and returns its channels de-interleaved and
// scaled to [-1, 1), together with the sample rate.
func Decode(r io.ReadSeeker) ([][]float64, float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, 0, fmt.Errorf("%w: audio format %d", ErrInvalidWAV, dec.WavAudioFormat)
	}

	scale, err := fullScale(int(dec.BitDepth))
	if err != nil {
		return nil, 0, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	numCh := int(dec.NumChans)
	if numCh <= 0 {
		return nil, 0, fmt.Errorf("%w: %d channels", ErrInvalidWAV, numCh)
	}

	frames := len(buf.Data) / numCh
	channels := make([][]float64, numCh)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	inv := 1 / scale
	for i := range frames {
		for ch := range numCh {
			channels[ch][i] = float64(buf.Data[i*numCh+ch]) * inv
		}
	}

	return channels, float64(dec.SampleRate), nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) ([][]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("irload: open %s: %w", path, err)
	}
	defer f.Close()

	channels, rate, err := Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("irload: %s: %w", path, err)
	}

	return channels, rate, nil
}

// Encode writes channels as an interleaved PCM WAV stream. Samples are
// clipped to [-1, 1] and rounded to the nearest integer step. Channels
// shorter than the longest one are padded with silence.
func Encode(w io.WriteSeeker, channels [][]float64, sampleRate, bitDepth int) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}

	scale, err := fullScale(bitDepth)
	if err != nil {
		return err
	}

	frames := 0
	for _, ch := range channels {
		frames = max(frames, len(ch))
	}

	numCh := len(channels)
	peak := scale - 1
	data := make([]int, frames*numCh)

	for ch, samples := range channels {
		for i, x := range samples {
			if math.IsNaN(x) {
				x = 0
			}
			data[i*numCh+ch] = int(math.Round(math.Max(-1, math.Min(1, x)) * peak))
		}
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, numCh, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numCh, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return fmt.Errorf("irload: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("irload: encode: %w", err)
	}

	return nil
}

// WriteFile encodes channels into a new WAV file at path.
func WriteFile(path string, channels [][]float64, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("irload: create %s: %w", path, err)
	}

	if err := Encode(f, channels, sampleRate, bitDepth); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
