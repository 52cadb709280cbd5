package synth

import (
	"math"
	"strings"
)

// Note is a named pitch of the keyboard octave starting at middle C.
type Note struct {
	Name      string
	Frequency float64
}

var octave = []Note{
	{"C", 261.63},
	{"C#", 277.18},
	{"D", 293.67},
	{"D#", 311.13},
	{"E", 329.63},
	{"F", 349.23},
	{"F#", 369.99},
	{"G", 392.0},
	{"G#", 415.3},
	{"A", 440.0},
	{"A#", 466.16},
	{"B", 493.88},
}

// Notes returns the twelve notes of the octave in ascending order.
func Notes() []Note {
	return append([]Note(nil), octave...)
}

// NoteFrequency returns the frequency of a note name such as "A" or "c#".
func NoteFrequency(name string) (float64, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, n := range octave {
		if n.Name == name {
			return n.Frequency, true
		}
	}
	return 0, false
}

// LengthForFrequency returns the string length floor(sampleRate/freq) that
// approximates freq. It returns 0 for non-positive inputs.
func LengthForFrequency(sampleRate, freq float64) int {
	if sampleRate <= 0 || freq <= 0 {
		return 0
	}
	return int(math.Floor(sampleRate / freq))
}

// FrequencyForLength returns the fundamental sampleRate/length of a string.
func FrequencyForLength(sampleRate float64, length int) float64 {
	if length <= 0 {
		return 0
	}
	return sampleRate / float64(length)
}
