package irload

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-blockfx/dsp/resample"
)

type entry struct {
	channels [][]float64
	rate     float64
}

// Loader resolves, decodes and caches impulse responses. It is safe for
// concurrent use.
type Loader struct {
	dir        string
	sampleRate float64
	quality    resample.Quality
	log        logrus.FieldLogger

	mu    sync.Mutex
	cache map[string]entry
}

// Option configures a Loader.
type Option func(*Loader)

// WithSampleRate resamples every loaded impulse response to rate. A rate of
// zero keeps the file's own rate.
func WithSampleRate(rate float64) Option {
	return func(l *Loader) {
		if rate > 0 {
			l.sampleRate = rate
		}
	}
}

// WithQuality selects the resampling filter used with WithSampleRate.
func WithQuality(q resample.Quality) Option {
	return func(l *Loader) { l.quality = q }
}

// WithLogger sets the logger for load events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New returns a Loader that resolves relative names against dir.
func New(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:     dir,
		quality: resample.QualityBalanced,
		log:     logrus.StandardLogger(),
		cache:   map[string]entry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// Path returns the file path a name resolves to.
func (l *Loader) Path(name string) string {
	if l.dir == "" || filepath.IsAbs(name) {
		return filepath.Clean(name)
	}

	return filepath.Join(l.dir, name)
}

// GetIR returns the channels and sample rate of the named impulse response.
// Files are decoded once; later calls return the cached channels, which
// callers must not modify.
func (l *Loader) GetIR(name string) ([][]float64, float64, error) {
	path := l.Path(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.cache[path]; ok {
		return e.channels, e.rate, nil
	}

	channels, rate, err := ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	fileRate := rate
	if l.sampleRate > 0 && l.sampleRate != rate {
		for i, ch := range channels {
			out, err := resample.Convert(ch, rate, l.sampleRate, resample.WithQuality(l.quality))
			if err != nil {
				return nil, 0, fmt.Errorf("irload: resample %s: %w", path, err)
			}
			channels[i] = out
		}
		rate = l.sampleRate
	}

	l.cache[path] = entry{channels: channels, rate: rate}

	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}

	l.log.WithFields(logrus.Fields{
		"path":      path,
		"channels":  len(channels),
		"frames":    frames,
		"file_rate": fileRate,
		"rate":      rate,
	}).Info("impulse response loaded")

	return channels, rate, nil
}

// Len returns the number of cached impulse responses.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.cache)
}

// Purge drops every cached impulse response.
func (l *Loader) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.cache)
}
