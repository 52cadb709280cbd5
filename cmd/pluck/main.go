// Command pluck renders a Karplus-Strong plucked string through its vibrato
// and an optional effect chain into a 16-bit WAV file.
//
// Usage:
//
//	pluck [flags]
//
// Examples:
//
//	pluck -note A -duration 2s -out a.wav
//	pluck -freq 196 -decay 0.995 -sweep 0.004 -vibrato 5
//	pluck -note E -preset slapback.yaml -irdir ./irs -tail 10
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/klauspost/cpuid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-blockfx/dsp/core"
	"github.com/cwbudde/algo-blockfx/dsp/effectchain"
	"github.com/cwbudde/algo-blockfx/dsp/irload"
	"github.com/cwbudde/algo-blockfx/dsp/stream"
	"github.com/cwbudde/algo-blockfx/dsp/synth"
)

var errNoPitch = errors.New("pluck: unknown note and no frequency or length given")

type options struct {
	note       string
	freq       float64
	length     int
	sampleRate float64
	blockSize  int
	decay      float64
	sweep      float64
	vibrato    float64
	duration   time.Duration
	seed       int64
	preset     string
	irDir      string
	tail       int
	out        string
}

func main() {
	var opts options

	flag.StringVar(&opts.note, "note", "A", "note name C..B with optional #")
	flag.Float64Var(&opts.freq, "freq", 0, "fundamental in Hz, overrides -note")
	flag.IntVar(&opts.length, "length", 0, "string length in samples, overrides -freq and -note")
	flag.Float64Var(&opts.sampleRate, "rate", core.DefaultSampleRate, "sample rate in Hz")
	flag.IntVar(&opts.blockSize, "block", 0, "block size in samples (default: 0.1 s of audio)")
	flag.Float64Var(&opts.decay, "decay", synth.DefaultDecay, "decay factor K in (0, 1]")
	flag.Float64Var(&opts.sweep, "sweep", synth.DefaultSweep, "vibrato sweep width in seconds")
	flag.Float64Var(&opts.vibrato, "vibrato", synth.DefaultVibratoRate, "vibrato rate in Hz")
	flag.DurationVar(&opts.duration, "duration", 2*time.Second, "rendered length")
	flag.Int64Var(&opts.seed, "seed", 1, "excitation noise seed")
	flag.StringVar(&opts.preset, "preset", "", "effect chain preset (.json, .yaml)")
	flag.StringVar(&opts.irDir, "irdir", ".", "directory for reverb impulse responses")
	flag.IntVar(&opts.tail, "tail", 0, "silent blocks appended after the note")
	flag.StringVar(&opts.out, "out", "pluck.wav", "output WAV file")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pluck [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a plucked string to a 16-bit WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nNotes: ")
		for _, n := range synth.Notes() {
			fmt.Fprintf(os.Stderr, "%s ", n.Name)
		}
		fmt.Fprintln(os.Stderr)
	}
	flag.Parse()

	log := logrus.New()
	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	log.SetLevel(lvl)

	log.WithFields(logrus.Fields{
		"cpu":   cpuid.CPU.BrandName,
		"cores": cpuid.CPU.LogicalCores,
		"avx2":  cpuid.CPU.AVX2(),
	}).Debug("host")

	if err := run(context.Background(), opts, log); err != nil {
		log.WithError(err).Error("render failed")
		os.Exit(1)
	}
}

// stringLength picks the string length from -length, -freq or -note, in
// that order.
func stringLength(opts options) (int, error) {
	if opts.length > 0 {
		return opts.length, nil
	}

	freq := opts.freq
	if freq <= 0 {
		f, ok := synth.NoteFrequency(opts.note)
		if !ok {
			return 0, fmt.Errorf("%w: %q", errNoPitch, opts.note)
		}
		freq = f
	}

	n := synth.LengthForFrequency(opts.sampleRate, freq)
	if n <= 0 {
		return 0, fmt.Errorf("pluck: %g Hz is above the sample rate", freq)
	}

	return n, nil
}

func run(ctx context.Context, opts options, log logrus.FieldLogger) error {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(opts.sampleRate),
		core.WithStreamDuration(core.DefaultStreamDuration),
		core.WithBlockSize(opts.blockSize),
	)
	if err := cfg.Validate(); err != nil {
		return err
	}

	length, err := stringLength(opts)
	if err != nil {
		return err
	}

	voice, err := synth.NewVoice(cfg.SampleRate,
		synth.WithRand(rand.New(rand.NewSource(opts.seed))),
		synth.WithDecay(opts.decay),
		synth.WithSweep(opts.sweep),
		synth.WithVibratoRate(opts.vibrato),
	)
	if err != nil {
		return err
	}

	if err := voice.Pluck(length); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"length":    length,
		"frequency": synth.FrequencyForLength(cfg.SampleRate, length),
		"rate":      cfg.SampleRate,
		"block":     cfg.BlockSize,
	}).Info("string plucked")

	var chain *effectchain.Chain
	if opts.preset != "" {
		chain, err = loadChain(opts, cfg, log)
		if err != nil {
			return err
		}
	}

	proc := stream.ProcessorFunc(func(dst, src []float64) error {
		synth.FromPCM16(dst, src)
		if chain == nil {
			return nil
		}

		return chain.ProcessTo(dst, dst)
	})

	total := int(opts.duration.Seconds() * cfg.SampleRate)
	src := stream.NewGeneratorSource(total, voice.Process)
	sink := &stream.CollectSink{}

	stats, err := stream.Pump(ctx, cfg.BlockSize, src, proc, sink, stream.WithTail(opts.tail), stream.WithLogger(log))
	if err != nil {
		return err
	}

	if err := irload.WriteFile(opts.out, [][]float64{sink.Samples}, int(cfg.SampleRate), 16); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"path":    opts.out,
		"samples": len(sink.Samples),
		"blocks":  stats.Blocks,
	}).Info("wav written")

	return nil
}

func loadChain(opts options, cfg core.ProcessorConfig, log logrus.FieldLogger) (*effectchain.Chain, error) {
	preset, err := effectchain.LoadPreset(opts.preset)
	if err != nil {
		return nil, err
	}

	irs := irload.New(opts.irDir, irload.WithSampleRate(cfg.SampleRate), irload.WithLogger(log))
	reg := effectchain.DefaultRegistry(effectchain.WithIRProvider(irs))

	chain := effectchain.New(effectchain.Context{SampleRate: cfg.SampleRate, BlockSize: cfg.BlockSize}, reg,
		effectchain.WithLogger(log))
	if err := chain.Configure(preset.Params()); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"preset": opts.preset, "nodes": chain.Len()}).Info("effect chain built")

	return chain, nil
}
