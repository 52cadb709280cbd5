// Command fxinfo runs a test signal through an effect chain preset and
// prints per-block levels of the response.
//
// Usage:
//
//	fxinfo [flags] preset-file
//
// Examples:
//
//	fxinfo chain.yaml
//	fxinfo -blocks 20 -block 512 echo.json
//	fxinfo -signal sine -freq 220 -irdir ./irs hall.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/klauspost/cpuid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-blockfx/dsp/effectchain"
	"github.com/cwbudde/algo-blockfx/dsp/irload"
	"github.com/cwbudde/algo-blockfx/dsp/meter"
	"github.com/cwbudde/algo-blockfx/dsp/stream"
)

var errUnknownSignal = errors.New("fxinfo: unknown signal")

type options struct {
	preset     string
	irDir      string
	sampleRate float64
	blockSize  int
	blocks     int
	signal     string
	freq       float64
}

func main() {
	var opts options

	flag.StringVar(&opts.irDir, "irdir", ".", "directory for reverb impulse responses")
	flag.Float64Var(&opts.sampleRate, "rate", 0, "sample rate override in Hz")
	flag.IntVar(&opts.blockSize, "block", 0, "block size override in samples")
	flag.IntVar(&opts.blocks, "blocks", 8, "number of blocks to run")
	flag.StringVar(&opts.signal, "signal", "impulse", "test signal: impulse, sine, step")
	flag.Float64Var(&opts.freq, "freq", 440, "sine frequency in Hz")
	level := flag.String("log-level", "warn", "log level (debug, info, warn, error)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxinfo [flags] preset-file\n\n")
		fmt.Fprintf(os.Stderr, "Prints per-block levels of a test signal run through an effect chain.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.preset = flag.Arg(0)

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

	if err := run(context.Background(), os.Stdout, opts, log); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// testSignal returns n samples of the named signal at full scale.
func testSignal(name string, n int, freq, sampleRate float64) ([]float64, error) {
	out := make([]float64, n)

	switch strings.ToLower(name) {
	case "impulse":
		if n > 0 {
			out[0] = 1
		}
	case "step":
		for i := range out {
			out[i] = 1
		}
	case "sine":
		w := 2 * math.Pi * freq / sampleRate
		for i := range out {
			out[i] = math.Sin(w * float64(i))
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownSignal, name)
	}

	return out, nil
}

func run(ctx context.Context, w io.Writer, opts options, log logrus.FieldLogger) error {
	preset, err := effectchain.LoadPreset(opts.preset)
	if err != nil {
		return err
	}

	if opts.sampleRate > 0 {
		preset.SampleRate = opts.sampleRate
	}
	if opts.blockSize > 0 {
		preset.BlockSize = opts.blockSize
	}

	pctx := preset.Context()

	irs := irload.New(opts.irDir, irload.WithSampleRate(pctx.SampleRate), irload.WithLogger(log))
	chain, err := effectchain.NewFromPreset(preset,
		effectchain.DefaultRegistry(effectchain.WithIRProvider(irs)),
		effectchain.WithLogger(log))
	if err != nil {
		return err
	}

	input, err := testSignal(opts.signal, opts.blocks*pctx.BlockSize, opts.freq, pctx.SampleRate)
	if err != nil {
		return err
	}

	blockMeter := meter.NewBlockMeter(opts.blocks)
	var (
		levels   []meter.Levels
		response []float64
	)

	sink := stream.SinkFunc(func(block []float64) error {
		levels = append(levels, blockMeter.Observe(block))
		response = append(response, block...)
		return nil
	})

	if _, err := stream.Pump(ctx, pctx.BlockSize, stream.NewSliceSource(input), chain, sink, stream.WithLogger(log)); err != nil {
		return err
	}

	return printReport(w, preset, pctx, blockMeter, levels, response)
}

func printReport(w io.Writer, preset effectchain.Preset, pctx effectchain.Context, m *meter.BlockMeter, levels []meter.Levels, response []float64) error {
	name := preset.Name
	if name == "" {
		name = "(unnamed)"
	}

	fmt.Fprintf(w, "Preset:      %s\n", name)
	fmt.Fprintf(w, "Sample rate: %g Hz\n", pctx.SampleRate)
	fmt.Fprintf(w, "Block size:  %d\n", pctx.BlockSize)

	types := make([]string, 0, len(preset.Nodes))
	for _, n := range preset.Nodes {
		t := n.ID + ":" + n.Type
		if n.Bypassed {
			t += " (bypassed)"
		}
		types = append(types, t)
	}
	fmt.Fprintf(w, "Nodes:       %s\n\n", strings.Join(types, " -> "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Block\tPeak\tPeak pos\tRMS dB\tEnergy\tZero x\t")

	for b, lv := range levels {
		fmt.Fprintf(tw, "%d\t%.4f\t%d\t%s\t%.4g\t%d\t\n",
			b, lv.Peak, lv.PeakPos, formatDB(lv.RMSdB), lv.Energy, lv.ZeroCrossings)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	overall := meter.Calculate(response)
	fmt.Fprintf(w, "\nTotal energy: %.6g\n", overall.Energy)
	fmt.Fprintf(w, "Overall peak: %.4f at sample %d\n", overall.Peak, overall.PeakPos)
	fmt.Fprintf(w, "Overall RMS:  %.4f over %d blocks\n", m.RMS(), m.Blocks())

	if overall.Energy > 0 {
		mag, err := meter.Spectrum(response)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Peak freq:    %.1f Hz\n", meter.PeakFrequency(mag, pctx.SampleRate))
		fmt.Fprintf(w, "Centroid:     %.1f Hz\n", meter.Centroid(mag, pctx.SampleRate))
	}

	return nil
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf"
	}

	return fmt.Sprintf("%.1f", db)
}
