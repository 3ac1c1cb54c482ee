// Command imager renders audio through the stereo imager and reports its
// phase correlation.
//
// Usage:
//
//	imager [flags]
//
// Without -in it renders a slightly detuned stereo test tone. Without -out
// the processed audio is discarded and only the analysis is reported.
//
// Examples:
//
//	imager -in mix.wav -out wide.wav -width 80
//	imager -preset preset.json -in mix.wav -out out.wav
//	imager -seconds 2 -crossfeed 0.3 -v
//	imager -fft 4096 -window blackman
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/cwbudde/imagination"
	"github.com/cwbudde/imagination/analysis"
	"github.com/cwbudde/imagination/dsp/core"
	"github.com/cwbudde/imagination/dsp/window"
	"github.com/cwbudde/imagination/host/beepstream"
	"github.com/cwbudde/imagination/param"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// paramFlags maps command-line flag names to parameter identifiers.
var paramFlags = []struct {
	flag  string
	id    param.ID
	usage string
}{
	{"width", param.Width, "stereo width in percent (50 = unchanged)"},
	{"balance", param.Balance, "balance, -1 (left) .. 1 (right)"},
	{"input-gain", param.InputGain, "input gain in dB"},
	{"output-gain", param.OutputGain, "output gain in dB"},
	{"mid-side", param.MidSide, "mid/side blend, -1 .. 1"},
	{"crossfeed", param.Crossfeed, "crossfeed amount, 0 .. 1"},
	{"exciter", param.ExciterEnhancer, "exciter amount in percent"},
	{"spread", param.StereoSpread, "stereo spread in percent"},
}

type options struct {
	in, out   string
	preset    string
	blockSize int
	rate      float64
	fftSize   int
	window    window.Type
	seconds   float64
	verbose   bool
	values    map[param.ID]*float64
	set       map[param.ID]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "imager: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("imager", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := core.DefaultProcessorConfig()

	opts := options{
		values: make(map[param.ID]*float64, len(paramFlags)),
		set:    make(map[param.ID]bool),
	}

	fs.StringVar(&opts.in, "in", "", "input WAV file (default: synthesized test tone)")
	fs.StringVar(&opts.out, "out", "", "output WAV file")
	fs.StringVar(&opts.preset, "preset", "", "JSON preset of parameter id to value")
	fs.IntVar(&opts.blockSize, "block", defaults.BlockSize, "processing block size in frames (<= 0 selects the default)")
	fs.Float64Var(&opts.rate, "rate", analysis.DefaultMeterRate, "meter rate in Hz")
	fs.IntVar(&opts.fftSize, "fft", 2048, "spectrum FFT size")
	windowName := fs.String("window", window.TypeHann.String(), "spectrum analysis window (rectangular, hann, hamming, blackman, blackman-harris)")
	fs.Float64Var(&opts.seconds, "seconds", 1, "test tone length when -in is not given")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")

	for _, pf := range paramFlags {
		spec, _ := param.Lookup(pf.id)
		opts.values[pf.id] = fs.Float64(pf.flag, spec.Default, pf.usage)
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		for _, pf := range paramFlags {
			if pf.flag == f.Name {
				opts.set[pf.id] = true
			}
		}
	})

	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w, err := window.ParseType(*windowName)
	if err != nil {
		return options{}, err
	}

	opts.window = w

	return opts, nil
}

func newLogger(stderr io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(stderr)

	colors := false
	if f, ok := stderr.(*os.File); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}

	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: !colors,
		FullTimestamp: true,
	})

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, opts.verbose)
	log := logrus.NewEntry(logger)

	features := cpu.DetectFeatures()
	log.WithFields(logrus.Fields{
		"arch":   features.Architecture,
		"sse2":   features.HasSSE2,
		"avx2":   features.HasAVX2,
		"avx512": features.HasAVX512,
		"neon":   features.HasNEON,
	}).Debug("cpu features")

	store, err := loadParams(opts)
	if err != nil {
		return err
	}

	src, format, closeSrc, err := openSource(opts)
	if err != nil {
		return err
	}
	defer closeSrc()

	p, err := imagination.New(imagination.WithStore(store), imagination.WithLogger(log))
	if err != nil {
		return err
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(format.SampleRate)),
		core.WithBlockSize(opts.blockSize),
		core.WithChannels(format.NumChannels),
	)

	if err := p.Prepare(cfg.SampleRate, cfg.BlockSize, cfg.Channels); err != nil {
		return err
	}

	stream, err := beepstream.New(src, p, cfg.BlockSize)
	if err != nil {
		return err
	}

	spectrum, err := analysis.NewSpectrumAnalyzer(float64(format.SampleRate), opts.fftSize,
		analysis.WithWindow(opts.window))
	if err != nil {
		return err
	}

	meter, err := analysis.NewMeter(p.Snapshots(),
		analysis.WithRate(opts.rate),
		analysis.WithLogger(log),
		analysis.WithSpectrum(spectrum),
		analysis.WithScope(analysis.NewScope(0, 0)),
	)
	if err != nil {
		return err
	}

	levels := analysis.NewLevels()
	tap := newLevelTap(stream, levels, format.NumChannels == 1)

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	renderCtx, renderDone := context.WithCancel(gctx)

	g.Go(func() error {
		return meter.Run(renderCtx)
	})

	g.Go(func() error {
		defer renderDone()
		return render(renderCtx, tap, format, opts.out)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// Pick up the final block.
	meter.Step()

	log.WithFields(logrus.Fields{
		"blocks":  p.Snapshots().Published(),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("render finished")

	return report(stdout, store, meter.Analyzer(), spectrum, levels)
}

func loadParams(opts options) (*param.Store, error) {
	store := param.NewStore()

	if opts.preset != "" {
		data, err := os.ReadFile(opts.preset)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}

		var values map[string]float64
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse preset %s: %w", opts.preset, err)
		}

		if err := store.Restore(values); err != nil {
			return nil, fmt.Errorf("apply preset %s: %w", opts.preset, err)
		}
	}

	for id := range opts.set {
		if err := store.Set(id, *opts.values[id]); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func openSource(opts options) (beep.Streamer, beep.Format, func(), error) {
	if opts.in == "" {
		format := beep.Format{SampleRate: 48000, NumChannels: 2, Precision: 2}
		length := format.SampleRate.N(time.Duration(opts.seconds * float64(time.Second)))

		return newTestTone(float64(format.SampleRate), length), format, func() {}, nil
	}

	f, err := os.Open(opts.in)
	if err != nil {
		return nil, beep.Format{}, nil, fmt.Errorf("open input: %w", err)
	}

	s, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("decode %s: %w", opts.in, err)
	}

	return s, format, func() { _ = s.Close() }, nil
}

func render(ctx context.Context, stream beep.Streamer, format beep.Format, out string) error {
	src := beep.Streamer(&cancelable{ctx: ctx, s: stream})

	if out == "" {
		buf := make([][2]float64, 1024)
		for {
			if _, ok := src.Stream(buf); !ok {
				break
			}
		}

		return stream.Err()
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := wav.Encode(f, src, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	return stream.Err()
}

// cancelable ends a stream once ctx is done.
type cancelable struct {
	ctx context.Context
	s   beep.Streamer
}

func (c *cancelable) Stream(samples [][2]float64) (int, bool) {
	if c.ctx.Err() != nil {
		return 0, false
	}

	return c.s.Stream(samples)
}

func (c *cancelable) Err() error { return c.s.Err() }

func report(w io.Writer, store *param.Store, a *analysis.CorrelationAnalyzer, spectrum *analysis.SpectrumAnalyzer, levels *analysis.Levels) error {
	for _, spec := range param.Specs() {
		text, err := store.Format(spec.ID)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "%-16s %s\n", spec.Name, text); err != nil {
			return err
		}
	}

	history := a.History()

	mean := 0.0
	for _, v := range history {
		mean += v
	}

	if len(history) > 0 {
		mean /= float64(len(history))
	}

	_, err := fmt.Fprintf(w, "correlation      %.3f (%s, mean %.3f over %d readings)\n",
		a.Correlation(), a.State(), mean, len(history))
	if err != nil {
		return err
	}

	for _, ch := range []struct {
		name string
		lv   analysis.ChannelLevels
	}{{"left", levels.Left()}, {"right", levels.Right()}} {
		if ch.lv.Frames == 0 {
			continue
		}

		_, err := fmt.Fprintf(w, "%-16s peak %.1f dBFS, rms %.1f dBFS, crest %.1f dB\n",
			ch.name, ch.lv.PeakDB, ch.lv.RMSDB, ch.lv.CrestDB)
		if err != nil {
			return err
		}
	}

	if !spectrum.Ready() {
		return nil
	}

	left := spectrum.Left(nil)
	peak := 1

	for k := 1; k < len(left); k++ {
		if left[k] > left[peak] {
			peak = k
		}
	}

	_, err = fmt.Fprintf(w, "spectrum peak    %.1f Hz at %.1f dBFS\n", spectrum.BinFrequency(peak), left[peak])

	return err
}
