// Command formants estimates per-frame formant frequencies of an audio file.
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
	"strings"
	"syscall"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/RyanBlaney/sonido-formants/algorithms/lpc"
	"github.com/RyanBlaney/sonido-formants/algorithms/windowing"
	"github.com/RyanBlaney/sonido-formants/analysis"
	"github.com/RyanBlaney/sonido-formants/config"
	"github.com/RyanBlaney/sonido-formants/logging"
	"github.com/RyanBlaney/sonido-formants/transcode"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("formants", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: formants [flags] <audio file | ->\n")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to a YAML configuration file")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	showMetrics := fs.Bool("metrics", false, "log frame outcome counters after the run")
	logLevel := fs.String("log-level", "", "override log level (debug, info, warn, error)")
	order := fs.Int("order", 0, "override LPC order")
	frameLength := fs.Int("frame-length", 0, "override frame length in samples")
	frameShift := fs.Int("frame-shift", 0, "override frame shift in samples")
	window := fs.String("window", "", "override analysis window")
	solver := fs.String("solver", "", "override solver (levinson, cholesky)")
	finder := fs.String("root-finder", "", "override root finder (companion, durand-kerner)")
	workers := fs.Int("workers", -1, "override worker count (0 = GOMAXPROCS)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	// ── Configuration ─────────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "formants: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "order":
			cfg.Analysis.Order = *order
		case "frame-length":
			cfg.Analysis.FrameLength = *frameLength
		case "frame-shift":
			cfg.Analysis.FrameShift = *frameShift
		case "window":
			cfg.Analysis.Window = windowing.Type(*window)
		case "solver":
			cfg.Analysis.Solver = lpc.Method(*solver)
		case "root-finder":
			cfg.Analysis.RootFinder = lpc.RootFinderName(*finder)
		case "workers":
			cfg.Analysis.Workers = *workers
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "formants: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// stdout carries the result, so every level logs to stderr.
	logger := logging.NewDefaultLoggerWithWriters(stderr, stderr)
	logger.SetLevel(cfg.Level())
	logging.SetGlobalLogger(logger)

	// ── Metrics ───────────────────────────────────────────────────────────────
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(resource.NewSchemaless(attribute.String("service.name", "formants"))),
	)
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := analysis.NewMetrics(mp)
	if err != nil {
		logger.Error(err, "Failed to create metrics")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Load and analyze ──────────────────────────────────────────────────────
	audio, err := loadAudio(ctx, transcode.NewFileLoader(&cfg.Decoder), path, stdin)
	if err != nil {
		if errors.Is(err, transcode.ErrDecoderUnavailable) {
			fmt.Fprintf(stderr, "formants: %q needs ffmpeg: install it or set decoder.ffmpeg_path and decoder.ffprobe_path\n", path)
		}
		logger.Error(err, "Failed to load audio", logging.Fields{"filename": path})
		return 1
	}
	logger.Debug("Audio loaded", logging.Fields{
		"filename":    path,
		"sample_rate": audio.SampleRate,
		"samples":     len(audio.PCM),
		"format":      audio.Format,
	})

	analyzer, err := analysis.New(cfg.Analysis,
		analysis.WithMetrics(metrics),
		analysis.WithLogger(logger.WithFields(logging.Fields{"component": "formant_analyzer"})),
	)
	if err != nil {
		logger.Error(err, "Invalid analysis configuration")
		return 1
	}

	result, err := analyzer.Analyze(ctx, analysis.Waveform{Samples: audio.PCM, SampleRate: audio.SampleRate})
	if err != nil {
		logger.Error(err, "Analysis failed", logging.Fields{"filename": path})
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			logger.Error(err, "Failed to write result")
			return 1
		}
	} else {
		writeText(stdout, result)
	}

	if *showMetrics {
		logFrameCounts(ctx, reader, logger)
	}
	return 0
}

// loadAudio reads path, or stdin when path is "-".
func loadAudio(ctx context.Context, loader transcode.Loader, path string, stdin io.Reader) (*transcode.AudioData, error) {
	if path != "-" {
		return loader.Load(ctx, path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return loader.LoadBytes(ctx, data)
}

// writeText prints one line per frame: index, start time and formant
// frequencies, or the failure status.
func writeText(w io.Writer, result *analysis.Result) {
	for _, f := range result.Frames {
		fmt.Fprintf(w, "%5d %8.3fs ", f.Index, f.Time)
		if f.Failed() {
			fmt.Fprintf(w, "%s\n", f.Status)
			continue
		}
		freqs := make([]string, len(f.Formants))
		for i, fm := range f.Formants {
			freqs[i] = fmt.Sprintf("%.1f", fm.Frequency)
		}
		fmt.Fprintln(w, strings.Join(freqs, " "))
	}

	s := result.Summary
	fmt.Fprintf(w, "# frames=%d failed=%d empty=%d mean_formants=%.2f mean_f1=%.1f\n",
		s.Frames, s.Failed, s.Empty, s.MeanFormants, s.MeanF1)
}

func logFrameCounts(ctx context.Context, reader *metric.ManualReader, logger logging.Logger) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		logger.Warn("Failed to collect metrics", logging.Fields{"error": err.Error()})
		return
	}

	counts := logging.Fields{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || m.Name != "formants.frames" {
				continue
			}
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value("status")
				counts[status.AsString()] = dp.Value
			}
		}
	}
	logger.Info("Frame outcomes", counts)
}
