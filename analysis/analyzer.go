// Package analysis runs the LPC formant pipeline over a whole waveform:
// framing, per-frame conditioning, autocorrelation, the normal-equation
// solve and root-based formant extraction.
//
// Frames are independent. They are analyzed on a bounded worker pool and
// reassembled in frame order. A numerical failure in one frame is recorded
// on that frame's FrameResult and never aborts the run; only configuration
// errors and context cancellation do.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-formants/algorithms/filters"
	"github.com/RyanBlaney/sonido-formants/algorithms/lpc"
	"github.com/RyanBlaney/sonido-formants/algorithms/windowing"
	"github.com/RyanBlaney/sonido-formants/logging"
)

// Analyzer estimates per-frame formants. It is safe for concurrent use.
type Analyzer struct {
	config      Config
	solver      lpc.Solver
	finder      lpc.RootFinder
	preEmphasis *filters.PreEmphasis // nil when disabled
	window      *windowing.Window
	metrics     *Metrics
	metricsSet  bool
	logger      logging.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithMetrics records to m instead of the global meter provider. A nil m
// disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
		a.metricsSet = true
	}
}

// WithLogger replaces the package logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithSolver overrides the solver named in the config.
func WithSolver(s lpc.Solver) Option {
	return func(a *Analyzer) { a.solver = s }
}

// WithRootFinder overrides the root finder named in the config.
func WithRootFinder(f lpc.RootFinder) Option {
	return func(a *Analyzer) { a.finder = f }
}

// New validates cfg and builds an Analyzer. Configuration problems return
// an error matching lpc.ErrInvalidParameter.
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	solver, err := lpc.NewSolver(cfg.Solver)
	if err != nil {
		return nil, err
	}
	finder, err := lpc.NewRootFinder(cfg.RootFinder)
	if err != nil {
		return nil, err
	}

	preEmphasis, err := cfg.preEmphasisFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lpc.ErrInvalidParameter, err)
	}
	window, err := windowing.New(cfg.Window, cfg.FrameLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lpc.ErrInvalidParameter, err)
	}

	a := &Analyzer{
		config:      cfg,
		solver:      solver,
		finder:      finder,
		preEmphasis: preEmphasis,
		window:      window,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.WithFields(logging.Fields{"component": "formant_analyzer"})
	}
	if !a.metricsSet {
		metrics, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			a.logger.Warn("Metrics disabled", logging.Fields{"error": err.Error()})
		}
		a.metrics = metrics
	}
	return a, nil
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() Config {
	return a.config
}

func (a *Analyzer) workers() int {
	if a.config.Workers > 0 {
		return a.config.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Analyze returns one FrameResult per frame, ceil(len(samples)/shift) in
// total. It fails only for an invalid waveform or a cancelled context.
func (a *Analyzer) Analyze(ctx context.Context, w Waveform) (*Result, error) {
	started := time.Now()
	logger := a.logger.WithContext(ctx)

	if w.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive: %d", lpc.ErrInvalidParameter, w.SampleRate)
	}

	samples := w.Samples
	if a.config.DCCutoff > 0 {
		dc, err := filters.NewDCRemoval(w.SampleRate, a.config.DCCutoff)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", lpc.ErrInvalidParameter, err)
		}
		samples = dc.ProcessBuffer(samples)
	}

	framer, err := lpc.NewFramer(samples, a.config.FrameLength, a.config.FrameShift)
	if err != nil {
		return nil, err
	}
	extractor, err := lpc.NewFormantExtractor(w.SampleRate, a.finder,
		lpc.WithMinFrequency(a.config.MinFrequency),
		lpc.WithMaxBandwidth(a.config.MaxBandwidth),
	)
	if err != nil {
		return nil, err
	}
	n := framer.NumFrames()
	frames := make([]FrameResult, n)
	analyze := func(i int) {
		frames[i] = a.analyzeFrame(framer.Frame(i), w.SampleRate, extractor)
		a.metrics.recordFrame(ctx, frames[i])
		if frames[i].Failed() {
			logger.Debug("Frame analysis failed", logging.Fields{
				"frame":  i,
				"status": frames[i].Status,
				"reason": frames[i].Reason,
			})
		}
	}

	if workers := a.workers(); workers <= 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			analyze(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range n {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				analyze(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	result := &Result{
		SampleRate: w.SampleRate,
		Config:     a.config,
		Frames:     frames,
		Summary:    summarize(frames),
	}

	elapsed := time.Since(started)
	a.metrics.recordRun(ctx, elapsed.Seconds())
	logger.Info("Formant analysis completed", logging.Fields{
		"frames":        result.Summary.Frames,
		"failed_frames": result.Summary.Failed,
		"empty_frames":  result.Summary.Empty,
		"padding":       framer.Padding(),
		"duration_ms":   elapsed.Milliseconds(),
	})

	return result, nil
}

// analyzeFrame runs conditioning, autocorrelation, solve and extraction for
// one frame. Numerical failures are captured on the result.
func (a *Analyzer) analyzeFrame(frame lpc.Frame, sampleRate int, extractor *lpc.FormantExtractor) FrameResult {
	res := FrameResult{
		Index:    frame.Index,
		Start:    frame.Start,
		Time:     float64(frame.Start) / float64(sampleRate),
		Formants: []lpc.Formant{},
		Status:   StatusOK,
	}

	samples := frame.Samples
	if a.preEmphasis != nil {
		samples = a.preEmphasis.ProcessFrame(samples)
	}
	if !a.window.IsIdentity() {
		windowed, err := a.window.Apply(samples)
		if err != nil {
			return res.fail(fmt.Errorf("%w: %v", lpc.ErrInvalidParameter, err))
		}
		samples = windowed
	}

	r := lpc.Autocorrelate(samples, a.config.Order)
	sol, err := a.solver.Solve(r, a.config.Order)
	if err != nil {
		return res.fail(err)
	}
	res.Coefficients = sol.Coefficients

	formants, err := extractor.Extract(sol.Coefficients)
	if err != nil {
		return res.fail(err)
	}
	res.Formants = formants
	return res
}

func (f FrameResult) fail(err error) FrameResult {
	f.Err = err
	f.Status = statusOf(err)
	f.Reason = err.Error()
	return f
}
