package analysis

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of the analysis metrics.
const meterName = "github.com/RyanBlaney/sonido-formants/analysis"

// Metrics holds the OpenTelemetry instruments recorded by an Analyzer.
// A nil *Metrics records nothing.
type Metrics struct {
	// Frames counts analyzed frames. Attribute "status" is one of
	// ok, empty, singular, root_failure, invalid.
	Frames metric.Int64Counter

	// RunDuration tracks the wall time of Analyze in seconds.
	RunDuration metric.Float64Histogram
}

var durationBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10,
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Frames, err = m.Int64Counter("formants.frames",
		metric.WithDescription("Frames analyzed, by outcome."),
	); err != nil {
		return nil, err
	}
	if met.RunDuration, err = m.Float64Histogram("formants.analysis.duration",
		metric.WithDescription("Wall time of one formant analysis run."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

func (m *Metrics) recordFrame(ctx context.Context, f FrameResult) {
	if m == nil {
		return
	}
	status := string(f.Status)
	if f.Status == StatusOK && len(f.Formants) == 0 {
		status = "empty"
	}
	m.Frames.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) recordRun(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.RunDuration.Record(ctx, seconds)
}
