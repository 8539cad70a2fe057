// Package synth generates deterministic additive test signals: sums of
// sine, triangle, square or sawtooth partials.
package synth

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Shape is a periodic waveform shape.
type Shape string

const (
	Sine     Shape = "sine"
	Triangle Shape = "triangle"
	Square   Shape = "square"
	Sawtooth Shape = "sawtooth"
)

// Partial is one periodic component of a signal.
type Partial struct {
	Frequency float64 `json:"frequency" yaml:"frequency"` // Hz
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	Shape     Shape   `json:"shape" yaml:"shape"` // empty means sine
}

// Segment is a run of partials played for a fixed duration.
type Segment struct {
	Duration float64   `json:"duration" yaml:"duration"` // seconds
	Partials []Partial `json:"partials" yaml:"partials"`
}

// Synthesizer renders partials at a fixed sample rate.
type Synthesizer struct {
	sampleRate int
}

// New creates a synthesizer.
func New(sampleRate int) (*Synthesizer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %d", sampleRate)
	}
	return &Synthesizer{sampleRate: sampleRate}, nil
}

// SampleRate returns the output sample rate in Hz.
func (s *Synthesizer) SampleRate() int {
	return s.sampleRate
}

// Samples returns the number of samples covering duration seconds.
func (s *Synthesizer) Samples(duration float64) int {
	if duration <= 0 {
		return 0
	}
	return int(float64(s.sampleRate) * duration)
}

// Generate sums the partials over duration seconds.
func (s *Synthesizer) Generate(duration float64, partials ...Partial) ([]float64, error) {
	out := make([]float64, s.Samples(duration))
	for _, p := range partials {
		wave, err := s.render(len(out), p)
		if err != nil {
			return nil, err
		}
		floats.Add(out, wave)
	}
	return out, nil
}

// Sequence renders segments back to back.
func (s *Synthesizer) Sequence(segments ...Segment) ([]float64, error) {
	var out []float64
	for _, seg := range segments {
		wave, err := s.Generate(seg.Duration, seg.Partials...)
		if err != nil {
			return nil, err
		}
		out = append(out, wave...)
	}
	return out, nil
}

func (s *Synthesizer) render(n int, p Partial) ([]float64, error) {
	out := make([]float64, n)
	fs := float64(s.sampleRate)

	for i := range out {
		t := float64(i) / fs
		phase := 2 * math.Pi * p.Frequency * t

		var v float64
		switch p.Shape {
		case "", Sine:
			v = math.Sin(phase)
		case Triangle:
			v = 2 * math.Asin(math.Sin(phase)) / math.Pi
		case Square:
			v = sign(math.Sin(phase))
		case Sawtooth:
			v = 2 * (t*p.Frequency - math.Floor(t*p.Frequency+0.5))
		default:
			return nil, fmt.Errorf("unknown waveform shape %q", p.Shape)
		}
		out[i] = p.Amplitude * v
	}
	return out, nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Normalize scales signal in place so its peak magnitude is 1. A silent
// signal is left untouched.
func Normalize(signal []float64) {
	peak := 0.0
	for _, v := range signal {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0 {
		floats.Scale(1/peak, signal)
	}
}
