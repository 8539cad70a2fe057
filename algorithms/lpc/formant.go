package lpc

import (
	"cmp"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

const (
	// imagEpsilon is the band around the real axis inside which a root is
	// treated as real, so floating-point jitter cannot admit both members of
	// a near-real conjugate pair.
	imagEpsilon = 1e-10

	// originEpsilon drops roots at the origin, whose angle is undefined.
	originEpsilon = 1e-12
)

// Formant is one resonance derived from a root of the prediction polynomial.
type Formant struct {
	Frequency float64 `json:"frequency"` // Hz
	Bandwidth float64 `json:"bandwidth"` // Hz, -fs/π·ln|z|
	Magnitude float64 `json:"magnitude"` // |z|
}

// FormantExtractor converts LPC coefficient vectors to formant sets.
type FormantExtractor struct {
	sampleRate   int
	finder       RootFinder
	minFrequency float64
	maxBandwidth float64
}

// ExtractorOption customizes a FormantExtractor.
type ExtractorOption func(*FormantExtractor)

// WithMinFrequency discards formants below hz.
func WithMinFrequency(hz float64) ExtractorOption {
	return func(f *FormantExtractor) { f.minFrequency = hz }
}

// WithMaxBandwidth discards formants broader than hz. Zero keeps all.
func WithMaxBandwidth(hz float64) ExtractorOption {
	return func(f *FormantExtractor) { f.maxBandwidth = hz }
}

// NewFormantExtractor creates an extractor for the given sample rate. A nil
// finder selects the companion-matrix root finder.
func NewFormantExtractor(sampleRate int, finder RootFinder, opts ...ExtractorOption) (*FormantExtractor, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive: %d", ErrInvalidParameter, sampleRate)
	}
	if finder == nil {
		finder = CompanionRootFinder{}
	}

	f := &FormantExtractor{
		sampleRate: sampleRate,
		finder:     finder,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Nyquist returns half the sample rate.
func (f *FormantExtractor) Nyquist() float64 {
	return float64(f.sampleRate) / 2
}

// Extract roots the polynomial with the given coefficients and returns the
// resonances in [0, Nyquist), sorted by ascending frequency. Only roots in
// the upper half plane (or on the real axis) contribute.
func (f *FormantExtractor) Extract(coeffs []float64) ([]Formant, error) {
	roots, err := f.finder.Roots(coeffs)
	if err != nil {
		return nil, err
	}

	fs := float64(f.sampleRate)
	nyquist := f.Nyquist()
	formants := make([]Formant, 0, len(roots)/2+1)

	for _, z := range roots {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return nil, fmt.Errorf("%w: non-finite root %v", ErrRootSolverFailure, z)
		}

		mag := cmplx.Abs(z)
		if mag < originEpsilon {
			continue
		}

		im := imag(z)
		if math.Abs(im) <= imagEpsilon {
			im = 0
		} else if im < 0 {
			continue
		}

		freq := math.Atan2(im, real(z)) * fs / (2 * math.Pi)
		if freq < 0 || freq >= nyquist || freq < f.minFrequency {
			continue
		}

		bw := -math.Log(mag) * fs / math.Pi
		if f.maxBandwidth > 0 && bw > f.maxBandwidth {
			continue
		}

		formants = append(formants, Formant{
			Frequency: freq,
			Bandwidth: bw,
			Magnitude: mag,
		})
	}

	slices.SortStableFunc(formants, func(a, b Formant) int {
		return cmp.Compare(a.Frequency, b.Frequency)
	})
	return formants, nil
}

// Frequencies returns the frequencies of formants in order.
func Frequencies(formants []Formant) []float64 {
	out := make([]float64, len(formants))
	for i, fm := range formants {
		out[i] = fm.Frequency
	}
	return out
}
