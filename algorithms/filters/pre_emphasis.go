package filters

import "fmt"

// PreEmphasis implements a first-order pre-emphasis filter:
//
//	H(z) = 1 - α*z^-1,   y[n] = x[n] - α*x[n-1]
//
// Pre-emphasis flattens the spectral tilt of voiced speech so that the
// higher formants carry comparable weight in the linear prediction fit.
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
type PreEmphasis struct {
	coefficient float64 // Pre-emphasis coefficient α
	lastSample  float64 // Previous input sample x[n-1]
}

// Content types with empirically chosen coefficients
const (
	ContentSpeech     = "speech"     // α = 0.97
	ContentNarrowband = "narrowband" // α = 0.94
	ContentWideband   = "wideband"   // α = 0.98
	ContentGeneral    = "general"    // α = 0.95
)

// NewPreEmphasis creates a pre-emphasis filter with coefficient α in [0, 1).
// α = 0 passes the signal through unchanged.
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient < 0 || coefficient >= 1 {
		return nil, fmt.Errorf("pre-emphasis coefficient must be in [0, 1): %g", coefficient)
	}
	return &PreEmphasis{coefficient: coefficient}, nil
}

// NewPreEmphasisForContent creates a filter with the coefficient suited to contentType.
func NewPreEmphasisForContent(contentType string) *PreEmphasis {
	return &PreEmphasis{coefficient: OptimalCoefficient(contentType)}
}

// KnownContent reports whether contentType names a preset.
func KnownContent(contentType string) bool {
	switch contentType {
	case ContentSpeech, ContentNarrowband, ContentWideband, ContentGeneral:
		return true
	}
	return false
}

// OptimalCoefficient returns the pre-emphasis coefficient for a content type.
func OptimalCoefficient(contentType string) float64 {
	switch contentType {
	case ContentSpeech:
		return 0.97
	case ContentNarrowband:
		return 0.94
	case ContentWideband:
		return 0.98
	default:
		return 0.95
	}
}

// Coefficient returns α.
func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}

// Process filters a single sample.
func (pe *PreEmphasis) Process(input float64) float64 {
	output := input - pe.coefficient*pe.lastSample
	pe.lastSample = input
	return output
}

// ProcessBuffer filters input into a new slice, continuing from the current state.
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = pe.Process(sample)
	}
	return output
}

// ProcessFrame filters an independent frame as if it were preceded by
// silence, so its first sample passes through unchanged. The streaming
// state is left alone and concurrent calls are safe.
func (pe *PreEmphasis) ProcessFrame(frame []float64) []float64 {
	output := make([]float64, len(frame))
	prev := 0.0
	for i, sample := range frame {
		output[i] = sample - pe.coefficient*prev
		prev = sample
	}
	return output
}

// Reset clears the filter's internal state.
func (pe *PreEmphasis) Reset() {
	pe.lastSample = 0.0
}
