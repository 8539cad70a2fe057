package filters

import (
	"fmt"
	"math"
)

// DCRemoval is a one-pole DC blocking filter:
//
//	H(z) = (1 - z^-1) / (1 - R*z^-1),   y[n] = x[n] - x[n-1] + R*y[n-1]
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCRemoval struct {
	poleLocation float64 // R, 0 < R < 1

	x1 float64 // x[n-1]
	y1 float64 // y[n-1]
}

// NewDCRemoval creates a DC blocker with the given -3 dB cutoff. The pole is
// R = 1 - 2π·fc/fs, so cutoff must lie in (0, fs/2π).
func NewDCRemoval(sampleRate int, cutoffFreq float64) (*DCRemoval, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %d", sampleRate)
	}
	r := 1.0 - 2.0*math.Pi*cutoffFreq/float64(sampleRate)
	if cutoffFreq <= 0 || r <= 0 {
		return nil, fmt.Errorf("dc cutoff %g Hz out of range for %d Hz", cutoffFreq, sampleRate)
	}
	return &DCRemoval{poleLocation: r}, nil
}

// Process filters a single sample.
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer filters input into a new slice, continuing from the current state.
func (dc *DCRemoval) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

// Reset clears the filter state.
func (dc *DCRemoval) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}

// PoleLocation returns R.
func (dc *DCRemoval) PoleLocation() float64 {
	return dc.poleLocation
}

// CutoffFrequency returns the -3 dB cutoff for sampleRate, (1-R)·fs/2π.
func (dc *DCRemoval) CutoffFrequency(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return (1.0 - dc.poleLocation) * float64(sampleRate) / (2.0 * math.Pi)
}

// Response returns the magnitude of H at frequency.
func (dc *DCRemoval) Response(frequency float64, sampleRate int) float64 {
	w := 2.0 * math.Pi * frequency / float64(sampleRate)
	num := math.Hypot(1-math.Cos(w), math.Sin(w))
	den := math.Hypot(1-dc.poleLocation*math.Cos(w), dc.poleLocation*math.Sin(w))
	return num / den
}
