// Package windowing provides analysis windows applied to a frame before
// autocorrelation. Coefficients come from github.com/mjibson/go-dsp/window.
package windowing

import (
	"fmt"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Type names a window function.
type Type string

const (
	Rectangular Type = "rectangular"
	Hamming     Type = "hamming"
	Hann        Type = "hann"
	Bartlett    Type = "bartlett"
	Blackman    Type = "blackman"
	FlatTop     Type = "flattop"
)

var generators = map[Type]func(int) []float64{
	Rectangular: window.Rectangular,
	Hamming:     window.Hamming,
	Hann:        window.Hann,
	Bartlett:    window.Bartlett,
	Blackman:    window.Blackman,
	FlatTop:     window.FlatTop,
}

// Window is a precomputed window of a fixed size.
type Window struct {
	kind         Type
	size         int
	coefficients []float64
}

// New creates a window of the given type and size. An empty type selects
// the rectangular window.
func New(kind Type, size int) (*Window, error) {
	if kind == "" {
		kind = Rectangular
	}
	gen, ok := generators[kind]
	if !ok {
		return nil, fmt.Errorf("unknown window type %q", kind)
	}
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", size)
	}

	return &Window{
		kind:         kind,
		size:         size,
		coefficients: gen(size),
	}, nil
}

// Supported reports whether kind names a known window.
func Supported(kind Type) bool {
	if kind == "" {
		return true
	}
	_, ok := generators[kind]
	return ok
}

// Apply returns a windowed copy of signal.
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	windowed := make([]float64, w.size)
	floats.MulTo(windowed, signal, w.coefficients)
	return windowed, nil
}

// ApplyInPlace applies the window to signal in place.
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	floats.Mul(signal, w.coefficients)
	return nil
}

// IsIdentity reports whether applying the window leaves samples unchanged.
func (w *Window) IsIdentity() bool {
	return w.kind == Rectangular
}

// GetCoefficients returns a copy of the window coefficients
func (w *Window) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetSize returns the window size
func (w *Window) GetSize() int {
	return w.size
}

// GetType returns the window type
func (w *Window) GetType() Type {
	return w.kind
}
