package lpc

import "gonum.org/v1/gonum/floats"

// Autocorrelate returns lags 0..order of the unnormalized autocorrelation of
// frame: r[k] = sum over n of frame[n]*frame[n+k]. Lags at or beyond the
// frame length are zero. The result always has order+1 entries.
func Autocorrelate(frame []float64, order int) []float64 {
	if order < 0 {
		order = 0
	}

	r := make([]float64, order+1)
	n := len(frame)
	for k := 0; k <= order && k < n; k++ {
		r[k] = floats.Dot(frame[:n-k], frame[k:])
	}

	return r
}
