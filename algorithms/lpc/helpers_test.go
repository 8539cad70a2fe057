package lpc

import "math"

func almostEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if mag := math.Max(math.Abs(a), math.Abs(b)); mag > 1 {
		return diff/mag < tol
	}
	return diff < tol
}

// arSignal generates a deterministic AR(2) resonance at freq Hz excited by a
// pseudo-random sequence.
func arSignal(n int, freq, radius float64, sampleRate int) []float64 {
	theta := 2 * math.Pi * freq / float64(sampleRate)
	a1 := 2 * radius * math.Cos(theta)
	a2 := -radius * radius

	out := make([]float64, n)
	seed := uint32(12345)
	for i := range out {
		seed = seed*1664525 + 1013904223
		e := float64(seed)/float64(math.MaxUint32) - 0.5
		out[i] = e
		if i >= 1 {
			out[i] += a1 * out[i-1]
		}
		if i >= 2 {
			out[i] += a2 * out[i-2]
		}
	}
	return out
}

func sines(n, sampleRate int, freqs ...float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		for _, f := range freqs {
			out[i] += math.Sin(2 * math.Pi * f * t)
		}
	}
	return out
}
