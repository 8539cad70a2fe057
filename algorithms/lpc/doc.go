// Package lpc estimates formant frequencies with linear predictive coding.
//
// The pipeline per frame is: Autocorrelate -> Solver.Solve ->
// FormantExtractor.Extract. Framer supplies the zero-padded frames.
package lpc
