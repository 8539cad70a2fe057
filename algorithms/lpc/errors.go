package lpc

import "errors"

var (
	// ErrInvalidParameter reports a configuration that cannot be analyzed
	// (non-positive order, frame length or shift, or order >= frame length).
	ErrInvalidParameter = errors.New("lpc: invalid parameter")

	// ErrSingularSystem reports an autocorrelation matrix that is singular or
	// too ill-conditioned to solve for the requested order.
	ErrSingularSystem = errors.New("lpc: singular system")

	// ErrRootSolverFailure reports a polynomial root finder that did not converge.
	ErrRootSolverFailure = errors.New("lpc: root solver failure")
)
