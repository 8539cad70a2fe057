package lpc

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// RootFinderName selects a polynomial root finder.
type RootFinderName string

const (
	RootFinderCompanion    RootFinderName = "companion"
	RootFinderDurandKerner RootFinderName = "durand-kerner"
)

// RootFinder returns every complex root of a polynomial given in descending
// power order: coeffs[0]*z^n + coeffs[1]*z^(n-1) + ... + coeffs[n].
type RootFinder interface {
	Roots(coeffs []float64) ([]complex128, error)
}

// NewRootFinder returns the root finder registered under name. An empty name
// selects the companion-matrix finder.
func NewRootFinder(name RootFinderName) (RootFinder, error) {
	switch name {
	case "", RootFinderCompanion:
		return CompanionRootFinder{}, nil
	case RootFinderDurandKerner:
		return DurandKernerRootFinder{MaxIterations: 500, Tolerance: 1e-12}, nil
	default:
		return nil, fmt.Errorf("%w: unknown root finder %q", ErrInvalidParameter, name)
	}
}

// trimPolynomial strips leading zeros and counts trailing zeros, which are
// roots at the origin.
func trimPolynomial(coeffs []float64) ([]float64, int) {
	start := 0
	for start < len(coeffs) && coeffs[start] == 0 {
		start++
	}
	end := len(coeffs)
	for end > start && coeffs[end-1] == 0 {
		end--
	}
	return coeffs[start:end], len(coeffs) - end
}

// CompanionRootFinder computes roots as the eigenvalues of the polynomial's
// companion matrix.
type CompanionRootFinder struct{}

// Roots implements RootFinder.
func (CompanionRootFinder) Roots(coeffs []float64) ([]complex128, error) {
	poly, zeros := trimPolynomial(coeffs)
	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: zero polynomial", ErrRootSolverFailure)
	}
	for _, c := range poly {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrRootSolverFailure)
		}
	}

	roots := make([]complex128, 0, len(poly)-1+zeros)
	if n := len(poly) - 1; n > 0 {
		companion := mat.NewDense(n, n, nil)
		for j := range n {
			companion.Set(0, j, -poly[j+1]/poly[0])
		}
		for i := 1; i < n; i++ {
			companion.Set(i, i-1, 1)
		}

		var eig mat.Eigen
		if ok := eig.Factorize(companion, mat.EigenNone); !ok {
			return nil, fmt.Errorf("%w: eigen decomposition did not converge", ErrRootSolverFailure)
		}
		roots = append(roots, eig.Values(nil)...)
	}

	for range zeros {
		roots = append(roots, 0)
	}
	return roots, nil
}

// DurandKernerRootFinder finds all roots simultaneously with the
// Durand-Kerner (Weierstrass) iteration.
type DurandKernerRootFinder struct {
	MaxIterations int
	Tolerance     float64
}

// Roots implements RootFinder.
func (d DurandKernerRootFinder) Roots(coeffs []float64) ([]complex128, error) {
	poly, zeros := trimPolynomial(coeffs)
	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: zero polynomial", ErrRootSolverFailure)
	}
	n := len(poly) - 1

	roots := make([]complex128, 0, n+zeros)
	if n > 0 {
		found, err := d.iterate(poly)
		if err != nil {
			return nil, err
		}
		roots = append(roots, found...)
	}

	for range zeros {
		roots = append(roots, 0)
	}
	return roots, nil
}

func (d DurandKernerRootFinder) iterate(poly []float64) ([]complex128, error) {
	n := len(poly) - 1
	maxIter := d.MaxIterations
	if maxIter <= 0 {
		maxIter = 500
	}
	tol := d.Tolerance
	if tol <= 0 {
		tol = 1e-12
	}

	norm := make([]complex128, len(poly))
	for i, c := range poly {
		norm[i] = complex(c/poly[0], 0)
	}

	// Start on a circle enclosing every root, rotated off the real axis.
	radius := 1.0
	for _, c := range norm[1:] {
		radius = math.Max(radius, cmplx.Abs(c))
	}
	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = cmplx.Rect(r, angle)
	}

	for range maxIter {
		maxDelta := 0.0
		for i := range n {
			den := complex(1, 0)
			for j := range n {
				if i != j {
					den *= roots[i] - roots[j]
				}
			}
			if den == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := evalPolynomial(norm, roots[i]) / den
			roots[i] -= delta
			maxDelta = math.Max(maxDelta, cmplx.Abs(delta))
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	for _, r := range roots {
		if res := cmplx.Abs(evalPolynomial(norm, r)); res > 1e-6 || cmplx.IsNaN(r) {
			return nil, fmt.Errorf("%w: residual %g after %d iterations", ErrRootSolverFailure, res, maxIter)
		}
	}
	return roots, nil
}

// evalPolynomial evaluates a descending-order polynomial with Horner's method.
func evalPolynomial(coeffs []complex128, x complex128) complex128 {
	v := coeffs[0]
	for _, c := range coeffs[1:] {
		v = v*x + c
	}
	return v
}
