package lpc

import (
	"cmp"
	"errors"
	"math/cmplx"
	"slices"
	"testing"
)

func finders() map[string]RootFinder {
	return map[string]RootFinder{
		"companion":     CompanionRootFinder{},
		"durand-kerner": DurandKernerRootFinder{},
	}
}

func sortRoots(roots []complex128) {
	slices.SortFunc(roots, func(a, b complex128) int {
		if c := cmp.Compare(real(a), real(b)); c != 0 {
			return c
		}
		return cmp.Compare(imag(a), imag(b))
	})
}

func TestRoots_Known(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []float64
		want   []complex128
	}{
		{"distinct real", []float64{1, -3, 2}, []complex128{1, 2}},
		{"conjugate pair", []float64{1, 0, 1}, []complex128{complex(0, -1), complex(0, 1)}},
		{"leading zero", []float64{0, 1, -3, 2}, []complex128{1, 2}},
		{"trailing zero", []float64{1, -1, 0}, []complex128{0, 1}},
		{"quartic", []float64{1, 0, -5, 0, 4}, []complex128{-2, -1, 1, 2}},
	}

	for _, tt := range tests {
		for name, f := range finders() {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				got, err := f.Roots(tt.coeffs)
				if err != nil {
					t.Fatal(err)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("got %d roots %v, want %d", len(got), got, len(tt.want))
				}
				sortRoots(got)
				for i := range got {
					if cmplx.Abs(got[i]-tt.want[i]) > 1e-8 {
						t.Errorf("root %d = %v, want %v", i, got[i], tt.want[i])
					}
				}
			})
		}
	}
}

func TestRoots_FindersAgreeOnLPCPolynomial(t *testing.T) {
	frame := arSignal(512, 700, 0.95, 8000)
	sol, err := LevinsonSolver{}.Solve(Autocorrelate(frame, 10), 10)
	if err != nil {
		t.Fatal(err)
	}

	a, err := CompanionRootFinder{}.Roots(sol.Coefficients)
	if err != nil {
		t.Fatal(err)
	}
	b, err := DurandKernerRootFinder{}.Roots(sol.Coefficients)
	if err != nil {
		t.Fatal(err)
	}

	sortRoots(a)
	sortRoots(b)
	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > 1e-6 {
			t.Errorf("root %d: companion %v, durand-kerner %v", i, a[i], b[i])
		}
	}
}

func TestRoots_Failures(t *testing.T) {
	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			if _, err := f.Roots([]float64{0, 0, 0}); !errors.Is(err, ErrRootSolverFailure) {
				t.Errorf("zero polynomial: err = %v", err)
			}
		})
	}

	dk := DurandKernerRootFinder{MaxIterations: 1, Tolerance: 1e-300}
	if _, err := dk.Roots([]float64{1, -10, 35, -50, 24}); !errors.Is(err, ErrRootSolverFailure) {
		t.Errorf("single iteration: err = %v, want ErrRootSolverFailure", err)
	}
}

func TestNewRootFinder(t *testing.T) {
	for _, name := range []RootFinderName{"", RootFinderCompanion, RootFinderDurandKerner} {
		if _, err := NewRootFinder(name); err != nil {
			t.Errorf("NewRootFinder(%q): %v", name, err)
		}
	}
	if _, err := NewRootFinder("laguerre"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown finder: err = %v", err)
	}
}
