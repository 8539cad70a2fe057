package lpc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Method names a linear solver for the autocorrelation normal equations.
type Method string

const (
	MethodLevinson Method = "levinson"
	MethodCholesky Method = "cholesky"
)

const (
	// singularTolerance is the smallest prediction error energy, relative to
	// r[0], that is still treated as a solvable system.
	singularTolerance = 1e-12

	// maxCondition bounds the condition number accepted by the direct solver.
	maxCondition = 1e12
)

// Solution holds the result of solving R·a = r for one frame.
type Solution struct {
	// Coefficients is the prediction-error filter A(z) = 1 - sum a_k z^-k as
	// [1, -a_1, ..., -a_p]. Its roots are the poles of the all-pole model.
	Coefficients []float64 `json:"coefficients"`

	// Predictor holds a_1..a_p, the solution of R·a = r.
	Predictor []float64 `json:"predictor"`

	// Reflection holds k_1..k_p. Only the Levinson-Durbin solver fills it.
	Reflection []float64 `json:"reflection,omitempty"`

	// PredictionError is the residual energy r[0] - sum a_k r[k].
	PredictionError float64 `json:"prediction_error"`

	Order int `json:"order"`
}

// Solver solves the symmetric Toeplitz normal equations built from an
// autocorrelation vector.
type Solver interface {
	Solve(r []float64, order int) (*Solution, error)
}

// NewSolver returns the solver registered under method. An empty method
// selects Levinson-Durbin.
func NewSolver(method Method) (Solver, error) {
	switch method {
	case "", MethodLevinson:
		return LevinsonSolver{}, nil
	case MethodCholesky:
		return CholeskySolver{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown solver %q", ErrInvalidParameter, method)
	}
}

func checkAutocorrelation(r []float64, order int) error {
	if order <= 0 {
		return fmt.Errorf("%w: order must be positive: %d", ErrInvalidParameter, order)
	}
	if len(r) < order+1 {
		return fmt.Errorf("%w: need %d autocorrelation lags, got %d", ErrInvalidParameter, order+1, len(r))
	}
	if !(r[0] > 0) || math.IsInf(r[0], 0) {
		return fmt.Errorf("%w: zero-lag energy %g", ErrSingularSystem, r[0])
	}
	return nil
}

func newSolution(predictor []float64, r []float64) *Solution {
	p := len(predictor)
	coeffs := make([]float64, p+1)
	coeffs[0] = 1.0

	residual := r[0]
	for i, a := range predictor {
		coeffs[i+1] = -a
		residual -= a * r[i+1]
	}

	return &Solution{
		Coefficients:    coeffs,
		Predictor:       predictor,
		PredictionError: residual,
		Order:           p,
	}
}

// LevinsonSolver solves the system with the Levinson-Durbin recursion in
// O(order²).
type LevinsonSolver struct{}

// Solve implements Solver.
func (LevinsonSolver) Solve(r []float64, order int) (*Solution, error) {
	if err := checkAutocorrelation(r, order); err != nil {
		return nil, err
	}

	a := make([]float64, order+1) // a[0] unused
	prev := make([]float64, order+1)
	k := make([]float64, order)
	energy := r[0]

	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc -= a[j] * r[i-j]
		}

		ki := acc / energy
		if math.IsNaN(ki) || math.IsInf(ki, 0) || math.Abs(ki) >= 1 {
			return nil, fmt.Errorf("%w: reflection coefficient %d is %g", ErrSingularSystem, i, ki)
		}
		k[i-1] = ki

		copy(prev, a)
		a[i] = ki
		for j := 1; j < i; j++ {
			a[j] = prev[j] - ki*prev[i-j]
		}

		energy *= 1 - ki*ki
		if energy <= singularTolerance*r[0] {
			return nil, fmt.Errorf("%w: prediction error vanished at step %d", ErrSingularSystem, i)
		}
	}

	sol := newSolution(a[1:], r)
	sol.Reflection = k
	return sol, nil
}

// CholeskySolver builds the order×order Toeplitz matrix explicitly and
// solves it with a Cholesky factorization.
type CholeskySolver struct{}

// Solve implements Solver.
func (CholeskySolver) Solve(r []float64, order int) (*Solution, error) {
	if err := checkAutocorrelation(r, order); err != nil {
		return nil, err
	}

	data := make([]float64, order*order)
	for i := range order {
		for j := range order {
			data[i*order+j] = r[absInt(i-j)]
		}
	}
	R := mat.NewSymDense(order, data)

	var chol mat.Cholesky
	if ok := chol.Factorize(R); !ok {
		return nil, fmt.Errorf("%w: matrix is not positive definite", ErrSingularSystem)
	}
	if c := chol.Cond(); c > maxCondition || math.IsNaN(c) {
		return nil, fmt.Errorf("%w: condition number %g", ErrSingularSystem, c)
	}

	var x mat.VecDense
	if err := chol.SolveVecTo(&x, mat.NewVecDense(order, append([]float64(nil), r[1:order+1]...))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}

	predictor := make([]float64, order)
	for i := range order {
		predictor[i] = x.AtVec(i)
	}

	return newSolution(predictor, r), nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
