package csn

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/csnkit/pkg/sparse"
)

// eigenTol is how close an eigenvalue must be to 1 to count as the
// stationary eigenvalue.
const eigenTol = 1e-6

// Defaults for the iterative solver. Both are configurable through
// [IterOptions]; these are the values used when the options are zero.
const (
	DefaultIterTol     = 1e-10
	DefaultIterMaxIter = 10000
)

// IterOptions configures [SolveIterative].
type IterOptions struct {
	// Tol is the L∞ convergence threshold between successive iterates.
	// Zero means DefaultIterTol.
	Tol float64

	// MaxIter caps the number of multiplications before the solver gives
	// up with a ConvergenceError. Zero means DefaultIterMaxIter.
	MaxIter int
}

func (o IterOptions) withDefaults() IterOptions {
	if o.Tol <= 0 {
		o.Tol = DefaultIterTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultIterMaxIter
	}
	return o
}

// SolveEigen computes the stationary distribution of a row-stochastic
// transition matrix by eigendecomposition: the left eigenvector of T for
// eigenvalue 1, computed as the right eigenvector of Tᵀ.
//
// Among the computed eigenvalues it selects the one with the largest real
// part within 1e-6 of 1 (ties broken by smallest imaginary magnitude).
// If none qualifies a NoStationaryDistributionError is returned carrying
// the closest eigenvalue found. The chosen eigenvector's real part is
// sign-fixed, clipped of small negative numerical residue, and
// renormalized to sum 1.
//
// Uniqueness requires an irreducible matrix. On a reducible one (several
// communicating components, or isolated zero-row states alongside a live
// component) eigenvalue 1 can still exist but be degenerate: the returned
// vector is then one stationary distribution among many, not the
// stationary distribution. Trim first to guarantee a unique result.
//
// Entries for low-weight states carry higher relative error than the
// rest; this is inherent to eigendecomposition on ill-conditioned
// stochastic matrices and is not corrected here. Cross-check against
// [SolveIterative] when that matters.
func SolveEigen(trans *sparse.Matrix) ([]float64, error) {
	n := trans.Dim()
	if n == 0 {
		return nil, errors.New("transition matrix is empty")
	}

	tt := mat.NewDense(n, n, nil)
	tt.Copy(trans.Dense().T())

	var eig mat.Eigen
	if ok := eig.Factorize(tt, mat.EigenRight); !ok {
		return nil, errors.New("eigendecomposition failed to converge")
	}

	values := eig.Values(nil)
	best := -1
	closest := values[0]
	for k, v := range values {
		if cmplx.Abs(v-1) < cmplx.Abs(closest-1) {
			closest = v
		}
		if cmplx.Abs(v-1) > eigenTol {
			continue
		}
		if best < 0 ||
			real(v) > real(values[best]) ||
			(real(v) == real(values[best]) && math.Abs(imag(v)) < math.Abs(imag(values[best]))) {
			best = k
		}
	}
	if best < 0 {
		return nil, &NoStationaryDistributionError{Closest: closest}
	}

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	weights := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		weights[i] = real(vectors.At(i, best))
		sum += weights[i]
	}
	// Eigenvectors are defined up to sign; flip so the dominant mass is
	// positive before clipping residue.
	if sum < 0 {
		sum = -sum
		for i := range weights {
			weights[i] = -weights[i]
		}
	}
	sum = 0
	for i, w := range weights {
		if w < 0 {
			weights[i] = 0
			continue
		}
		sum += w
	}
	if sum <= 0 {
		return nil, &NoStationaryDistributionError{Closest: closest}
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights, nil
}

// SolveIterative computes the stationary distribution by power
// iteration: starting from the uniform distribution, repeatedly apply
// v ← Tᵀv until the L∞ difference between successive iterates drops
// below the tolerance. The iterate is renormalized after every step to
// counter floating-point drift.
//
// This is slower than [SolveEigen] but more robust on near-singular
// spectra; the two serve as cross-checks for each other. If the
// iteration cap is reached first, a ConvergenceError carrying the last
// delta is returned and no result is produced.
func SolveIterative(trans *sparse.Matrix, opts IterOptions) ([]float64, error) {
	opts = opts.withDefaults()
	n := trans.Dim()
	if n == 0 {
		return nil, errors.New("transition matrix is empty")
	}

	tt := mat.NewDense(n, n, nil)
	tt.Copy(trans.Dense().T())

	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, 1/float64(n))
	}
	next := mat.NewVecDense(n, nil)

	delta := math.Inf(1)
	for iter := 0; iter < opts.MaxIter; iter++ {
		next.MulVec(tt, v)

		var sum float64
		for i := 0; i < n; i++ {
			sum += next.AtVec(i)
		}
		if sum > 0 {
			next.ScaleVec(1/sum, next)
		}

		delta = 0
		for i := 0; i < n; i++ {
			if d := math.Abs(next.AtVec(i) - v.AtVec(i)); d > delta {
				delta = d
			}
		}
		v.CopyVec(next)
		if delta < opts.Tol {
			weights := make([]float64, n)
			for i := 0; i < n; i++ {
				weights[i] = v.AtVec(i)
			}
			return weights, nil
		}
	}
	return nil, &ConvergenceError{
		Op:         "steady-state iteration",
		Iterations: opts.MaxIter,
		Delta:      delta,
		Tol:        opts.Tol,
	}
}

// SolveEigen runs the eigenvector method on the active transition matrix
// (trimmed when a trim exists) and annotates the active graph's nodes
// with the resulting weights.
func (c *CSN) SolveEigen() ([]float64, error) {
	weights, err := SolveEigen(c.ActiveTrans())
	if err != nil {
		return nil, err
	}
	if err := AnnotateEigenWeights(c.ActiveGraph(), weights); err != nil {
		return nil, err
	}
	return weights, nil
}

// SolveIterative runs the power-iteration method on the active transition
// matrix and annotates the active graph's nodes with the resulting
// weights.
func (c *CSN) SolveIterative(opts IterOptions) ([]float64, error) {
	weights, err := SolveIterative(c.ActiveTrans(), opts)
	if err != nil {
		return nil, err
	}
	if err := AnnotateMultWeights(c.ActiveGraph(), weights); err != nil {
		return nil, err
	}
	return weights, nil
}
