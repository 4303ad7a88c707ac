package csn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/csnkit/pkg/sparse"
)

// Defaults for the sink-matrix iteration. Configurable through
// [SinkOptions]; these apply when the options are zero.
const (
	DefaultSinkTol     = 1e-10
	DefaultSinkMaxIter = 64

	// committorRowTol is how far a committor row may stray from summing
	// to 1 before the state is reported as leaking mass.
	committorRowTol = 1e-6
)

// SinkOptions configures the sink-matrix squaring in [Committors].
type SinkOptions struct {
	// Tol is the max-entry convergence threshold between successive
	// squarings. Zero means DefaultSinkTol.
	Tol float64

	// MaxIter caps the number of squarings. Each squaring doubles the
	// effective power, so the default of 64 probes T to the 2^64-th
	// power. Zero means DefaultSinkMaxIter.
	MaxIter int
}

func (o SinkOptions) withDefaults() SinkOptions {
	if o.Tol <= 0 {
		o.Tol = DefaultSinkTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultSinkMaxIter
	}
	return o
}

// Committors computes, for every state, the probability of being absorbed
// into each basin first, via absorbing-Markov-chain analysis of the
// row-stochastic transition matrix.
//
// Basins are sets of state indices in the matrix's own index space. They
// must be pairwise disjoint, in range, and matched one-to-one by labels;
// violations surface as BasinOverlapError, BasinIndexError, ErrNoBasins,
// or ErrLabelMismatch.
//
// The solver builds the sink matrix S from T by making every basin state
// absorbing (its outgoing row replaced with a self-loop of probability 1)
// and squares it repeatedly - S, S², S⁴, ... - until entries stabilize
// within the tolerance, reaching the limiting power in O(log k) matrix
// multiplications. Non-convergence within the squaring cap is a
// ConvergenceError.
//
// The result is one row per state and one column per basin. Basin states
// get an exact one-hot row for their own basin. Every row must sum to 1
// within 1e-6; a shortfall means the state's mass never reaches any basin
// and is reported as a CommittorMassLeakError naming the state.
func Committors(trans *sparse.Matrix, basins [][]int, labels []string, opts SinkOptions) ([][]float64, error) {
	opts = opts.withDefaults()
	n := trans.Dim()

	basinOf, err := validateBasins(n, basins, labels)
	if err != nil {
		return nil, err
	}

	sink := trans.Dense()
	for i, b := range basinOf {
		if b < 0 {
			continue
		}
		for j := 0; j < n; j++ {
			sink.Set(i, j, 0)
		}
		sink.Set(i, i, 1)
	}

	limit, err := squareToConvergence(sink, opts)
	if err != nil {
		return nil, err
	}

	k := len(basins)
	committors := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, k)
		if b := basinOf[i]; b >= 0 {
			row[b] = 1
			committors[i] = row
			continue
		}
		var sum float64
		for b, members := range basins {
			for _, j := range members {
				row[b] += limit.At(i, j)
			}
			sum += row[b]
		}
		if math.Abs(sum-1) > committorRowTol {
			return nil, &CommittorMassLeakError{State: i, Sum: sum}
		}
		// Scrub the residual drift so rows sum to exactly 1.
		for b := range row {
			row[b] /= sum
		}
		committors[i] = row
	}
	return committors, nil
}

// validateBasins checks the partition and returns, per state, the basin
// it belongs to (-1 for none).
func validateBasins(n int, basins [][]int, labels []string) ([]int, error) {
	if len(basins) == 0 {
		return nil, ErrNoBasins
	}
	if len(basins) != len(labels) {
		return nil, fmt.Errorf("%d basins, %d labels: %w", len(basins), len(labels), ErrLabelMismatch)
	}
	basinOf := make([]int, n)
	for i := range basinOf {
		basinOf[i] = -1
	}
	for b, members := range basins {
		if len(members) == 0 {
			return nil, fmt.Errorf("basin %d (%q): %w", b, labels[b], ErrEmptyBasin)
		}
		for _, i := range members {
			if i < 0 || i >= n {
				return nil, &BasinIndexError{Basin: b, Index: i, Dim: n}
			}
			if prev := basinOf[i]; prev >= 0 {
				return nil, &BasinOverlapError{State: i, First: prev, Second: b}
			}
			basinOf[i] = b
		}
	}
	return basinOf, nil
}

// squareToConvergence repeatedly squares s until the largest entry change
// between successive squarings drops below the tolerance.
func squareToConvergence(s *mat.Dense, opts SinkOptions) (*mat.Dense, error) {
	n, _ := s.Dims()
	cur := s
	next := mat.NewDense(n, n, nil)
	delta := math.Inf(1)
	for iter := 0; iter < opts.MaxIter; iter++ {
		next.Mul(cur, cur)
		delta = 0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if d := math.Abs(next.At(i, j) - cur.At(i, j)); d > delta {
					delta = d
				}
			}
		}
		cur, next = next, cur
		if delta < opts.Tol {
			return cur, nil
		}
	}
	return nil, &ConvergenceError{
		Op:         "sink-matrix squaring",
		Iterations: opts.MaxIter,
		Delta:      delta,
		Tol:        opts.Tol,
	}
}

// Committors runs the committor analysis on the active transition matrix.
// Basin indices are given in the original (untrimmed) state space; when
// the CSN is trimmed they are translated through the index map first, and
// members that were trimmed away are dropped. A basin whose members were
// all trimmed away is an ErrEmptyBasin.
//
// The active graph is annotated with the per-label committor values and,
// for partitions of up to three basins, the derived committor color.
func (c *CSN) Committors(basins [][]int, labels []string, opts SinkOptions) ([][]float64, error) {
	translated := basins
	if c.trimmed != nil {
		translated = make([][]int, len(basins))
		for b, members := range basins {
			for _, orig := range members {
				if t, ok := c.trimmed.ToTrimmed(orig); ok {
					translated[b] = append(translated[b], t)
				}
			}
		}
	}

	committors, err := Committors(c.ActiveTrans(), translated, labels, opts)
	if err != nil {
		return nil, err
	}
	if err := AnnotateCommittors(c.ActiveGraph(), labels, committors); err != nil {
		return nil, err
	}
	if len(labels) <= maxColorBasins {
		if err := AnnotateColors(c.ActiveGraph(), committors); err != nil {
			return nil, err
		}
	}
	return committors, nil
}
