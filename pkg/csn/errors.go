package csn

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBasins is returned by the committor solver when the basin
	// partition is empty. At least one basin is required.
	ErrNoBasins = errors.New("committor analysis requires at least one basin")

	// ErrLabelMismatch is returned by the committor solver when the
	// number of labels does not match the number of basins.
	ErrLabelMismatch = errors.New("basin and label counts differ")

	// ErrEmptyBasin is returned when a basin contains no states after
	// translation into the trimmed index space. A basin made entirely of
	// trimmed-away states cannot absorb anything.
	ErrEmptyBasin = errors.New("basin has no states in the trimmed network")

	// ErrValueLengthMismatch is returned by the annotation helpers when a
	// value slice does not have one entry per network node.
	ErrValueLengthMismatch = errors.New("value count does not match node count")

	// ErrTooManyBasins is returned by the committor color mapping when
	// more than three basins are present. The first three basins map to
	// the red, green, and blue channels; there is no defined channel for
	// a fourth.
	ErrTooManyBasins = errors.New("committor colors support at most three basins")
)

// TrimmedEmptyError is returned by [CSN.Trim] when the count and
// connectivity filters leave no states.
type TrimmedEmptyError struct {
	MinCount float64 // the count threshold in effect
}

// Error implements the error interface.
func (e *TrimmedEmptyError) Error() string {
	return fmt.Sprintf("trim removed every state (min count %v)", e.MinCount)
}

// NoStationaryDistributionError is returned by [SolveEigen] when no
// eigenvalue lies within tolerance of 1. This typically means the
// transition matrix is not irreducible - trimming was skipped or did not
// isolate a single communicating component.
type NoStationaryDistributionError struct {
	// Closest is the eigenvalue nearest to 1 among those computed.
	Closest complex128
}

// Error implements the error interface.
func (e *NoStationaryDistributionError) Error() string {
	return fmt.Sprintf("no eigenvalue within tolerance of 1 (closest: %v); transition matrix is likely not irreducible - trim first", e.Closest)
}

// ConvergenceError is returned by [SolveIterative] and the committor
// sink-matrix squaring when the iteration cap is reached before the
// requested tolerance. It carries the last achieved delta so the caller
// can decide whether the partial result would have been acceptable; the
// result itself is never returned unconverged.
type ConvergenceError struct {
	Op         string  // which iteration failed, e.g. "steady-state iteration"
	Iterations int     // iterations performed
	Delta      float64 // last delta between successive iterates
	Tol        float64 // tolerance that was requested
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations (delta %.3g, want < %.3g)",
		e.Op, e.Iterations, e.Delta, e.Tol)
}

// BasinOverlapError is returned by the committor solver when a state
// appears in more than one basin. Basins must partition disjoint subsets
// of the state space.
type BasinOverlapError struct {
	State         int // offending state index (trimmed space)
	First, Second int // the two basins claiming it
}

// Error implements the error interface.
func (e *BasinOverlapError) Error() string {
	return fmt.Sprintf("state %d belongs to both basin %d and basin %d", e.State, e.First, e.Second)
}

// BasinIndexError is returned by the committor solver when a basin
// references a state outside the matrix dimension.
type BasinIndexError struct {
	Basin int // basin position in the partition
	Index int // offending state index
	Dim   int // matrix dimension
}

// Error implements the error interface.
func (e *BasinIndexError) Error() string {
	return fmt.Sprintf("basin %d: state %d out of range [0,%d)", e.Basin, e.Index, e.Dim)
}

// CommittorMassLeakError is returned when a state's committor row does
// not sum to 1. The state is transient with respect to every basin: some
// of its probability mass never reaches an absorbing state, which means
// the network was not trimmed to a single communicating component before
// the analysis.
type CommittorMassLeakError struct {
	State int     // offending state index (trimmed space)
	Sum   float64 // actual row sum
}

// Error implements the error interface.
func (e *CommittorMassLeakError) Error() string {
	return fmt.Sprintf("committor row for state %d sums to %v, want 1; state cannot reach every basin", e.State, e.Sum)
}
