package csn

import (
	"github.com/matzehuels/csnkit/pkg/sparse"
)

// Symmetrize returns (C + Cᵀ)/2, the symmetrized form of a count matrix.
// Symmetrizing imposes a detailed-balance assumption: every observed
// i -> j transition is counted as half a transition in each direction.
func Symmetrize(counts *sparse.Matrix) (*sparse.Matrix, error) {
	sum, err := counts.Add(counts.Transpose())
	if err != nil {
		return nil, err
	}
	return sum.Scale(0.5)
}

// BuildTransition derives the row-stochastic transition matrix from a
// count matrix: T[i][j] = C[i][j] / rowsum(C, i).
//
// Rows index source states, so every row with outgoing counts sums to 1
// within floating-point tolerance. A row with zero total count stays all
// zero - no self-loop is injected. Disconnected or absorbing states are
// expected here and dealt with later by trimming or committor analysis.
func BuildTransition(counts *sparse.Matrix) (*sparse.Matrix, error) {
	sums := counts.RowSums()
	entries := counts.Entries()
	rows := make([]int, 0, len(entries))
	cols := make([]int, 0, len(entries))
	vals := make([]float64, 0, len(entries))
	for _, e := range entries {
		if sums[e.Row] <= 0 {
			continue
		}
		rows = append(rows, e.Row)
		cols = append(cols, e.Col)
		vals = append(vals, e.Val/sums[e.Row])
	}
	return sparse.FromCOO(counts.Dim(), rows, cols, vals)
}
