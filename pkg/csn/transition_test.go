package csn

import (
	"math"
	"testing"

	"github.com/matzehuels/csnkit/pkg/sparse"
)

func mustMatrix(t *testing.T, rows [][]float64) *sparse.Matrix {
	t.Helper()
	m, err := sparse.FromDense(rows)
	if err != nil {
		t.Fatalf("FromDense: %v", err)
	}
	return m
}

func TestBuildTransition(t *testing.T) {
	tests := []struct {
		name   string
		counts [][]float64
	}{
		{
			name: "Chain",
			counts: [][]float64{
				{0, 10, 0},
				{5, 0, 5},
				{0, 10, 0},
			},
		},
		{
			name: "WithZeroRow",
			counts: [][]float64{
				{0, 3, 1},
				{0, 0, 0},
				{2, 2, 2},
			},
		},
		{
			name: "SelfLoops",
			counts: [][]float64{
				{8, 2},
				{1, 9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := mustMatrix(t, tt.counts)
			trans, err := BuildTransition(counts)
			if err != nil {
				t.Fatalf("BuildTransition: %v", err)
			}

			sums := counts.RowSums()
			transSums := trans.RowSums()
			for i, s := range sums {
				if s == 0 {
					if transSums[i] != 0 {
						t.Errorf("row %d: zero-count row has transition sum %v, want 0", i, transSums[i])
					}
					continue
				}
				if math.Abs(transSums[i]-1) > 1e-10 {
					t.Errorf("row %d sums to %v, want 1 within 1e-10", i, transSums[i])
				}
			}

			// Entries are the counts scaled by the row total.
			for _, e := range trans.Entries() {
				want := counts.At(e.Row, e.Col) / sums[e.Row]
				if math.Abs(e.Val-want) > 1e-15 {
					t.Errorf("T[%d][%d] = %v, want %v", e.Row, e.Col, e.Val, want)
				}
			}
		})
	}
}

func TestSymmetrize(t *testing.T) {
	counts := mustMatrix(t, [][]float64{
		{0, 4},
		{2, 0},
	})
	sym, err := Symmetrize(counts)
	if err != nil {
		t.Fatalf("Symmetrize: %v", err)
	}
	if got := sym.At(0, 1); got != 3 {
		t.Errorf("At(0,1) = %v, want 3", got)
	}
	if got := sym.At(1, 0); got != 3 {
		t.Errorf("At(1,0) = %v, want 3", got)
	}
}

func TestNewCSN(t *testing.T) {
	counts := mustMatrix(t, [][]float64{
		{0, 10, 0},
		{5, 0, 5},
		{10, 0, 0},
	})

	c, err := New(counts, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.NumStates() != 3 {
		t.Errorf("NumStates = %d, want 3", c.NumStates())
	}

	// Graph mirrors the transition matrix: one edge per non-zero entry,
	// weight equal to the probability.
	if c.Graph().NumEdges() != c.Trans().NNZ() {
		t.Errorf("graph has %d edges, transition matrix %d entries", c.Graph().NumEdges(), c.Trans().NNZ())
	}
	node, err := c.Graph().Node(1)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	if node.Attrs.Count != 10 {
		t.Errorf("node 1 count = %v, want 10", node.Attrs.Count)
	}

	// Symmetrized construction owns the symmetrized counts.
	cs, err := New(counts, true)
	if err != nil {
		t.Fatalf("New symmetrized: %v", err)
	}
	if !cs.Symmetrized() {
		t.Error("Symmetrized() = false, want true")
	}
	if got, want := cs.Counts().At(0, 2), 5.0; got != want {
		t.Errorf("symmetrized At(0,2) = %v, want %v", got, want)
	}
}
