package csn

import (
	"errors"
	"math"
	"testing"
)

// cycleCounts is the 3-state pure cycle 0 -> 1 -> 2 -> 0.
func cycleCounts(t *testing.T) [][]float64 {
	t.Helper()
	return [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
}

func checkDistribution(t *testing.T, weights []float64) {
	t.Helper()
	var sum float64
	for i, w := range weights {
		if w < 0 {
			t.Errorf("weights[%d] = %v, want non-negative", i, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
}

func TestSolveEigenCycle(t *testing.T) {
	trans, err := BuildTransition(mustMatrix(t, cycleCounts(t)))
	if err != nil {
		t.Fatalf("BuildTransition: %v", err)
	}
	weights, err := SolveEigen(trans)
	if err != nil {
		t.Fatalf("SolveEigen: %v", err)
	}
	checkDistribution(t, weights)
	for i, w := range weights {
		if math.Abs(w-1.0/3) > 1e-9 {
			t.Errorf("weights[%d] = %v, want 1/3", i, w)
		}
	}
}

func TestSolveIterativeCycle(t *testing.T) {
	trans, err := BuildTransition(mustMatrix(t, cycleCounts(t)))
	if err != nil {
		t.Fatalf("BuildTransition: %v", err)
	}
	weights, err := SolveIterative(trans, IterOptions{})
	if err != nil {
		t.Fatalf("SolveIterative: %v", err)
	}
	checkDistribution(t, weights)
	for i, w := range weights {
		if math.Abs(w-1.0/3) > 1e-9 {
			t.Errorf("weights[%d] = %v, want 1/3", i, w)
		}
	}
}

func TestMethodsAgree(t *testing.T) {
	// A well-conditioned aperiodic chain; the two methods are
	// independent computations and serve as each other's oracle.
	counts := mustMatrix(t, [][]float64{
		{10, 5, 1, 0},
		{5, 20, 4, 1},
		{1, 4, 30, 5},
		{0, 1, 5, 40},
	})
	trans, err := BuildTransition(counts)
	if err != nil {
		t.Fatalf("BuildTransition: %v", err)
	}

	eigen, err := SolveEigen(trans)
	if err != nil {
		t.Fatalf("SolveEigen: %v", err)
	}
	mult, err := SolveIterative(trans, IterOptions{})
	if err != nil {
		t.Fatalf("SolveIterative: %v", err)
	}
	checkDistribution(t, eigen)
	checkDistribution(t, mult)
	for i := range eigen {
		if d := math.Abs(eigen[i] - mult[i]); d > 1e-3 {
			t.Errorf("state %d: eigen %v vs iterative %v (diff %v)", i, eigen[i], mult[i], d)
		}
	}
}

func TestSolveEigenNoDistribution(t *testing.T) {
	// All rows empty: the transition matrix is zero and no eigenvalue
	// comes near 1.
	counts := mustMatrix(t, [][]float64{
		{0, 0},
		{0, 0},
	})
	trans, err := BuildTransition(counts)
	if err != nil {
		t.Fatalf("BuildTransition: %v", err)
	}
	_, err = SolveEigen(trans)
	var nsd *NoStationaryDistributionError
	if !errors.As(err, &nsd) {
		t.Fatalf("error = %v, want *NoStationaryDistributionError", err)
	}
}

func TestSolveEigenIsolatedNode(t *testing.T) {
	// An isolated zero-row state makes the matrix reducible but leaves
	// eigenvalue 1 intact on the live block: the solver still returns a
	// stationary vector, with no mass on the isolated state. Trimming is
	// what guarantees uniqueness, not the solver.
	trans, err := BuildTransition(mustMatrix(t, [][]float64{
		{0, 5, 5, 0},
		{5, 0, 5, 0},
		{5, 5, 0, 0},
		{0, 0, 0, 0},
	}))
	if err != nil {
		t.Fatalf("BuildTransition: %v", err)
	}
	weights, err := SolveEigen(trans)
	if err != nil {
		t.Fatalf("SolveEigen: %v", err)
	}
	checkDistribution(t, weights)
	if weights[3] > 1e-9 {
		t.Errorf("weights[3] = %v, want 0 for the isolated state", weights[3])
	}
}

func TestSolveIterativeNonConvergence(t *testing.T) {
	counts := mustMatrix(t, [][]float64{
		{1, 9},
		{5, 5},
	})
	trans, err := BuildTransition(counts)
	if err != nil {
		t.Fatalf("BuildTransition: %v", err)
	}

	_, err = SolveIterative(trans, IterOptions{Tol: 1e-15, MaxIter: 1})
	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConvergenceError", err)
	}
	if ce.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", ce.Iterations)
	}
	if ce.Delta <= 0 {
		t.Errorf("Delta = %v, want > 0", ce.Delta)
	}
}

func TestCSNSolversAnnotate(t *testing.T) {
	counts := mustMatrix(t, [][]float64{
		{0, 5, 5},
		{5, 0, 5},
		{5, 5, 0},
	})
	c, err := New(counts, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Trim(0); err != nil {
		t.Fatalf("Trim: %v", err)
	}

	eigen, err := c.SolveEigen()
	if err != nil {
		t.Fatalf("SolveEigen: %v", err)
	}
	mult, err := c.SolveIterative(IterOptions{})
	if err != nil {
		t.Fatalf("SolveIterative: %v", err)
	}

	for _, node := range c.ActiveGraph().Nodes() {
		if node.Attrs.EigenWeight == nil || *node.Attrs.EigenWeight != eigen[node.Index] {
			t.Errorf("node %d missing eigen annotation", node.Index)
		}
		if node.Attrs.MultWeight == nil || *node.Attrs.MultWeight != mult[node.Index] {
			t.Errorf("node %d missing mult annotation", node.Index)
		}
	}
}
