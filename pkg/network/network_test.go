package network

import (
	"errors"
	"testing"
)

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		weight   float64
		wantErr  error
	}{
		{name: "Valid", from: 0, to: 1, weight: 0.5},
		{name: "SelfLoop", from: 2, to: 2, weight: 1},
		{name: "SourceOutOfRange", from: 3, to: 0, weight: 0.5, wantErr: ErrNodeOutOfRange},
		{name: "TargetNegative", from: 0, to: -1, weight: 0.5, wantErr: ErrNodeOutOfRange},
		{name: "ZeroWeight", from: 0, to: 1, weight: 0, wantErr: ErrInvalidWeight},
		{name: "NegativeWeight", from: 0, to: 1, weight: -0.1, wantErr: ErrInvalidWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(3)
			err := g.AddEdge(tt.from, tt.to, tt.weight)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g.NumEdges() != 1 {
				t.Errorf("NumEdges = %d, want 1", g.NumEdges())
			}
		})
	}
}

func TestAdjacency(t *testing.T) {
	g := New(4)
	edges := []struct {
		from, to int
	}{{0, 1}, {0, 2}, {1, 2}, {2, 0}}
	for _, e := range edges {
		if err := g.AddEdge(e.from, e.to, 0.5); err != nil {
			t.Fatalf("AddEdge(%d,%d): %v", e.from, e.to, err)
		}
	}

	succ, err := g.Successors(0)
	if err != nil {
		t.Fatalf("Successors: %v", err)
	}
	if len(succ) != 2 || succ[0] != 1 || succ[1] != 2 {
		t.Errorf("Successors(0) = %v, want [1 2]", succ)
	}

	pred, err := g.Predecessors(2)
	if err != nil {
		t.Fatalf("Predecessors: %v", err)
	}
	if len(pred) != 2 || pred[0] != 0 || pred[1] != 1 {
		t.Errorf("Predecessors(2) = %v, want [0 1]", pred)
	}

	if got := g.OutDegree(0); got != 2 {
		t.Errorf("OutDegree(0) = %d, want 2", got)
	}
	if got := g.InDegree(3); got != 0 {
		t.Errorf("InDegree(3) = %d, want 0", got)
	}
	if got := g.OutDegree(99); got != 0 {
		t.Errorf("OutDegree(99) = %d, want 0", got)
	}

	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestAttributesAccumulate(t *testing.T) {
	g := New(2)
	node, err := g.Node(1)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	if node.Attrs.OrigIndex != 1 {
		t.Errorf("OrigIndex = %d, want 1", node.Attrs.OrigIndex)
	}

	node.Attrs.Count = 42
	w := 0.25
	node.Attrs.EigenWeight = &w

	// A second lookup sees the same record.
	again, err := g.Node(1)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	if again.Attrs.Count != 42 {
		t.Errorf("Count = %v, want 42", again.Attrs.Count)
	}
	if again.Attrs.EigenWeight == nil || *again.Attrs.EigenWeight != 0.25 {
		t.Errorf("EigenWeight = %v, want 0.25", again.Attrs.EigenWeight)
	}

	if _, err := g.Node(5); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("Node(5) error = %v, want ErrNodeOutOfRange", err)
	}
}
