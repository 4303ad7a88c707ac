package csn

import (
	"fmt"
	"sort"

	"github.com/matzehuels/csnkit/pkg/network"
	"github.com/matzehuels/csnkit/pkg/sparse"
)

// TrimResult is a trimmed CSN triple plus the index map back to the
// untrimmed state space. Indices is strictly increasing and has one entry
// per trimmed state: Indices[t] is the original index of trimmed state t.
type TrimResult struct {
	Counts  *sparse.Matrix
	Trans   *sparse.Matrix
	Graph   *network.Network
	Indices []int
}

// ToOriginal translates a trimmed state index to its untrimmed index.
func (r *TrimResult) ToOriginal(trimmed int) (int, error) {
	if trimmed < 0 || trimmed >= len(r.Indices) {
		return 0, fmt.Errorf("trimmed index %d out of range [0,%d)", trimmed, len(r.Indices))
	}
	return r.Indices[trimmed], nil
}

// ToTrimmed translates an untrimmed state index to its trimmed index.
// The second return is false if the state was trimmed away.
func (r *TrimResult) ToTrimmed(orig int) (int, bool) {
	t := sort.SearchInts(r.Indices, orig)
	if t < len(r.Indices) && r.Indices[t] == orig {
		return t, true
	}
	return 0, false
}

// Trim filters the state space down to its main communicating component
// and re-derives a consistent triple over the survivors.
//
// A state survives when both filters keep it:
//
//  1. Count filter: its total outgoing count is positive and at least
//     minCount. With minCount 0 this keeps every state that has any
//     outgoing mass.
//  2. Connectivity filter: it belongs to the largest strongly-connected
//     component of the count-filtered subgraph (every retained state can
//     reach, and be reached by, the rest of the component). Ties between
//     equally-sized components go to the one containing the lowest
//     original index.
//
// The surviving original indices, ascending, become the index map. The
// trimmed transition matrix is recomputed from the trimmed counts rather
// than sliced from the full transition matrix, so its normalization is
// never stale. Returns a TrimmedEmptyError when nothing survives.
//
// The result is stored on the CSN (replacing any previous trim) and also
// returned. Trimming an already single-component CSN with minCount 0 is
// a no-op: the index map is the identity.
func (c *CSN) Trim(minCount float64) (*TrimResult, error) {
	n := c.counts.Dim()
	sums := c.counts.RowSums()
	candidate := make([]bool, n)
	for i, s := range sums {
		candidate[i] = s > 0 && s >= minCount
	}

	comp := largestComponent(c.graph, candidate)
	if len(comp) == 0 {
		return nil, &TrimmedEmptyError{MinCount: minCount}
	}
	sort.Ints(comp)

	trimmedCounts, err := c.counts.Slice(comp)
	if err != nil {
		return nil, fmt.Errorf("slice counts: %w", err)
	}
	trimmedTrans, err := BuildTransition(trimmedCounts)
	if err != nil {
		return nil, fmt.Errorf("build trimmed transition matrix: %w", err)
	}
	graph, err := buildNetwork(trimmedCounts, trimmedTrans, comp)
	if err != nil {
		return nil, fmt.Errorf("build trimmed network: %w", err)
	}

	c.trimmed = &TrimResult{
		Counts:  trimmedCounts,
		Trans:   trimmedTrans,
		Graph:   graph,
		Indices: comp,
	}
	return c.trimmed, nil
}

// largestComponent returns the members of the largest strongly-connected
// component of g restricted to candidate states. Ties between components
// of equal size are broken toward the one whose minimum member index is
// lowest.
func largestComponent(g *network.Network, candidate []bool) []int {
	sccs := stronglyConnected(g, candidate)
	var best []int
	bestMin := -1
	for _, scc := range sccs {
		m := scc[0]
		for _, v := range scc {
			if v < m {
				m = v
			}
		}
		if len(scc) > len(best) || (len(scc) == len(best) && m < bestMin) {
			best = scc
			bestMin = m
		}
	}
	return best
}

// tarjan holds the DFS state for Tarjan's strongly-connected-components
// algorithm over the candidate-induced subgraph. Single pass, O(V+E).
type tarjan struct {
	g         *network.Network
	candidate []bool
	index     int
	indices   []int
	lowlink   []int
	onStack   []bool
	stack     []int
	sccs      [][]int
}

// stronglyConnected computes all strongly-connected components of g
// restricted to the states where candidate is true.
func stronglyConnected(g *network.Network, candidate []bool) [][]int {
	n := g.NumNodes()
	t := &tarjan{
		g:         g,
		candidate: candidate,
		index:     -1,
		indices:   make([]int, n),
		lowlink:   make([]int, n),
		onStack:   make([]bool, n),
	}
	for i := range t.indices {
		t.indices[i] = -1
	}
	for i := 0; i < n; i++ {
		if candidate[i] && t.indices[i] == -1 {
			t.strongConnect(i)
		}
	}
	return t.sccs
}

func (t *tarjan) strongConnect(v int) {
	t.index++
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	succ, _ := t.g.Successors(v)
	for _, w := range succ {
		if !t.candidate[w] {
			continue
		}
		if t.indices[w] == -1 {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.indices[w])
		}
	}

	// v is the root of a component once nothing on its subtree links
	// above it.
	if t.lowlink[v] == t.indices[v] {
		var scc []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
