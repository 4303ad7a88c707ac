package csn

import (
	"fmt"

	"github.com/matzehuels/csnkit/pkg/network"
	"github.com/matzehuels/csnkit/pkg/sparse"
)

// CSN is a conformation space network: a count matrix, its derived
// row-stochastic transition matrix, and the matching annotated graph, all
// indexed 0..N-1 over the same state set. The three views are kept
// consistent by construction - the transition matrix and graph are always
// re-derived from the counts, never edited independently.
//
// A CSN optionally owns a trimmed triple (see [CSN.Trim]). The solvers
// and annotators operate on the trimmed triple when one exists, otherwise
// on the full one.
//
// CSN is not safe for concurrent use; callers must serialize access to a
// single instance or work on independent instances.
type CSN struct {
	counts *sparse.Matrix
	trans  *sparse.Matrix
	graph  *network.Network

	symmetrized bool
	trimmed     *TrimResult
}

// New builds a CSN from a count matrix in canonical sparse form. When
// symmetrize is set the counts are replaced by (C + Cᵀ)/2 before
// normalization, and the symmetrized counts are what the aggregate owns
// from then on.
func New(counts *sparse.Matrix, symmetrize bool) (*CSN, error) {
	if symmetrize {
		var err error
		counts, err = Symmetrize(counts)
		if err != nil {
			return nil, fmt.Errorf("symmetrize counts: %w", err)
		}
	}
	trans, err := BuildTransition(counts)
	if err != nil {
		return nil, fmt.Errorf("build transition matrix: %w", err)
	}
	graph, err := buildNetwork(counts, trans, nil)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	return &CSN{
		counts:      counts,
		trans:       trans,
		graph:       graph,
		symmetrized: symmetrize,
	}, nil
}

// NumStates returns the number of states in the untrimmed network.
func (c *CSN) NumStates() int { return c.counts.Dim() }

// Counts returns the (possibly symmetrized) count matrix.
func (c *CSN) Counts() *sparse.Matrix { return c.counts }

// Trans returns the transition matrix derived from the counts.
func (c *CSN) Trans() *sparse.Matrix { return c.trans }

// Graph returns the untrimmed annotated network.
func (c *CSN) Graph() *network.Network { return c.graph }

// Symmetrized reports whether the counts were symmetrized at construction.
func (c *CSN) Symmetrized() bool { return c.symmetrized }

// Trimmed returns the trimmed triple produced by the last [CSN.Trim]
// call, or nil if the CSN has not been trimmed.
func (c *CSN) Trimmed() *TrimResult { return c.trimmed }

// ActiveTrans returns the transition matrix the solvers operate on: the
// trimmed one when a trim exists, otherwise the full one.
func (c *CSN) ActiveTrans() *sparse.Matrix {
	if c.trimmed != nil {
		return c.trimmed.Trans
	}
	return c.trans
}

// ActiveGraph returns the network the annotators write to: the trimmed
// one when a trim exists, otherwise the full one.
func (c *CSN) ActiveGraph() *network.Network {
	if c.trimmed != nil {
		return c.trimmed.Graph
	}
	return c.graph
}

// buildNetwork constructs the graph leg of a triple: one node per state
// carrying its outgoing count, one edge per non-zero transition
// probability. origIndices, when non-nil, records each node's index in
// the untrimmed space (used for trimmed triples).
func buildNetwork(counts, trans *sparse.Matrix, origIndices []int) (*network.Network, error) {
	g := network.New(trans.Dim())
	sums := counts.RowSums()
	for _, node := range g.Nodes() {
		node.Attrs.Count = sums[node.Index]
		if origIndices != nil {
			node.Attrs.OrigIndex = origIndices[node.Index]
		}
	}
	for _, e := range trans.Entries() {
		if err := g.AddEdge(e.Row, e.Col, e.Val); err != nil {
			return nil, err
		}
	}
	return g, nil
}
