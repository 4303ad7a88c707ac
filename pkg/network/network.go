package network

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeOutOfRange is returned by [Network.AddEdge] and the query
	// methods when a state index is negative or >= the node count.
	ErrNodeOutOfRange = errors.New("node index out of range")

	// ErrInvalidWeight is returned by [Network.AddEdge] when the edge
	// weight is negative or zero. Edges carry transition probabilities,
	// and a zero-probability transition is simply an absent edge.
	ErrInvalidWeight = errors.New("edge weight must be positive")

	// ErrInvalidEdgeEndpoint is returned by [Network.Validate] when a
	// stored edge references a node outside the index range. This
	// indicates corruption, not bad input.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// Color is an RGB color with [0,255] integer channels, matching the
// viz-color block of graph exchange formats.
type Color struct {
	R, G, B uint8
}

// Attributes is the annotation record attached to every node. Fields are
// filled in additively over the network's lifetime: construction sets
// Count and OrigIndex, the steady-state solvers add EigenWeight and
// MultWeight, and the committor analysis adds Committor and Color.
// Pointer and map fields are nil until the corresponding annotation pass
// has run. Annotations accumulate; nothing ever clears them.
type Attributes struct {
	// Count is the total outgoing transition count of the state.
	Count float64

	// OrigIndex is the state's index in the untrimmed network. For an
	// untrimmed network it equals the node's own index.
	OrigIndex int

	// EigenWeight is the stationary weight from the eigenvector method.
	EigenWeight *float64

	// MultWeight is the stationary weight from the iterative
	// (repeated-multiplication) method.
	MultWeight *float64

	// Committor maps basin label to the probability of reaching that
	// basin first.
	Committor map[string]float64

	// Color is the committor-derived display color.
	Color *Color
}

// Node is one conformational state in the network.
type Node struct {
	Index int // state index, 0..N-1
	Attrs Attributes
}

// Edge is a directed transition with its probability as weight.
type Edge struct {
	From, To int
	Weight   float64
}

// Network is a directed graph over states 0..N-1 with annotated nodes and
// probability-weighted edges. It is the graph leg of the CSN triple: the
// node set and edge set always mirror the owning count and transition
// matrices.
//
// The zero value is not usable - use New. Network is not safe for
// concurrent use without external synchronization.
type Network struct {
	nodes    []*Node
	edges    []Edge
	outgoing [][]int // state -> successor states
	incoming [][]int // state -> predecessor states
}

// New creates a network with n nodes (indices 0..n-1) and no edges.
// Every node starts with OrigIndex equal to its own index.
func New(n int) *Network {
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = &Node{Index: i, Attrs: Attributes{OrigIndex: i}}
	}
	return &Network{
		nodes:    nodes,
		outgoing: make([][]int, n),
		incoming: make([][]int, n),
	}
}

// NumNodes returns the number of states.
func (g *Network) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of directed edges.
func (g *Network) NumEdges() int { return len(g.edges) }

// Node returns the node for state i. The pointer is shared with the
// network, so attribute writes through it are visible to later readers -
// this is how the annotator works.
func (g *Network) Node(i int) (*Node, error) {
	if i < 0 || i >= len(g.nodes) {
		return nil, fmt.Errorf("node %d: %w", i, ErrNodeOutOfRange)
	}
	return g.nodes[i], nil
}

// Nodes returns all nodes in index order. The slice is a copy; the node
// pointers are shared.
func (g *Network) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Network) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// AddEdge adds a directed edge from -> to with the given positive weight.
// Self-loops are allowed (absorbing states carry them). Returns
// ErrNodeOutOfRange or ErrInvalidWeight on bad input.
func (g *Network) AddEdge(from, to int, weight float64) error {
	if from < 0 || from >= len(g.nodes) {
		return fmt.Errorf("edge source %d: %w", from, ErrNodeOutOfRange)
	}
	if to < 0 || to >= len(g.nodes) {
		return fmt.Errorf("edge target %d: %w", to, ErrNodeOutOfRange)
	}
	if weight <= 0 {
		return fmt.Errorf("edge %d->%d weight %v: %w", from, to, weight, ErrInvalidWeight)
	}
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// Successors returns the states reachable from i by one edge, in edge
// insertion order. The returned slice must not be modified.
func (g *Network) Successors(i int) ([]int, error) {
	if i < 0 || i >= len(g.nodes) {
		return nil, fmt.Errorf("node %d: %w", i, ErrNodeOutOfRange)
	}
	return g.outgoing[i], nil
}

// Predecessors returns the states with an edge into i.
// The returned slice must not be modified.
func (g *Network) Predecessors(i int) ([]int, error) {
	if i < 0 || i >= len(g.nodes) {
		return nil, fmt.Errorf("node %d: %w", i, ErrNodeOutOfRange)
	}
	return g.incoming[i], nil
}

// OutDegree returns the number of outgoing edges of state i, or 0 for an
// out-of-range index.
func (g *Network) OutDegree(i int) int {
	if i < 0 || i >= len(g.outgoing) {
		return 0
	}
	return len(g.outgoing[i])
}

// InDegree returns the number of incoming edges of state i, or 0 for an
// out-of-range index.
func (g *Network) InDegree(i int) int {
	if i < 0 || i >= len(g.incoming) {
		return 0
	}
	return len(g.incoming[i])
}

// Validate checks structural integrity: every edge endpoint must be a
// valid state index and every weight positive. Returns the first
// violation found.
func (g *Network) Validate() error {
	for _, e := range g.edges {
		if e.From < 0 || e.From >= len(g.nodes) || e.To < 0 || e.To >= len(g.nodes) {
			return fmt.Errorf("edge %d->%d: %w", e.From, e.To, ErrInvalidEdgeEndpoint)
		}
		if e.Weight <= 0 {
			return fmt.Errorf("edge %d->%d weight %v: %w", e.From, e.To, e.Weight, ErrInvalidWeight)
		}
	}
	return nil
}
