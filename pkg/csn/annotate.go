package csn

import (
	"fmt"
	"math"

	"github.com/matzehuels/csnkit/pkg/network"
)

// maxColorBasins is the number of basins the color mapping can express:
// basin 0 drives the red channel, basin 1 green, basin 2 blue.
const maxColorBasins = 3

// AnnotateEigenWeights attaches the eigenvector-method stationary weights
// to the nodes of g. The slice must have one entry per node. Existing
// annotations are preserved; only the eigen weight is written.
func AnnotateEigenWeights(g *network.Network, weights []float64) error {
	if len(weights) != g.NumNodes() {
		return fmt.Errorf("%d weights for %d nodes: %w", len(weights), g.NumNodes(), ErrValueLengthMismatch)
	}
	for _, node := range g.Nodes() {
		w := weights[node.Index]
		node.Attrs.EigenWeight = &w
	}
	return nil
}

// AnnotateMultWeights attaches the iterative-method stationary weights to
// the nodes of g, one entry per node.
func AnnotateMultWeights(g *network.Network, weights []float64) error {
	if len(weights) != g.NumNodes() {
		return fmt.Errorf("%d weights for %d nodes: %w", len(weights), g.NumNodes(), ErrValueLengthMismatch)
	}
	for _, node := range g.Nodes() {
		w := weights[node.Index]
		node.Attrs.MultWeight = &w
	}
	return nil
}

// AnnotateCommittors attaches committor probabilities to the nodes of g
// under their basin labels. committors must have one row per node and one
// column per label. Labels already present on a node are overwritten;
// other annotations are untouched.
func AnnotateCommittors(g *network.Network, labels []string, committors [][]float64) error {
	if len(committors) != g.NumNodes() {
		return fmt.Errorf("%d committor rows for %d nodes: %w", len(committors), g.NumNodes(), ErrValueLengthMismatch)
	}
	for _, node := range g.Nodes() {
		row := committors[node.Index]
		if len(row) != len(labels) {
			return fmt.Errorf("state %d: %d committors for %d labels: %w",
				node.Index, len(row), len(labels), ErrLabelMismatch)
		}
		if node.Attrs.Committor == nil {
			node.Attrs.Committor = make(map[string]float64, len(labels))
		}
		for b, label := range labels {
			node.Attrs.Committor[label] = row[b]
		}
	}
	return nil
}

// CommittorColor maps one committor row onto an RGB color: basin 0 is the
// red channel, basin 1 green, basin 2 blue, each scaled to [0,255]. Rows
// with fewer than three basins leave the remaining channels at 0. Rows
// with more than three basins return ErrTooManyBasins - there is no
// defined channel assignment beyond blue, and silently truncating would
// hide basins from the visualization.
func CommittorColor(row []float64) (network.Color, error) {
	if len(row) > maxColorBasins {
		return network.Color{}, fmt.Errorf("%d basins: %w", len(row), ErrTooManyBasins)
	}
	var channels [maxColorBasins]uint8
	for b, p := range row {
		channels[b] = uint8(math.Round(255 * clamp01(p)))
	}
	return network.Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// AnnotateColors attaches committor-derived colors to the nodes of g, one
// committor row per node.
func AnnotateColors(g *network.Network, committors [][]float64) error {
	if len(committors) != g.NumNodes() {
		return fmt.Errorf("%d committor rows for %d nodes: %w", len(committors), g.NumNodes(), ErrValueLengthMismatch)
	}
	for _, node := range g.Nodes() {
		color, err := CommittorColor(committors[node.Index])
		if err != nil {
			return fmt.Errorf("state %d: %w", node.Index, err)
		}
		c := color
		node.Attrs.Color = &c
	}
	return nil
}

// clamp01 bounds numerical residue to the unit interval before color
// scaling.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
