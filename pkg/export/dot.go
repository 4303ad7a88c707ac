package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/csnkit/pkg/network"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Detailed includes the annotation scalars in node labels.
	// When false, only the original state index is shown.
	Detailed bool
}

// ToDOT converts the annotated network to Graphviz DOT. Nodes with a
// committor color are filled with it; edge pen widths scale with the
// transition probability. The resulting string can be rasterized with
// [RenderSVG].
func ToDOT(g *network.Network, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph csn {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}
		if c := n.Attrs.Color; c != nil {
			attrs = append(attrs,
				fmt.Sprintf("fillcolor=\"#%02x%02x%02x\"", c.R, c.G, c.B),
				"fontcolor=white")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", n.Index, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -> %d [penwidth=%.2f];\n", e.From, e.To, 0.5+3*e.Weight)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *network.Node, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("%d", n.Attrs.OrigIndex)
	}
	parts := []string{
		fmt.Sprintf("%d", n.Attrs.OrigIndex),
		fmt.Sprintf("count: %g", n.Attrs.Count),
	}
	if w := n.Attrs.EigenWeight; w != nil {
		parts = append(parts, fmt.Sprintf("eig: %.4g", *w))
	}
	if w := n.Attrs.MultWeight; w != nil {
		parts = append(parts, fmt.Sprintf("mult: %.4g", *w))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG rasterizes a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
