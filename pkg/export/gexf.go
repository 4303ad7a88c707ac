// Package export writes the annotated network to visualization formats.
//
// The core's contract ends at an annotated [network.Network]: every node
// carries deterministic scalar attributes and, when a committor analysis
// ran, an RGB color. This package serializes that into GEXF (for Gephi
// and other network tools) and Graphviz DOT, and can rasterize the DOT
// form to SVG.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/matzehuels/csnkit/pkg/network"
)

// gexfAttrIDs: stable attribute identifiers used in the GEXF attribute
// declarations. Committor attributes are appended after these, one per
// basin label in sorted order.
const (
	attrOrigIndex = "orig_index"
	attrCount     = "count"
	attrEigen     = "eig_weights"
	attrMult      = "mult_weights"
)

// gexf document model, GEXF 1.2 draft with the viz extension.

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	VizNS   string    `xml:"xmlns:viz,attr"`
	Version string    `xml:"version,attr"`
	Meta    gexfMeta  `xml:"meta"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfMeta struct {
	Creator     string `xml:"creator"`
	Description string `xml:"description,omitempty"`
}

type gexfGraph struct {
	DefaultEdgeType string     `xml:"defaultedgetype,attr"`
	Attributes      gexfAttrs  `xml:"attributes"`
	Nodes           []gexfNode `xml:"nodes>node"`
	Edges           []gexfEdge `xml:"edges>edge"`
}

type gexfAttrs struct {
	Class string     `xml:"class,attr"`
	Attrs []gexfAttr `xml:"attribute"`
}

type gexfAttr struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNode struct {
	ID        string     `xml:"id,attr"`
	Label     string     `xml:"label,attr"`
	AttValues []gexfAtt  `xml:"attvalues>attvalue"`
	Color     *gexfColor `xml:"viz:color,omitempty"`
}

type gexfAtt struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfColor struct {
	R uint8 `xml:"r,attr"`
	G uint8 `xml:"g,attr"`
	B uint8 `xml:"b,attr"`
}

type gexfEdge struct {
	ID     string  `xml:"id,attr"`
	Source string  `xml:"source,attr"`
	Target string  `xml:"target,attr"`
	Weight float64 `xml:"weight,attr"`
}

// GEXFOptions configures the GEXF document header.
type GEXFOptions struct {
	// Creator is stamped into the document meta block. Empty means
	// "csnkit".
	Creator string

	// Description is an optional free-text run description (e.g. the
	// pipeline run ID).
	Description string
}

// WriteGEXF serializes the annotated network as a GEXF 1.2 document.
// Every annotation present on the nodes becomes a declared node
// attribute: original index and outgoing count always, stationary
// weights and per-basin committors when the corresponding analyses ran.
// Node colors, when set, are emitted as viz:color blocks. Edge weights
// are the transition probabilities.
func WriteGEXF(g *network.Network, w io.Writer, opts GEXFOptions) error {
	if opts.Creator == "" {
		opts.Creator = "csnkit"
	}

	labels := committorLabels(g)
	doc := gexfDoc{
		XMLNS:   "http://www.gexf.net/1.2draft",
		VizNS:   "http://www.gexf.net/1.2draft/viz",
		Version: "1.2",
		Meta: gexfMeta{
			Creator:     opts.Creator,
			Description: opts.Description,
		},
		Graph: gexfGraph{
			DefaultEdgeType: "directed",
			Attributes:      gexfAttrs{Class: "node", Attrs: declareAttrs(g, labels)},
		},
	}

	for _, node := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, gexfNodeFor(node, labels))
	}
	for k, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, gexfEdge{
			ID:     strconv.Itoa(k),
			Source: strconv.Itoa(e.From),
			Target: strconv.Itoa(e.To),
			Weight: e.Weight,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode gexf: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteGEXFFile writes the GEXF document to path.
func WriteGEXFFile(g *network.Network, path string, opts GEXFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGEXF(g, f, opts)
}

// committorLabels collects the basin labels present anywhere in the
// network, sorted for deterministic attribute ordering.
func committorLabels(g *network.Network) []string {
	seen := make(map[string]bool)
	for _, node := range g.Nodes() {
		for label := range node.Attrs.Committor {
			seen[label] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// declareAttrs builds the attribute declaration block: the always-present
// scalars, the stationary weights when any node carries them, and one
// committor attribute per basin label.
func declareAttrs(g *network.Network, labels []string) []gexfAttr {
	attrs := []gexfAttr{
		{ID: attrOrigIndex, Title: attrOrigIndex, Type: "integer"},
		{ID: attrCount, Title: attrCount, Type: "double"},
	}
	var hasEigen, hasMult bool
	for _, node := range g.Nodes() {
		hasEigen = hasEigen || node.Attrs.EigenWeight != nil
		hasMult = hasMult || node.Attrs.MultWeight != nil
	}
	if hasEigen {
		attrs = append(attrs, gexfAttr{ID: attrEigen, Title: attrEigen, Type: "double"})
	}
	if hasMult {
		attrs = append(attrs, gexfAttr{ID: attrMult, Title: attrMult, Type: "double"})
	}
	for _, label := range labels {
		id := "p_" + label
		attrs = append(attrs, gexfAttr{ID: id, Title: id, Type: "double"})
	}
	return attrs
}

func gexfNodeFor(node *network.Node, labels []string) gexfNode {
	out := gexfNode{
		ID:    strconv.Itoa(node.Index),
		Label: strconv.Itoa(node.Attrs.OrigIndex),
		AttValues: []gexfAtt{
			{For: attrOrigIndex, Value: strconv.Itoa(node.Attrs.OrigIndex)},
			{For: attrCount, Value: formatFloat(node.Attrs.Count)},
		},
	}
	if node.Attrs.EigenWeight != nil {
		out.AttValues = append(out.AttValues, gexfAtt{For: attrEigen, Value: formatFloat(*node.Attrs.EigenWeight)})
	}
	if node.Attrs.MultWeight != nil {
		out.AttValues = append(out.AttValues, gexfAtt{For: attrMult, Value: formatFloat(*node.Attrs.MultWeight)})
	}
	for _, label := range labels {
		if p, ok := node.Attrs.Committor[label]; ok {
			out.AttValues = append(out.AttValues, gexfAtt{For: "p_" + label, Value: formatFloat(p)})
		}
	}
	if c := node.Attrs.Color; c != nil {
		out.Color = &gexfColor{R: c.R, G: c.G, B: c.B}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
