// Package dot exports knowledge graphs as Graphviz DOT and rasterizes
// them through the graphviz engine. This is the offline, non-interactive
// render path: no layout engine, no animation - graphviz does its own
// positioning.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/citescope/citescope/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes the node type in labels.
	// When false, only the display label is shown.
	Detailed bool
}

// fillColors maps node types to graphviz fill colors, mirroring the
// canvas theme.
var fillColors = map[graph.NodeType]string{
	graph.NodeTypePaper:     "#8be9fd",
	graph.NodeTypeAuthor:    "#50fa7b",
	graph.NodeTypeVenue:     "#bd93f9",
	graph.NodeTypeField:     "#ffb86c",
	graph.NodeTypeReference: "#6272a4",
	graph.NodeTypeUnknown:   "#94a3b8",
}

// ToDOT converts a graph to Graphviz DOT format. Malformed edges are
// skipped, matching the canvas renderer. The resulting string can be
// rendered with [RenderSVG] or [RenderPNG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"#1e1e2e\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=11, fontcolor=\"#1e1e2e\"];\n")
	buf.WriteString("  edge [color=\"#6b80bf\", fontcolor=\"#f8f8f2\", fontsize=9];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		label := fmtLabel(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", n.ID, label, fillColor(n.Type))
	}

	buf.WriteString("\n")
	for _, e := range g.ValidEdges() {
		if e.Relation != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Relation)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	return label + "\n" + strings.ToLower(n.Type.String())
}

func fillColor(t graph.NodeType) string {
	if c, ok := fillColors[t]; ok {
		return c
	}
	return fillColors[graph.NodeTypeUnknown]
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
