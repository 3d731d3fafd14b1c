package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds reference counts to node labels and field names to
	// edges. When false, only the table label is shown.
	Detailed bool

	// Positions emits the simulated node positions as pinned pos
	// attributes.
	Positions bool

	// HideFiltered drops nodes marked by the search overlay, together with
	// their edges.
	HideFiltered bool
}

// ToDOT converts a relationship graph to Graphviz DOT format.
// The result can be rendered with [RenderSVG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	hidden := map[string]bool{}
	for _, n := range g.Nodes() {
		if opts.HideFiltered && n.IsFiltered && !n.IsCenter() {
			hidden[n.ID] = true
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if hidden[e.SourceTable] || hidden[e.TargetTable] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.SourceTable, e.TargetTable, strings.Join(edgeAttrs(e, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	parts := []string{label, n.ID, fmt.Sprintf("refs: %d", n.ReferenceCount)}
	if n.CustomReferenceCount > 0 {
		parts = append(parts, fmt.Sprintf("custom: %d", n.CustomReferenceCount))
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n *graph.Node, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", render.NodeColor(n)),
	}
	if n.IsCenter() {
		attrs = append(attrs, "peripheries=2", "fontsize=18")
	}
	if n.IsFiltered {
		attrs = append(attrs, "fontcolor=black")
	}
	if opts.Positions {
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, -n.Y))
	}
	return attrs
}

func edgeAttrs(e *graph.Edge, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("color=%q", render.EdgeColor(e.Class)),
		"penwidth=" + strconv.FormatFloat(e.Width, 'f', -1, 64),
	}
	if !e.IsMandatory {
		attrs = append(attrs, "style=dashed")
	}
	if opts.Detailed && e.FieldName != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.FieldName), "fontsize=10")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
