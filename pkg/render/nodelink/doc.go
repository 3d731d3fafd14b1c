// Package nodelink renders a focused table's relationship graph as a
// node-link diagram.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Styling
//
// Nodes are rounded boxes filled by classification; the focused table is
// drawn dark with a double border. Edges point from the referencing table
// to the referenced one, are coloured by edge class and use the edge width
// as pen width, so mandatory references stand out.
//
// # Positions
//
// With [Options.Positions] set, every node carries its simulated position
// as a pinned pos attribute. The in-process renderer lays the graph out
// itself; the positions are kept for external tools such as neato -n.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
