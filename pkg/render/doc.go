// Package render holds the visual vocabulary shared by tablemap's outputs.
//
// # Palette
//
// Table classifications and relationship edge classes map to fixed colours
// so that the DOT/SVG export and the terminal explorer agree:
//
//	render.ClassColor(hierarchy.Custom)    // "#e8590c"
//	render.EdgeColor(graph.EdgeCustom)     // "#f08c00"
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the relationship graph of a focused
// table using Graphviz.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/matzehuels/tablemap/pkg/render/nodelink
package render
