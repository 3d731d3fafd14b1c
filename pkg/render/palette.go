package render

import (
	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
)

// Classification colours.
const (
	ColorBase     = "#4c6ef5"
	ColorExtended = "#12b886"
	ColorCustom   = "#e8590c"
	ColorCenter   = "#212529"
	ColorFiltered = "#ced4da"
)

// Edge class colours.
const (
	ColorEdgeCustomStrong = "#c92a2a"
	ColorEdgeCustom       = "#f08c00"
	ColorEdgeStandard     = "#868e96"
)

// ClassColor returns the fill colour of a table classification.
func ClassColor(c hierarchy.Classification) string {
	switch c {
	case hierarchy.Custom:
		return ColorCustom
	case hierarchy.Extended:
		return ColorExtended
	default:
		return ColorBase
	}
}

// EdgeColor returns the stroke colour of an edge class.
func EdgeColor(c graph.EdgeClass) string {
	switch c {
	case graph.EdgeCustomStrong:
		return ColorEdgeCustomStrong
	case graph.EdgeCustom:
		return ColorEdgeCustom
	default:
		return ColorEdgeStandard
	}
}

// NodeColor returns the fill colour of a relationship graph node.
func NodeColor(n *graph.Node) string {
	switch {
	case n.IsFiltered:
		return ColorFiltered
	case n.IsCenter():
		return ColorCenter
	case n.IsCustom:
		return ColorCustom
	default:
		return ColorBase
	}
}
