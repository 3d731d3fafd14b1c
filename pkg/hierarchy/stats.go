package hierarchy

// Stats summarizes the shape of a hierarchy.
type Stats struct {
	NodeCount   int   // Total number of nodes
	MaxDepth    int   // Depth of the deepest node (root = 0)
	LevelWidth  int   // Largest number of nodes found at a single depth
	LevelCounts []int // Node count per depth, indexed by depth
	CustomCount int   // Nodes classified custom
}

// Measure flattens the tree once and returns its statistics.
// An empty hierarchy yields the zero Stats.
func Measure(root *Node) Stats {
	var s Stats
	Walk(root, func(n, _ *Node, depth int) bool {
		s.NodeCount++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		for len(s.LevelCounts) <= depth {
			s.LevelCounts = append(s.LevelCounts, 0)
		}
		s.LevelCounts[depth]++
		if n.IsCustom() {
			s.CustomCount++
		}
		return true
	})
	for _, c := range s.LevelCounts {
		if c > s.LevelWidth {
			s.LevelWidth = c
		}
	}
	return s
}

// Flatten returns all nodes in pre-order.
func Flatten(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n, _ *Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// CountCustom returns the number of nodes classified custom.
func CountCustom(root *Node) int {
	return Measure(root).CustomCount
}
