// Package hierarchy models the data-model tree rendered by tablemap.
//
// A hierarchy is a single-rooted tree of tables. Every [Node] carries a
// [Classification] (base, extended or custom), an ordered list of children,
// and optional field/record counts supplied by the data source. The parent
// owns its children exclusively: a node appears exactly once in the tree.
//
// # Validation
//
// [Validate] enforces the tree invariants before any layout is computed:
//
//   - node names are non-empty and unique across the whole tree
//   - the classification is one of the three known values
//   - no node is reachable twice (no cycles, no shared subtrees)
//
// A nil root is a valid, empty hierarchy.
//
// # Statistics
//
// [Measure] flattens the tree once and reports the node count, the maximum
// depth and the "level width" (the largest number of nodes found at any
// single depth). Layout algorithms use these figures to size their canvas.
//
// # Filtering
//
// [Node.IsFiltered] is transient state owned by the search overlay
// (see package filter). It is never serialized.
package hierarchy
