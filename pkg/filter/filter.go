// Package filter marks nodes that do not match a search term.
//
// Matching is a case-insensitive substring test against a node's name and
// label, using Unicode case folding. Filtering never removes nodes or moves
// them: non-matching nodes get IsFiltered set so the view can dim them, and
// layout geometry and simulation state stay untouched.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
)

// Matcher tests names and labels against one folded term.
type Matcher struct {
	term   string
	folder cases.Caser
}

// NewMatcher prepares term for matching. A blank term matches everything.
func NewMatcher(term string) *Matcher {
	m := &Matcher{folder: cases.Fold()}
	m.term = m.folder.String(strings.TrimSpace(term))
	return m
}

// Empty reports whether the term is blank.
func (m *Matcher) Empty() bool { return m.term == "" }

// Match reports whether any of the fields contains the term.
func (m *Matcher) Match(fields ...string) bool {
	if m.term == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(m.folder.String(f), m.term) {
			return true
		}
	}
	return false
}

// Hierarchy marks every node of the tree and returns the matching count. A
// blank term clears every mark and counts all nodes.
func Hierarchy(root *hierarchy.Node, term string) int {
	m := NewMatcher(term)
	count := 0
	hierarchy.Walk(root, func(n, _ *hierarchy.Node, _ int) bool {
		ok := m.Match(n.Name, n.Label)
		n.IsFiltered = !ok
		if ok {
			count++
		}
		return true
	})
	return count
}

// Nodes marks relationship graph nodes and returns the matching count.
func Nodes(nodes []*graph.Node, term string) int {
	m := NewMatcher(term)
	count := 0
	for _, n := range nodes {
		ok := m.Match(n.ID, n.Label)
		n.IsFiltered = !ok
		if ok {
			count++
		}
	}
	return count
}
