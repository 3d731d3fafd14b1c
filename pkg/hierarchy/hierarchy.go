package hierarchy

import (
	apperrors "github.com/matzehuels/tablemap/pkg/errors"
)

// Classification tells whether a table ships with the platform (base), is a
// platform table extended with extra fields (extended), or was created by the
// customer (custom).
type Classification string

const (
	Base     Classification = "base"
	Extended Classification = "extended"
	Custom   Classification = "custom"
)

// Valid reports whether c is one of the known classifications.
func (c Classification) Valid() bool {
	switch c {
	case Base, Extended, Custom:
		return true
	default:
		return false
	}
}

// Node is a table in the hierarchy.
//
// Name is the unique key. Label is the display name and may be empty.
// CustomFieldCount and RecordCount are optional and nil when the data source
// did not report them.
type Node struct {
	Name             string         `json:"name"`
	Label            string         `json:"label,omitempty"`
	Classification   Classification `json:"classification"`
	Children         []*Node        `json:"children,omitempty"`
	CustomFieldCount *int           `json:"customFieldCount,omitempty"`
	RecordCount      *int           `json:"recordCount,omitempty"`

	// IsFiltered is set by the search overlay when the node does not match
	// the active search term. It only affects rendering.
	IsFiltered bool `json:"-"`
}

// DisplayLabel returns the label if set, otherwise the name.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Name
}

// IsCustom reports whether the node is classified custom.
func (n *Node) IsCustom() bool { return n.Classification == Custom }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits the tree rooted at root in pre-order, calling fn with each node,
// its parent (nil for the root) and its depth (0 for the root). Returning
// false from fn skips the node's subtree.
//
// Walk is iterative so very deep hierarchies do not grow the goroutine stack.
func Walk(root *Node, fn func(n, parent *Node, depth int) bool) {
	if root == nil {
		return
	}
	type frame struct {
		n, parent *Node
		depth     int
	}
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.n, f.parent, f.depth) {
			continue
		}
		for i := len(f.n.Children) - 1; i >= 0; i-- {
			if c := f.n.Children[i]; c != nil {
				stack = append(stack, frame{n: c, parent: f.n, depth: f.depth + 1})
			}
		}
	}
}

// Find returns the node with the given name, or nil.
func Find(root *Node, name string) *Node {
	var found *Node
	Walk(root, func(n, _ *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Validate checks the tree invariants. A nil root is valid.
//
// Errors carry [apperrors.ErrCodeInvalidHierarchy].
func Validate(root *Node) error {
	if root == nil {
		return nil
	}
	seen := make(map[*Node]bool)
	names := make(map[string]bool)

	var err error
	Walk(root, func(n, parent *Node, _ int) bool {
		if err != nil {
			return false
		}
		if seen[n] {
			if parent != nil {
				err = apperrors.New(apperrors.ErrCodeInvalidHierarchy, "node %q is reachable more than once (under %q)", n.Name, parent.Name)
			} else {
				err = apperrors.New(apperrors.ErrCodeInvalidHierarchy, "node %q is reachable more than once", n.Name)
			}
			return false
		}
		seen[n] = true
		if verr := apperrors.ValidateTableName(n.Name); verr != nil {
			err = apperrors.Wrap(apperrors.ErrCodeInvalidHierarchy, verr, "invalid node name")
			return false
		}
		if names[n.Name] {
			err = apperrors.New(apperrors.ErrCodeInvalidHierarchy, "duplicate node name %q", n.Name)
			return false
		}
		names[n.Name] = true
		if !n.Classification.Valid() {
			err = apperrors.New(apperrors.ErrCodeInvalidHierarchy, "node %q has unknown classification %q", n.Name, n.Classification)
			return false
		}
		return true
	})
	return err
}
