package io

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/matzehuels/tablemap/pkg/hierarchy"
	"github.com/matzehuels/tablemap/pkg/layout"
)

type layoutDoc struct {
	Kind      string            `json:"kind"`
	Tier      layout.Tier       `json:"performanceTier"`
	NodeCount int               `json:"nodeCount"`
	Bounds    layout.Dimensions `json:"bounds"`
	Extent    layout.Dimensions `json:"extent"`
	Margin    layout.Margin     `json:"margin"`
	Nodes     []layoutNode      `json:"nodes"`
	Links     []layoutLink      `json:"links"`
	Warnings  []string          `json:"warnings,omitempty"`
}

type layoutNode struct {
	Name           string                   `json:"name"`
	Label          string                   `json:"label"`
	Classification hierarchy.Classification `json:"classification"`
	Depth          int                      `json:"depth"`
	X              float64                  `json:"x"`
	Y              float64                  `json:"y"`
	Parent         string                   `json:"parent,omitempty"`
	IsFiltered     bool                     `json:"isFiltered,omitempty"`
}

type layoutLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// WriteLayout encodes a layout result as indented JSON. Nodes appear in
// pre-order and links reference nodes by name.
func WriteLayout(res *layout.Result, w io.Writer) error {
	doc := layoutDoc{
		Kind:      string(res.Kind),
		Tier:      res.Tier,
		NodeCount: res.NodeCount,
		Bounds:    res.Bounds,
		Extent:    res.Extent,
		Margin:    res.Margin,
		Nodes:     make([]layoutNode, len(res.Nodes)),
		Links:     make([]layoutLink, len(res.Links)),
		Warnings:  res.Warnings,
	}
	for i, p := range res.Nodes {
		n := layoutNode{Name: p.Name, Depth: p.Depth, X: p.X, Y: p.Y}
		if p.Node != nil {
			n.Label = p.Node.DisplayLabel()
			n.Classification = p.Node.Classification
			n.IsFiltered = p.Node.IsFiltered
		}
		if p.Parent != nil {
			n.Parent = p.Parent.Name
		}
		doc.Nodes[i] = n
	}
	for i, l := range res.Links {
		doc.Links[i] = layoutLink{Source: l.Source.Name, Target: l.Target.Name}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayout writes a layout result to a JSON file.
func ExportLayout(res *layout.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
