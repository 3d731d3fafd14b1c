package layout

import (
	"fmt"
	"math"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
)

// Default tree geometry.
const (
	DefaultDepthSpacing = 180.0 // pixels per depth level
	DefaultNodeSpacing  = 24.0  // pixels per node in the widest level
)

// Tree is the tidy tree layout.
//
// The zero value uses DefaultMargin, DefaultDepthSpacing and
// DefaultNodeSpacing and applies tier stretching.
type Tree struct {
	Margin       *Margin
	DepthSpacing float64
	NodeSpacing  float64

	// Compact disables tier stretching and the minimum spacings so the
	// result fits the canvas exactly. The minimap uses it.
	Compact bool
}

// Kind implements Algorithm.
func (t Tree) Kind() Kind { return KindTree }

func (t Tree) margin() Margin {
	if t.Margin != nil {
		return *t.Margin
	}
	return DefaultMargin
}

// Calculate implements Algorithm. radial is ignored.
//
// A nil root yields an empty result whose bounds equal the canvas. An unknown
// mode is treated as auto and recorded in Result.Warnings.
func (t Tree) Calculate(root *hierarchy.Node, dims Dimensions, mode PerformanceMode, _ *RadialSettings) (*Result, error) {
	if err := apperrors.ValidateDimensions(dims.Width, dims.Height); err != nil {
		return nil, err
	}
	var warnings []string
	if !mode.Valid() {
		warnings = append(warnings, fmt.Sprintf(WarnUnknownModeFmt, mode))
		mode = ModeAuto
	}
	if err := hierarchy.Validate(root); err != nil {
		return nil, err
	}

	margin := t.margin()
	stats := hierarchy.Measure(root)
	tier := TierFor(stats.NodeCount, mode)

	res := &Result{
		Kind:      KindTree,
		Margin:    margin,
		NodeCount: stats.NodeCount,
		Tier:      tier,
		Bounds:    dims,
		Warnings:  warnings,
	}
	if root == nil {
		return res, nil
	}

	availW := math.Max(dims.Width-margin.Horizontal(), 1)
	availH := math.Max(dims.Height-margin.Vertical(), 1)
	depthExtent, breadthExtent := availW, availH
	if !t.Compact {
		depthSpacing := orDefault(t.DepthSpacing, DefaultDepthSpacing)
		nodeSpacing := orDefault(t.NodeSpacing, DefaultNodeSpacing)
		sw, sh := tier.Stretch()
		depthExtent = math.Max(availW, float64(stats.MaxDepth)*depthSpacing) * sw
		breadthExtent = math.Max(availH, float64(stats.LevelWidth)*nodeSpacing) * sh
	}
	res.Extent = Dimensions{Width: depthExtent, Height: breadthExtent}

	pts, links := buildPoints(root, stats.NodeCount)
	res.Nodes = pts
	res.Links = links

	density := clamp(50/float64(max(stats.LevelWidth, 1)), 0.5, 2.0)
	tidyPlace(pts[0], breadthExtent, depthExtent, func(a, b *tidyNode) float64 {
		if a.parent == b.parent {
			return density
		}
		return 1.5 * density
	})

	var maxX, maxY float64
	for _, p := range pts {
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	res.Bounds = Dimensions{
		Width:  math.Max(maxX+margin.Horizontal(), dims.Width),
		Height: math.Max(maxY+margin.Vertical(), dims.Height),
	}
	return res, nil
}

// buildPoints mirrors the hierarchy as points in pre-order, so Nodes[0] is
// the root.
func buildPoints(root *hierarchy.Node, n int) ([]*Point, []Link) {
	pts := make([]*Point, 0, n)
	links := make([]Link, 0, max(n-1, 0))
	byNode := make(map[*hierarchy.Node]*Point, n)
	hierarchy.Walk(root, func(node, parent *hierarchy.Node, depth int) bool {
		p := &Point{Node: node, Name: node.Name, Depth: depth}
		if parent != nil {
			pp := byNode[parent]
			p.Parent = pp
			pp.Children = append(pp.Children, p)
			links = append(links, Link{Source: pp, Target: p})
		}
		byNode[node] = p
		pts = append(pts, p)
		return true
	})
	return pts, links
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func (r *Result) String() string {
	return fmt.Sprintf("%s layout: %d nodes, tier %s, bounds %.0fx%.0f", r.Kind, r.NodeCount, r.Tier, r.Bounds.Width, r.Bounds.Height)
}
