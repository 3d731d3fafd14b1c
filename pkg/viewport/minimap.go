package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/tablemap/pkg/hierarchy"
	"github.com/matzehuels/tablemap/pkg/layout"
)

// Minimap defaults.
const (
	DefaultMinimapWidth  = 200.0
	DefaultMinimapHeight = 150.0
	MinimapMargin        = 5.0
	PickRadius           = 15.0
)

// Rect is an axis-aligned rectangle in minimap space.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Primary describes the primary view the minimap mirrors: the visible
// viewport size and the full content bounds, both in primary pixels.
type Primary struct {
	Viewport layout.Dimensions
	Bounds   layout.Dimensions
}

// MiniNode is a hierarchy node placed in minimap space.
type MiniNode struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Custom   bool    `json:"custom,omitempty"`
	Selected bool    `json:"selected,omitempty"`
	Filtered bool    `json:"filtered,omitempty"`
}

// Pos returns the node centre.
func (n MiniNode) Pos() r2.Vec { return r2.Vec{X: n.X, Y: n.Y} }

// Snapshot is everything the minimap draws for one set of inputs.
type Snapshot struct {
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Layout    *layout.Result `json:"-"`
	Nodes     []MiniNode     `json:"nodes"`
	Heatmap   *Heatmap       `json:"heatmap"`
	Indicator Rect           `json:"indicator"`
	Selected  int            `json:"selected"` // index into Nodes, -1 when none
	Primary   Primary        `json:"primary"`
}

// SelectedNode returns the selected node, if any.
func (s *Snapshot) SelectedNode() (MiniNode, bool) {
	if s == nil || s.Selected < 0 || s.Selected >= len(s.Nodes) {
		return MiniNode{}, false
	}
	return s.Nodes[s.Selected], true
}

// Minimap is the overview synchronizer. The zero value is not usable; use
// NewMinimap.
type Minimap struct {
	Width, Height float64
	PickRadius    float64

	visible bool
}

// NewMinimap returns a visible minimap of the given size. Non-positive sizes
// use the defaults.
func NewMinimap(width, height float64) *Minimap {
	if width <= 0 {
		width = DefaultMinimapWidth
	}
	if height <= 0 {
		height = DefaultMinimapHeight
	}
	return &Minimap{Width: width, Height: height, PickRadius: PickRadius, visible: true}
}

// Visible reports whether the minimap is shown.
func (m *Minimap) Visible() bool { return m.visible }

// SetVisible shows or hides the minimap.
func (m *Minimap) SetVisible(v bool) { m.visible = v }

// Toggle flips visibility and returns the new state.
func (m *Minimap) Toggle() bool {
	m.visible = !m.visible
	return m.visible
}

// Sync derives a snapshot from the hierarchy, the selected node name, the
// primary transform and the primary view. A hidden minimap returns nil.
func (m *Minimap) Sync(root *hierarchy.Node, selected string, t Transform, primary Primary) (*Snapshot, error) {
	if !m.visible {
		return nil, nil
	}
	margin := layout.Margin{Top: MinimapMargin, Right: MinimapMargin, Bottom: MinimapMargin, Left: MinimapMargin}
	compact := layout.Tree{Margin: &margin, Compact: true}
	res, err := compact.Calculate(root, layout.Dimensions{Width: m.Width, Height: m.Height}, layout.ModeAuto, nil)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Width:    m.Width,
		Height:   m.Height,
		Layout:   res,
		Nodes:    make([]MiniNode, 0, len(res.Nodes)),
		Selected: -1,
		Primary:  primary,
	}
	var hot []r2.Vec
	for _, p := range res.Nodes {
		n := MiniNode{
			Name:     p.Name,
			X:        p.X + margin.Left,
			Y:        p.Y + margin.Top,
			Custom:   p.Node.IsCustom(),
			Filtered: p.Node.IsFiltered,
		}
		if selected != "" && p.Name == selected {
			n.Selected = true
			snap.Selected = len(snap.Nodes)
		}
		if n.Custom {
			hot = append(hot, n.Pos())
		}
		snap.Nodes = append(snap.Nodes, n)
	}
	snap.Heatmap = NewHeatmap(m.Width, m.Height, hot)
	snap.Indicator = Indicator(m.Width, m.Height, t, primary)
	return snap, nil
}

// Indicator maps the primary view's visible extent into minimap space. The
// rectangle is scaled by minimap/bounds and by 1/k, then clamped so it stays
// inside [0, width] × [0, height].
func Indicator(width, height float64, t Transform, primary Primary) Rect {
	t = t.sanitize()
	rx, ry := ratio(width, primary.Bounds.Width), ratio(height, primary.Bounds.Height)

	r := Rect{
		W: nonNeg(primary.Viewport.Width) * rx / t.K,
		H: nonNeg(primary.Viewport.Height) * ry / t.K,
		X: -t.X * rx / t.K,
		Y: -t.Y * ry / t.K,
	}
	r.W = clampF(r.W, 0, width)
	r.H = clampF(r.H, 0, height)
	r.X = clampF(r.X, 0, width-r.W)
	r.Y = clampF(r.Y, 0, height-r.H)
	return r
}

// Pick returns the index of the node nearest to p if it lies strictly within
// radius. Every node is considered; ties keep the earlier node.
func Pick(nodes []MiniNode, p r2.Vec, radius float64) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for i, n := range nodes {
		d := r2.Norm(r2.Sub(n.Pos(), p))
		if d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 || bestD >= radius {
		return -1, false
	}
	return best, true
}

// Click resolves a minimap click to a node name using the minimap's pick
// radius. A click away from every node is a no-op.
func (m *Minimap) Click(snap *Snapshot, p r2.Vec) (string, bool) {
	if snap == nil {
		return "", false
	}
	i, ok := Pick(snap.Nodes, p, m.PickRadius)
	if !ok {
		return "", false
	}
	return snap.Nodes[i].Name, true
}

// Navigate returns the primary transform at scale k that centres the primary
// viewport on the content point under minimap point p. It inverts the
// mapping used by Indicator.
func Navigate(width, height float64, p r2.Vec, k float64, primary Primary) Transform {
	rx, ry := ratio(width, primary.Bounds.Width), ratio(height, primary.Bounds.Height)
	content := r2.Vec{X: p.X / rx, Y: p.Y / ry}
	return CenterOn(content, k, primary.Viewport)
}

// CenterOn returns the transform at scale k that puts content point p in the
// middle of the viewport.
func CenterOn(p r2.Vec, k float64, viewport layout.Dimensions) Transform {
	if !finite(k) || k <= 0 {
		k = 1
	}
	k = clampF(k, MinScale, MaxScale)
	return Transform{
		X: viewport.Width/2 - p.X*k,
		Y: viewport.Height/2 - p.Y*k,
		K: k,
	}
}

func ratio(mini, bounds float64) float64 {
	if !finite(bounds) || bounds <= 0 {
		return 1
	}
	return mini / bounds
}

func nonNeg(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

// clampF clamps v into [lo, hi]; NaN maps to lo and an empty range to lo.
func clampF(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if hi < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
