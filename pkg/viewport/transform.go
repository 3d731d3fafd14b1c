package viewport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Scale extent of the primary view.
const (
	MinScale = 0.1
	MaxScale = 4.0
)

// Transform is the pan offset and zoom scale of the primary view. A layout
// point p is drawn at p*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the unpanned, unzoomed transform.
var Identity = Transform{K: 1}

// Apply maps a layout-space point to screen space.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen-space point back to layout space.
func (t Transform) Invert(p r2.Vec) r2.Vec {
	k := t.K
	if k == 0 {
		k = 1
	}
	return r2.Vec{X: (p.X - t.X) / k, Y: (p.Y - t.Y) / k}
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// sanitize replaces non-finite components and non-positive scales.
func (t Transform) sanitize() Transform {
	if !finite(t.X) {
		t.X = 0
	}
	if !finite(t.Y) {
		t.Y = 0
	}
	if !finite(t.K) || t.K <= 0 {
		t.K = 1
	}
	return t
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Zoom is a pan/zoom controller for one view.
type Zoom struct {
	Min, Max float64
	t        Transform
}

// NewZoom returns a controller at Identity with the default scale extent.
func NewZoom() *Zoom {
	return &Zoom{Min: MinScale, Max: MaxScale, t: Identity}
}

// Transform returns the current transform.
func (z *Zoom) Transform() Transform { return z.t }

// Set replaces the transform, clamping its scale.
func (z *Zoom) Set(t Transform) Transform {
	t = t.sanitize()
	t.K = z.clampScale(t.K)
	z.t = t
	return z.t
}

// Pan translates the view by (dx, dy) screen pixels.
func (z *Zoom) Pan(dx, dy float64) Transform {
	return z.Set(Transform{X: z.t.X + dx, Y: z.t.Y + dy, K: z.t.K})
}

// ZoomAt multiplies the scale by factor, keeping the screen point p fixed.
func (z *Zoom) ZoomAt(p r2.Vec, factor float64) Transform {
	if !finite(factor) || factor <= 0 {
		return z.t
	}
	anchor := z.t.Invert(p)
	k := z.clampScale(z.t.K * factor)
	return z.Set(Transform{X: p.X - anchor.X*k, Y: p.Y - anchor.Y*k, K: k})
}

// Reset returns to Identity.
func (z *Zoom) Reset() Transform { return z.Set(Identity) }

func (z *Zoom) clampScale(k float64) float64 {
	lo, hi := z.Min, z.Max
	if lo <= 0 {
		lo = MinScale
	}
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(k, lo), hi)
}
