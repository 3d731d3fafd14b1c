package layout

import (
	"strings"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
)

// Kind names a layout algorithm.
type Kind string

const (
	KindTree     Kind = "tree"
	KindSunburst Kind = "sunburst"
)

// PerformanceMode is the caller's rendering-strategy selector.
type PerformanceMode string

const (
	ModeAuto    PerformanceMode = "auto"
	ModeHigh    PerformanceMode = "high"
	ModeMaximum PerformanceMode = "maximum"
)

// Valid reports whether m is a known mode. The empty mode is treated as auto.
func (m PerformanceMode) Valid() bool {
	switch m {
	case "", ModeAuto, ModeHigh, ModeMaximum:
		return true
	default:
		return false
	}
}

// ParseMode converts user input into a PerformanceMode.
func ParseMode(s string) (PerformanceMode, error) {
	m := PerformanceMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeAuto, nil
	}
	if !m.Valid() {
		return "", apperrors.New(apperrors.ErrCodeInvalidMode, "unknown performance mode %q (want auto, high or maximum)", s)
	}
	return m, nil
}

// Escalate returns the next more aggressive mode. Maximum stays maximum.
func (m PerformanceMode) Escalate() PerformanceMode {
	switch m {
	case ModeHigh:
		return ModeMaximum
	case ModeMaximum:
		return ModeMaximum
	default:
		return ModeHigh
	}
}

// Tier is the performance classification of a computed layout.
type Tier string

const (
	TierNormal Tier = "normal"
	TierHigh   Tier = "high"
	TierUltra  Tier = "ultra"
)

// Node-count thresholds for the high and ultra tiers.
const (
	HighTierThreshold  = 500
	UltraTierThreshold = 1000
)

// TierFor classifies a layout by node count, raised by an explicit mode.
func TierFor(nodeCount int, mode PerformanceMode) Tier {
	tier := TierNormal
	switch {
	case nodeCount > UltraTierThreshold:
		tier = TierUltra
	case nodeCount > HighTierThreshold:
		tier = TierHigh
	}
	switch mode {
	case ModeMaximum:
		tier = TierUltra
	case ModeHigh:
		if tier == TierNormal {
			tier = TierHigh
		}
	}
	return tier
}

// Stretch returns the width and height multipliers applied to the layout
// extent for the tier.
func (t Tier) Stretch() (width, height float64) {
	switch t {
	case TierUltra:
		return 1.2, 1.5
	case TierHigh:
		return 1.1, 1.2
	default:
		return 1, 1
	}
}

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margin is the padding reserved around the placed nodes.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Horizontal returns Left + Right.
func (m Margin) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns Top + Bottom.
func (m Margin) Vertical() float64 { return m.Top + m.Bottom }

// DefaultMargin leaves room for labels on both sides of a horizontal tree.
var DefaultMargin = Margin{Top: 20, Right: 120, Bottom: 20, Left: 120}

// RadialSettings configures radial variants. Only sunburst reads it.
type RadialSettings struct {
	InnerRadius float64 `json:"innerRadius"`
	OuterRadius float64 `json:"outerRadius"`
	StartAngle  float64 `json:"startAngle"`
	EndAngle    float64 `json:"endAngle"`
}

// Point is a hierarchy node positioned by one layout computation.
type Point struct {
	Node  *hierarchy.Node `json:"-"`
	Name  string          `json:"name"`
	Depth int             `json:"depth"`
	X     float64         `json:"x"`
	Y     float64         `json:"y"`

	Parent   *Point   `json:"-"`
	Children []*Point `json:"-"`
}

// Link connects a parent point to one of its children.
type Link struct {
	Source *Point
	Target *Point
}

// Result is the output of one layout computation.
type Result struct {
	Kind      Kind       `json:"kind"`
	Nodes     []*Point   `json:"nodes"`
	Links     []Link     `json:"-"`
	Bounds    Dimensions `json:"bounds"`
	Extent    Dimensions `json:"extent"`
	Margin    Margin     `json:"margin"`
	NodeCount int        `json:"nodeCount"`
	Tier      Tier       `json:"performanceTier"`

	// Warnings lists non-fatal fallbacks taken while computing the result.
	Warnings []string `json:"warnings,omitempty"`
}

// Root returns the root point, or nil for an empty layout.
func (r *Result) Root() *Point {
	if r == nil || len(r.Nodes) == 0 {
		return nil
	}
	return r.Nodes[0]
}

// Lookup returns the point for the named node, or nil.
func (r *Result) Lookup(name string) *Point {
	if r == nil {
		return nil
	}
	for _, p := range r.Nodes {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Algorithm computes a layout for a hierarchy.
type Algorithm interface {
	Kind() Kind
	Calculate(root *hierarchy.Node, dims Dimensions, mode PerformanceMode, radial *RadialSettings) (*Result, error)
}
