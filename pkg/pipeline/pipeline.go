// Package pipeline orchestrates the two tablemap views.
//
// Both views are driven by a single host loop and are not safe for
// concurrent use. Every input change recomputes derived geometry wholesale;
// nothing is patched incrementally.
//
// # Tree View
//
// [TreeView] owns the hierarchy map:
//
//  1. Layout: the layout factory computes a Result for the current
//     hierarchy, canvas and performance mode
//  2. Minimap: the overview is re-synced from the hierarchy, the selection
//     and the primary transform on demand
//  3. Performance: each render is bracketed by the monitor; samples can
//     degrade the performance mode through Adapt
//  4. Search: marks non-matching nodes without touching geometry
//
// # Focus View
//
// [FocusView] owns the relationship graph of one focused table. Focusing a
// new table stops the previous simulation before building the next one, so
// a torn-down engine is never stepped or read again.
//
// # Usage
//
//	view := pipeline.NewTreeView(pipeline.TreeOptions{Logger: logger})
//	defer view.Close()
//	res, err := view.Load(ctx, root)
//	...
//	snap, err := view.Minimap()
//
//	focus := pipeline.NewFocusView(pipeline.FocusOptions{})
//	defer focus.Close(ctx)
//	engine, err := focus.Focus(ctx, "incident", rels, tables)
//	for frame := range frames {
//	    focus.Tick()
//	}
package pipeline

import (
	"fmt"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultMaxTicks bounds headless simulation runs.
	DefaultMaxTicks = 600
)

// Graph output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported graph output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidKinds is the set of layout kinds accepted on input. Other kinds are
// still tolerated by the factory, which falls back to tree.
var ValidKinds = map[layout.Kind]bool{
	layout.KindTree:     true,
	layout.KindSunburst: true,
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a graph output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateKind checks that a layout kind is known.
func ValidateKind(kind string) error {
	if !ValidKinds[layout.Kind(kind)] {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid layout type: %q (must be one of: tree, sunburst)", kind)
	}
	return nil
}

// closedError is returned by every view method after Close.
func closedError(view string) error {
	return apperrors.New(apperrors.ErrCodeViewClosed, "%s is closed", view)
}

func dimsOrDefault(d layout.Dimensions) layout.Dimensions {
	if d.Width <= 0 {
		d.Width = DefaultWidth
	}
	if d.Height <= 0 {
		d.Height = DefaultHeight
	}
	return d
}

// Stats describes the last recompute of a view.
type Stats struct {
	NodeCount  int
	Tier       layout.Tier
	Mode       layout.PerformanceMode
	Recomputes int
	Matches    int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, tier %s, mode %s, %d recomputes", s.NodeCount, s.Tier, s.Mode, s.Recomputes)
}
