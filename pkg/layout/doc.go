// Package layout computes 2-D geometry for a table hierarchy.
//
// Layout algorithms share a single contract, [Algorithm]: given a hierarchy
// root, the canvas [Dimensions], a [PerformanceMode] and optional
// [RadialSettings], produce a [Result] of positioned [Point] values and the
// parent→child [Link] values between them.
//
// # Algorithms
//
// A [Factory] maps a [Kind] to an implementation:
//
//	tree      tidy tree (Buchheim/Walker), the fully specified variant
//	sunburst  stub that returns the tree geometry, flagged in Result.Warnings
//
// Unknown kinds fall back to tree. The fallback is logged and reported through
// observability.Layout().OnLayoutFallback; it never fails the call.
//
// # Performance Tiers
//
// Large hierarchies are handled by widening the layout extent, not by
// chunking the computation:
//
//	normal  ≤ 500 nodes    no extra stretch
//	high    > 500 nodes    ×1.1 width, ×1.2 height
//	ultra   > 1000 nodes   ×1.2 width, ×1.5 height
//
// An explicit [ModeHigh] or [ModeMaximum] raises the tier to at least high or
// ultra respectively.
//
// # Coordinates
//
// Results are in layout space: X runs along the depth axis with the root at
// X = 0, Y runs along the breadth axis. Flipping axes for a vertical
// presentation is the renderer's concern.
//
// # Lifecycle
//
// A [Result] is computed wholesale from its inputs and never patched. Points
// belong to exactly one Result; recompute instead of mutating.
package layout
