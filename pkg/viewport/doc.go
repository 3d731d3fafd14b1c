// Package viewport keeps a miniature overview in sync with a panned and
// zoomed primary view.
//
// The primary view's pan/zoom state is a [Transform]. A [Zoom] controller
// owns one and clamps its scale to [MinScale, MaxScale]; it never touches
// node geometry.
//
// A [Minimap] derives everything it draws from its inputs on each
// [Minimap.Sync]:
//
//   - a compact tree layout fitted to the minimap canvas
//   - a [Heatmap] of custom-classified tables
//   - the viewport indicator rectangle, clamped to the canvas
//   - the selected node marker
//
// Clicks are resolved with [Pick] (global nearest node within PickRadius)
// and turned back into a primary transform with [Navigate].
package viewport
