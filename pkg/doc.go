// Package pkg provides the core libraries for tablemap, a visualizer for the
// data model of a record-oriented platform.
//
// # Overview
//
// tablemap draws two views of the same schema:
//
//   - The hierarchy map lays out table inheritance as a tidy tree (or a
//     radial tree) whose algorithm tier scales with the size of the model.
//   - The relationship graph centers one table and arranges its reference
//     neighbours with a force-directed simulation the user can drag and zoom.
//
// Both views share a viewport with a minimap, a search overlay and an
// adaptive performance monitor that escalates the layout mode when
// rendering gets slow.
//
// # Architecture
//
// The typical data flow:
//
//	hierarchy JSON / relationship bundle
//	         ↓
//	    [io] package (import and validate)
//	         ↓
//	    [layout] or [graph] + [force] (geometry)
//	         ↓
//	    [filter], [viewport], [perf] (overlays and sampling)
//	         ↓
//	    [render/nodelink] or [io] export (DOT, SVG, JSON)
//
// [pipeline] ties these together into the two stateful views the CLI drives.
//
// # Quick Start
//
//	root, _ := io.ImportHierarchy("model.json")
//	view := pipeline.NewTreeView(pipeline.TreeOptions{})
//	if err := view.Load(ctx, root); err != nil {
//	    return err
//	}
//	fmt.Println(view.Stats())
//
// # Supporting Packages
//
// [hierarchy] - Hierarchy node types, validation and statistics.
//
// [config] - TOML configuration with XDG defaults.
//
// [errors] - Structured error codes shared by every package.
//
// [observability] - Hooks for layout, simulation and performance events.
//
// [buildinfo] - Version information stamped at build time.
//
// [io]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/io
// [layout]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/graph
// [force]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/force
// [filter]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/filter
// [viewport]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/viewport
// [perf]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/perf
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/pipeline
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/hierarchy
// [config]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tablemap/pkg/buildinfo
package pkg
