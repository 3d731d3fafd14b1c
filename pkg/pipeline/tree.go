package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/filter"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
	"github.com/matzehuels/tablemap/pkg/layout"
	"github.com/matzehuels/tablemap/pkg/observability"
	"github.com/matzehuels/tablemap/pkg/perf"
	"github.com/matzehuels/tablemap/pkg/viewport"
)

// TreeOptions configures a TreeView. Zero values select defaults.
type TreeOptions struct {
	Kind    layout.Kind
	Mode    layout.PerformanceMode
	Canvas  layout.Dimensions
	Minimap layout.Dimensions

	// MinimapHidden starts with the overview hidden.
	MinimapHidden bool

	Factory *layout.Factory
	Monitor *perf.Monitor
	Logger  *log.Logger
}

// TreeView is the hierarchy map: layout, minimap, performance feedback and
// search for one hierarchy.
type TreeView struct {
	kind    layout.Kind
	mode    layout.PerformanceMode
	dims    layout.Dimensions
	factory *layout.Factory
	monitor *perf.Monitor
	logger  *log.Logger
	minimap *viewport.Minimap
	zoom    *viewport.Zoom

	root       *hierarchy.Node
	result     *layout.Result
	selected   string
	term       string
	matches    int
	lastRender time.Duration
	recomputes int
	closed     bool
}

// NewTreeView creates an empty view. Call Load to give it a hierarchy.
func NewTreeView(opts TreeOptions) *TreeView {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	factory := opts.Factory
	if factory == nil {
		factory = layout.NewFactory(logger)
	}
	monitor := opts.Monitor
	if monitor == nil {
		monitor = perf.NewMonitor()
	}
	kind := opts.Kind
	if kind == "" {
		kind = layout.KindTree
	}
	mode := opts.Mode
	if mode == "" {
		mode = layout.ModeAuto
	}
	mm := viewport.NewMinimap(opts.Minimap.Width, opts.Minimap.Height)
	mm.SetVisible(!opts.MinimapHidden)
	return &TreeView{
		kind:    kind,
		mode:    mode,
		dims:    dimsOrDefault(opts.Canvas),
		factory: factory,
		monitor: monitor,
		logger:  logger,
		minimap: mm,
		zoom:    viewport.NewZoom(),
	}
}

// Load replaces the hierarchy and recomputes the layout. The selection is
// kept when the selected table still exists; the active search term is
// re-applied to the new nodes.
func (v *TreeView) Load(ctx context.Context, root *hierarchy.Node) (*layout.Result, error) {
	if v.closed {
		return nil, closedError("tree view")
	}
	if err := hierarchy.Validate(root); err != nil {
		return nil, err
	}
	prev := v.root
	v.root = root
	if err := v.recompute(ctx); err != nil {
		v.root = prev
		return nil, err
	}
	if v.selected != "" && hierarchy.Find(root, v.selected) == nil {
		v.selected = ""
	}
	v.matches = filter.Hierarchy(root, v.term)
	return v.result, nil
}

// Resize recomputes the layout for a new canvas size.
func (v *TreeView) Resize(ctx context.Context, dims layout.Dimensions) (*layout.Result, error) {
	if v.closed {
		return nil, closedError("tree view")
	}
	if err := apperrors.ValidateDimensions(dims.Width, dims.Height); err != nil {
		return nil, err
	}
	prev := v.dims
	v.dims = dims
	if err := v.recompute(ctx); err != nil {
		v.dims = prev
		return nil, err
	}
	return v.result, nil
}

// SetMode recomputes the layout under a new performance mode.
func (v *TreeView) SetMode(ctx context.Context, mode layout.PerformanceMode) (*layout.Result, error) {
	if v.closed {
		return nil, closedError("tree view")
	}
	if !mode.Valid() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidMode, "unknown performance mode %q", mode)
	}
	if mode == "" {
		mode = layout.ModeAuto
	}
	v.mode = mode
	if err := v.recompute(ctx); err != nil {
		return nil, err
	}
	return v.result, nil
}

// SetKind recomputes the layout with another algorithm. Unknown kinds fall
// back to tree inside the factory.
func (v *TreeView) SetKind(ctx context.Context, kind layout.Kind) (*layout.Result, error) {
	if v.closed {
		return nil, closedError("tree view")
	}
	v.kind = kind
	if err := v.recompute(ctx); err != nil {
		return nil, err
	}
	return v.result, nil
}

func (v *TreeView) recompute(ctx context.Context) error {
	v.monitor.StartRender()
	res, err := v.factory.Calculate(ctx, v.kind, v.root, v.dims, v.mode, nil)
	elapsed := v.monitor.EndRender()
	if err != nil {
		return err
	}
	v.result = res
	v.lastRender = elapsed
	v.recomputes++
	return nil
}

// Layout returns the current layout, or nil before Load.
func (v *TreeView) Layout() *layout.Result { return v.result }

// Mode returns the current performance mode.
func (v *TreeView) Mode() layout.PerformanceMode { return v.mode }

// Kind returns the requested layout kind.
func (v *TreeView) Kind() layout.Kind { return v.kind }

// Dimensions returns the canvas size.
func (v *TreeView) Dimensions() layout.Dimensions { return v.dims }

// LastRender returns the duration of the last layout computation.
func (v *TreeView) LastRender() time.Duration { return v.lastRender }

// Stats summarises the current state.
func (v *TreeView) Stats() Stats {
	s := Stats{Mode: v.mode, Recomputes: v.recomputes, Matches: v.matches}
	if v.result != nil {
		s.NodeCount = v.result.NodeCount
		s.Tier = v.result.Tier
	}
	return s
}

// Search marks nodes that do not match term and returns the match count.
// Geometry is not recomputed.
func (v *TreeView) Search(term string) (int, error) {
	if v.closed {
		return 0, closedError("tree view")
	}
	v.term = term
	v.matches = filter.Hierarchy(v.root, term)
	return v.matches, nil
}

// Select marks a table as selected. An empty name clears the selection.
func (v *TreeView) Select(name string) error {
	if v.closed {
		return closedError("tree view")
	}
	if name != "" && hierarchy.Find(v.root, name) == nil {
		return apperrors.New(apperrors.ErrCodeNotFound, "table %q not in hierarchy", name)
	}
	v.selected = name
	return nil
}

// Selected returns the selected table name.
func (v *TreeView) Selected() string { return v.selected }

// Zoom returns the primary pan/zoom controller.
func (v *TreeView) Zoom() *viewport.Zoom { return v.zoom }

// SetTransform replaces the primary transform. The layout is untouched.
func (v *TreeView) SetTransform(t viewport.Transform) (viewport.Transform, error) {
	if v.closed {
		return viewport.Transform{}, closedError("tree view")
	}
	return v.zoom.Set(t), nil
}

// Minimap syncs and returns the overview, or nil when it is hidden.
func (v *TreeView) Minimap() (*viewport.Snapshot, error) {
	if v.closed {
		return nil, closedError("tree view")
	}
	return v.minimap.Sync(v.root, v.selected, v.zoom.Transform(), v.primary())
}

// ToggleMinimap shows or hides the overview without touching the layout.
func (v *TreeView) ToggleMinimap() (bool, error) {
	if v.closed {
		return false, closedError("tree view")
	}
	return v.minimap.Toggle(), nil
}

// MinimapVisible reports whether the overview is shown.
func (v *TreeView) MinimapVisible() bool { return v.minimap.Visible() }

// ClickMinimap resolves a click in minimap space. When it lands within pick
// range of a node, that node is selected and the primary view is centred on
// it at the current zoom.
func (v *TreeView) ClickMinimap(x, y float64) (string, bool, error) {
	snap, err := v.Minimap()
	if err != nil || snap == nil {
		return "", false, err
	}
	name, ok := v.minimap.Click(snap, r2.Vec{X: x, Y: y})
	if !ok {
		return "", false, nil
	}
	v.selected = name
	if p := v.result.Lookup(name); p != nil {
		content := r2.Vec{X: p.X + v.result.Margin.Left, Y: p.Y + v.result.Margin.Top}
		v.zoom.Set(viewport.CenterOn(content, v.zoom.Transform().K, v.dims))
	}
	return name, true, nil
}

func (v *TreeView) primary() viewport.Primary {
	p := viewport.Primary{Viewport: v.dims, Bounds: v.dims}
	if v.result != nil {
		p.Bounds = v.result.Bounds
	}
	return p
}

// Visible counts the nodes whose drawn position lies inside the viewport
// under the current transform.
func (v *TreeView) Visible() int {
	if v.result == nil {
		return 0
	}
	t := v.zoom.Transform()
	n := 0
	for _, p := range v.result.Nodes {
		s := t.Apply(r2.Vec{X: p.X + v.result.Margin.Left, Y: p.Y + v.result.Margin.Top})
		if s.X >= 0 && s.X <= v.dims.Width && s.Y >= 0 && s.Y <= v.dims.Height {
			n++
		}
	}
	return n
}

// Sample takes one performance sample for the last render and reports it to
// the performance hooks.
func (v *TreeView) Sample(ctx context.Context, discovery time.Duration) (perf.Metrics, error) {
	if v.closed {
		return perf.Metrics{}, closedError("tree view")
	}
	var nodes int
	if v.result != nil {
		nodes = v.result.NodeCount
	}
	m := v.monitor.GenerateReport(nodes, v.Visible(), v.lastRender, discovery)
	observability.Performance().OnSample(ctx, m.RenderTime, m.FPS, m.NodeCount, m.VisibleNodes)
	return m, nil
}

// Adapt degrades the performance mode when the sample calls for it and
// recomputes the layout. It reports whether the mode changed.
func (v *TreeView) Adapt(ctx context.Context, m perf.Metrics) (bool, error) {
	if v.closed {
		return false, closedError("tree view")
	}
	next := perf.SuggestMode(m, v.mode)
	if next == v.mode {
		return false, nil
	}
	from := v.mode
	v.logger.Warn("degrading layout", "from", from, "to", next, "render", m.RenderTime, "fps", m.FPS, "nodes", m.NodeCount)
	observability.Performance().OnModeChange(ctx, string(from), string(next))
	if _, err := v.SetMode(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the view. Every later call returns VIEW_CLOSED.
func (v *TreeView) Close() {
	v.closed = true
	v.root = nil
	v.result = nil
}

// Closed reports whether Close was called.
func (v *TreeView) Closed() bool { return v.closed }
