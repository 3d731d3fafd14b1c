package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/filter"
	"github.com/matzehuels/tablemap/pkg/force"
	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/layout"
	"github.com/matzehuels/tablemap/pkg/viewport"
)

// FocusOptions configures a FocusView. Zero values select defaults.
type FocusOptions struct {
	Canvas layout.Dimensions
	Force  *force.Config
	Logger *log.Logger
}

// FocusView shows the relationship graph of one focused table at a time.
type FocusView struct {
	dims   layout.Dimensions
	cfg    force.Config
	logger *log.Logger

	engine *graph.Engine
	term   string
	closed bool
}

// NewFocusView creates a view with no focused table.
func NewFocusView(opts FocusOptions) *FocusView {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := force.DefaultConfig()
	if opts.Force != nil {
		cfg = *opts.Force
	}
	return &FocusView{dims: dimsOrDefault(opts.Canvas), cfg: cfg, logger: logger}
}

// Focus starts a new simulation for center and stops the current one, if
// any. The previous engine is never stepped again. When the new graph cannot
// be built the current engine stays live.
func (v *FocusView) Focus(ctx context.Context, center string, rels []graph.Relationship, tables []graph.Table) (*graph.Engine, error) {
	if v.closed {
		return nil, closedError("focus view")
	}

	g, err := graph.Build(center, rels, tables)
	if err != nil {
		return nil, err
	}
	e, err := graph.NewEngine(ctx, g, v.dims, v.cfg)
	if err != nil {
		return nil, err
	}
	v.stop(ctx, "refocus")
	v.engine = e
	if v.term != "" {
		filter.Nodes(g.Nodes(), v.term)
	}
	v.logger.Debug("focused table", "center", center, "engine", e.ID(),
		"connected", len(g.Connected), "edges", len(g.Edges))
	return e, nil
}

// Engine returns the live engine, or nil before the first Focus.
func (v *FocusView) Engine() *graph.Engine { return v.engine }

// Graph returns the focused graph, or nil.
func (v *FocusView) Graph() *graph.Graph {
	if v.engine == nil {
		return nil
	}
	return v.engine.Graph()
}

// Tick advances the simulation by one frame. It reports whether anything
// moved.
func (v *FocusView) Tick() (bool, error) {
	if v.closed {
		return false, closedError("focus view")
	}
	if v.engine == nil {
		return false, nil
	}
	return v.engine.Tick(), nil
}

// DragStart begins dragging node id at pointer (x, y).
func (v *FocusView) DragStart(id string, x, y float64) error {
	e, err := v.live()
	if err != nil {
		return err
	}
	return e.DragStart(id, x, y)
}

// DragMove moves the pointer of an active drag.
func (v *FocusView) DragMove(id string, x, y float64) error {
	e, err := v.live()
	if err != nil {
		return err
	}
	return e.DragMove(id, x, y)
}

// DragEnd ends the drag on node id.
func (v *FocusView) DragEnd(id string) error {
	e, err := v.live()
	if err != nil {
		return err
	}
	return e.DragEnd(id)
}

// Zoom returns the pan/zoom controller of the focused graph.
func (v *FocusView) Zoom() (*viewport.Zoom, error) {
	e, err := v.live()
	if err != nil {
		return nil, err
	}
	return e.Zoom(), nil
}

// Search marks graph nodes that do not match term. The term sticks across
// refocus.
func (v *FocusView) Search(term string) (int, error) {
	if v.closed {
		return 0, closedError("focus view")
	}
	v.term = term
	if v.engine == nil {
		return 0, nil
	}
	return filter.Nodes(v.engine.Graph().Nodes(), term), nil
}

// Close stops the simulation. Every later call returns VIEW_CLOSED.
func (v *FocusView) Close(ctx context.Context) {
	if v.closed {
		return
	}
	v.stop(ctx, "teardown")
	v.closed = true
}

func (v *FocusView) stop(ctx context.Context, reason string) {
	if v.engine == nil {
		return
	}
	v.engine.Stop(ctx, reason)
	v.engine = nil
}

func (v *FocusView) live() (*graph.Engine, error) {
	if v.closed {
		return nil, closedError("focus view")
	}
	if v.engine == nil {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no table is focused")
	}
	return v.engine, nil
}
