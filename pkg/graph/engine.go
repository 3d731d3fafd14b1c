package graph

import (
	"context"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/force"
	"github.com/matzehuels/tablemap/pkg/layout"
	"github.com/matzehuels/tablemap/pkg/observability"
	"github.com/matzehuels/tablemap/pkg/viewport"
)

// Engine drives a Graph with a force simulation. It is not safe for
// concurrent use; the frame loop owns it.
type Engine struct {
	id       string
	g        *Graph
	sim      *force.Simulation
	zoom     *viewport.Zoom
	dims     layout.Dimensions
	centroid r2.Vec
}

// NewEngine starts a simulation for g on a canvas of the given size. The
// center node is pinned at the canvas centroid for the engine's lifetime.
func NewEngine(ctx context.Context, g *Graph, dims layout.Dimensions, cfg force.Config) (*Engine, error) {
	if g == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "graph is nil")
	}
	if err := apperrors.ValidateDimensions(dims.Width, dims.Height); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	links := make([]force.Link, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Source != e.Target {
			links = append(links, force.Link{Source: e.Source.index, Target: e.Target.index})
		}
	}
	centroid := r2.Vec{X: dims.Width / 2, Y: dims.Height / 2}
	sim := force.New(len(g.nodes), links, centroid, cfg)
	if err := sim.Anchor(g.Center.index, centroid); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "pin center")
	}

	e := &Engine{
		id:       uuid.NewString(),
		g:        g,
		sim:      sim,
		zoom:     viewport.NewZoom(),
		dims:     dims,
		centroid: centroid,
	}
	e.sync()
	observability.Simulation().OnSimulationStart(ctx, e.id, len(g.nodes), len(g.Edges))
	return e, nil
}

// ID identifies this engine instance in logs and hook events.
func (e *Engine) ID() string { return e.id }

// Graph returns the model the engine keeps in sync.
func (e *Engine) Graph() *Graph { return e.g }

// Dimensions returns the canvas size.
func (e *Engine) Dimensions() layout.Dimensions { return e.dims }

// Centroid returns the center node's pinned position.
func (e *Engine) Centroid() r2.Vec { return e.centroid }

// Zoom returns the pan/zoom controller. It never changes node geometry.
func (e *Engine) Zoom() *viewport.Zoom { return e.zoom }

// Alpha returns the simulation heat.
func (e *Engine) Alpha() float64 { return e.sim.Alpha() }

// Ticks returns the number of simulation ticks taken.
func (e *Engine) Ticks() int { return e.sim.Ticks() }

// Settled reports whether the simulation came to rest.
func (e *Engine) Settled() bool { return e.sim.Settled() }

// Stopped reports whether Stop was called.
func (e *Engine) Stopped() bool { return e.sim.Stopped() }

// Tick advances the simulation one step and refreshes every node position
// and edge endpoint. It returns false once settled or stopped.
func (e *Engine) Tick() bool {
	if !e.sim.Step() {
		return false
	}
	e.sync()
	return true
}

// Run ticks until the simulation settles, maxTicks is reached (0 = no
// limit) or ctx is done.
func (e *Engine) Run(ctx context.Context, maxTicks int) int {
	n := e.sim.Run(ctx, maxTicks)
	e.sync()
	return n
}

// Stop ends the simulation. It is idempotent; only the first call reports
// to the simulation hooks.
func (e *Engine) Stop(ctx context.Context, reason string) {
	if e.sim.Stopped() {
		return
	}
	e.sim.Stop()
	observability.Simulation().OnSimulationStop(ctx, e.id, e.sim.Ticks(), reason)
}

// DragStart pins the node to the pointer and raises the simulation heat.
func (e *Engine) DragStart(id string, x, y float64) error {
	i, err := e.lookup(id)
	if err != nil {
		return err
	}
	if err := e.sim.DragStart(i, r2.Vec{X: x, Y: y}); err != nil {
		return err
	}
	e.syncPin(i)
	return nil
}

// DragMove updates the pinned position; the next Tick moves the node.
func (e *Engine) DragMove(id string, x, y float64) error {
	i, err := e.lookup(id)
	if err != nil {
		return err
	}
	if err := e.sim.DragMove(i, r2.Vec{X: x, Y: y}); err != nil {
		return err
	}
	e.syncPin(i)
	return nil
}

// DragEnd releases the node unless it is the center, and lets the heat
// decay.
func (e *Engine) DragEnd(id string) error {
	i, err := e.lookup(id)
	if err != nil {
		return err
	}
	if err := e.sim.DragEnd(i); err != nil {
		return err
	}
	e.syncPin(i)
	return nil
}

// Dragging reports whether a drag is active on the node.
func (e *Engine) Dragging(id string) bool {
	n, ok := e.g.byID[id]
	return ok && e.sim.Body(n.index).Dragging()
}

// Neighbors returns the nodes adjacent to id.
func (e *Engine) Neighbors(id string) []*Node { return e.g.Neighbors(id) }

func (e *Engine) lookup(id string) (int, error) {
	if e.sim.Stopped() {
		return 0, apperrors.New(apperrors.ErrCodeViewClosed, "simulation %s is stopped", e.id)
	}
	n, ok := e.g.byID[id]
	if !ok {
		return 0, apperrors.New(apperrors.ErrCodeNotFound, "node %q not in graph", id)
	}
	return n.index, nil
}

func (e *Engine) sync() {
	for i := range e.g.nodes {
		e.syncNode(i)
	}
	for _, ed := range e.g.Edges {
		ed.X1, ed.Y1 = ed.Source.X, ed.Source.Y
		ed.X2, ed.Y2 = ed.Target.X, ed.Target.Y
	}
}

func (e *Engine) syncNode(i int) {
	n := e.g.nodes[i]
	b := e.sim.Body(i)
	n.X, n.Y = b.Pos.X, b.Pos.Y
	e.syncPin(i)
}

func (e *Engine) syncPin(i int) {
	n := e.g.nodes[i]
	b := e.sim.Body(i)
	if b.Pin == nil {
		n.FX, n.FY = nil, nil
		return
	}
	fx, fy := b.Pin.X, b.Pin.Y
	n.FX, n.FY = &fx, &fy
}
