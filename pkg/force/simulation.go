package force

import (
	"context"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
)

// Config holds the solver parameters.
type Config struct {
	LinkDistance    float64 // rest length of every link
	LinkStrength    float64 // spring stiffness in [0, 1]
	Charge          float64 // many-body strength, negative repels
	CollideRadius   float64 // default body radius for collision
	CenterStrength  float64 // pull toward the centre, scaled by alpha
	AlphaMin        float64 // settle threshold
	AlphaDecay      float64 // per-tick approach rate toward AlphaTarget
	VelocityDecay   float64 // friction, fraction of velocity lost per tick
	DragAlphaTarget float64 // heat held while any body is dragged
	Seed            uint64  // seeds the jiggle used to separate coincident bodies
}

// DefaultConfig returns parameters tuned for a focused-table graph: settle in
// about 300 ticks, links of 100 units, strong repulsion.
func DefaultConfig() Config {
	return Config{
		LinkDistance:    100,
		LinkStrength:    0.5,
		Charge:          -300,
		CollideRadius:   30,
		CenterStrength:  0.05,
		AlphaMin:        0.001,
		AlphaDecay:      1 - math.Pow(0.001, 1.0/300),
		VelocityDecay:   0.4,
		DragAlphaTarget: 0.3,
		Seed:            1,
	}
}

// Validate reports parameters the solver cannot work with.
func (c Config) Validate() error {
	switch {
	case c.LinkDistance < 0 || math.IsNaN(c.LinkDistance):
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "link distance must be >= 0, got %v", c.LinkDistance)
	case c.LinkStrength < 0 || c.LinkStrength > 1:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "link strength must be in [0, 1], got %v", c.LinkStrength)
	case c.CollideRadius < 0:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "collide radius must be >= 0, got %v", c.CollideRadius)
	case c.AlphaDecay <= 0 || c.AlphaDecay >= 1:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "alpha decay must be in (0, 1), got %v", c.AlphaDecay)
	case c.VelocityDecay < 0 || c.VelocityDecay > 1:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "velocity decay must be in [0, 1], got %v", c.VelocityDecay)
	case c.AlphaMin <= 0:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "alpha min must be > 0, got %v", c.AlphaMin)
	}
	return nil
}

// Body is one simulated node.
type Body struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Pin    *r2.Vec // fixed position, nil when free
	Radius float64
	Anchor bool // pinned for the simulation's lifetime

	dragging bool
}

// Pinned reports whether the body is held in place.
func (b Body) Pinned() bool { return b.Pin != nil }

// Dragging reports whether a drag sequence is active on the body.
func (b Body) Dragging() bool { return b.dragging }

// Link is a spring between two bodies, by index.
type Link struct {
	Source, Target int
}

// Simulation is a frame-stepped force solver. It is not safe for concurrent
// use; the host loop owns it.
type Simulation struct {
	cfg    Config
	bodies []Body
	links  []Link
	bias   []float64
	center r2.Vec

	alpha       float64
	alphaTarget float64
	ticks       int
	drags       int
	stopped     bool

	rng *rand.Rand
}

const (
	initialRadius = 10.0
	distanceMin2  = 1.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// New creates a simulation of n bodies placed on a phyllotaxis spiral around
// center. Links referencing bodies outside [0, n) and self-links are dropped.
func New(n int, links []Link, center r2.Vec, cfg Config) *Simulation {
	s := &Simulation{
		cfg:    cfg,
		bodies: make([]Body, n),
		center: center,
		alpha:  1,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	for i := range s.bodies {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.bodies[i] = Body{
			Pos:    r2.Add(center, r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}),
			Radius: cfg.CollideRadius,
		}
	}

	degree := make([]int, n)
	for _, l := range links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n || l.Source == l.Target {
			continue
		}
		s.links = append(s.links, l)
		degree[l.Source]++
		degree[l.Target]++
	}
	s.bias = make([]float64, len(s.links))
	for i, l := range s.links {
		s.bias[i] = float64(degree[l.Source]) / float64(degree[l.Source]+degree[l.Target])
	}
	return s
}

// Len returns the number of bodies.
func (s *Simulation) Len() int { return len(s.bodies) }

// Body returns a copy of body i.
func (s *Simulation) Body(i int) Body { return s.bodies[i] }

// Position returns the current position of body i.
func (s *Simulation) Position(i int) r2.Vec { return s.bodies[i].Pos }

// Center returns the point the centering force pulls toward.
func (s *Simulation) Center() r2.Vec { return s.center }

// Links returns the accepted links.
func (s *Simulation) Links() []Link { return s.links }

// Alpha returns the current heat.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the heat the simulation is decaying toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() int { return s.ticks }

// Settled reports whether alpha dropped below AlphaMin with no drag active.
func (s *Simulation) Settled() bool {
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

// Stopped reports whether Stop was called.
func (s *Simulation) Stopped() bool { return s.stopped }

// Stop ends the simulation for good. Subsequent Step calls return false.
func (s *Simulation) Stop() { s.stopped = true }

// Restart reheats a settled simulation to alpha 1. It has no effect after
// Stop.
func (s *Simulation) Restart() {
	if s.stopped {
		return
	}
	s.alpha = 1
}

// Anchor pins body i at p for the simulation's lifetime.
func (s *Simulation) Anchor(i int, p r2.Vec) error {
	if err := s.check(i); err != nil {
		return err
	}
	b := &s.bodies[i]
	b.Anchor = true
	b.Pin = &p
	b.Pos = p
	b.Vel = r2.Vec{}
	return nil
}

// Step advances the simulation by one tick. It returns false without
// ticking once the simulation is settled or stopped.
func (s *Simulation) Step() bool {
	if s.stopped || s.Settled() {
		return false
	}
	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks()
	s.applyManyBody()
	s.applyCenter()
	s.applyCollide()

	keep := 1 - s.cfg.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.Pin != nil {
			b.Pos = *b.Pin
			b.Vel = r2.Vec{}
			continue
		}
		b.Vel = r2.Scale(keep, b.Vel)
		b.Pos = r2.Add(b.Pos, b.Vel)
	}
	s.ticks++
	return true
}

// Run steps until the simulation settles, maxTicks ticks were taken (0 means
// no limit) or ctx is done. It returns the number of ticks taken.
func (s *Simulation) Run(ctx context.Context, maxTicks int) int {
	n := 0
	for maxTicks <= 0 || n < maxTicks {
		if ctx.Err() != nil {
			break
		}
		if !s.Step() {
			break
		}
		n++
	}
	return n
}

func (s *Simulation) check(i int) error {
	if i < 0 || i >= len(s.bodies) {
		return apperrors.New(apperrors.ErrCodeNotFound, "body %d out of range [0, %d)", i, len(s.bodies))
	}
	return nil
}

// jiggle returns a tiny random offset used to separate coincident bodies.
func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
