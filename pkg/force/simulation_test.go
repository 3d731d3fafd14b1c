package force

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"pgregory.net/rapid"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
)

var centre = r2.Vec{X: 400, Y: 300}

func star(n int) []Link {
	links := make([]Link, 0, n-1)
	for i := 1; i < n; i++ {
		links = append(links, Link{Source: 0, Target: i})
	}
	return links
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	// alpha reaches AlphaMin after ~300 ticks with no target
	got := math.Pow(1-cfg.AlphaDecay, 300)
	if math.Abs(got-cfg.AlphaMin) > 1e-9 {
		t.Errorf("alpha after 300 ticks = %v, want %v", got, cfg.AlphaMin)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative distance", func(c *Config) { c.LinkDistance = -1 }},
		{"strength above one", func(c *Config) { c.LinkStrength = 2 }},
		{"zero decay", func(c *Config) { c.AlphaDecay = 0 }},
		{"velocity decay", func(c *Config) { c.VelocityDecay = 1.5 }},
		{"alpha min", func(c *Config) { c.AlphaMin = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestNewDropsBadLinks(t *testing.T) {
	s := New(3, []Link{{0, 1}, {1, 1}, {0, 7}, {-1, 2}, {2, 0}}, centre, DefaultConfig())
	if got := len(s.Links()); got != 2 {
		t.Errorf("len(Links()) = %d, want 2", got)
	}
}

func TestSimulationSettles(t *testing.T) {
	s := New(6, star(6), centre, DefaultConfig())
	if err := s.Anchor(0, centre); err != nil {
		t.Fatal(err)
	}
	ticks := s.Run(context.Background(), 0)
	if !s.Settled() {
		t.Fatalf("not settled after %d ticks (alpha %v)", ticks, s.Alpha())
	}
	if ticks < 250 || ticks > 350 {
		t.Errorf("settled after %d ticks, want about 300", ticks)
	}
	if s.Step() {
		t.Error("Step() on a settled simulation should return false")
	}
	for i := 1; i < s.Len(); i++ {
		d := r2.Norm(r2.Sub(s.Position(i), centre))
		if d < 30 || d > 400 {
			t.Errorf("body %d at distance %v from centre", i, d)
		}
	}
}

func TestStopIsFinal(t *testing.T) {
	s := New(3, star(3), centre, DefaultConfig())
	if !s.Step() {
		t.Fatal("first Step() should tick")
	}
	s.Stop()
	if s.Step() {
		t.Error("Step() after Stop should return false")
	}
	s.Restart()
	if s.Step() {
		t.Error("Restart after Stop should not revive the simulation")
	}
	if s.Ticks() != 1 {
		t.Errorf("Ticks() = %d, want 1", s.Ticks())
	}
}

func TestRestartReheats(t *testing.T) {
	s := New(3, star(3), centre, DefaultConfig())
	s.Run(context.Background(), 0)
	s.Restart()
	if s.Alpha() != 1 {
		t.Errorf("Alpha() = %v, want 1", s.Alpha())
	}
	if !s.Step() {
		t.Error("Step() after Restart should tick")
	}
}

func TestRunHonoursLimitAndContext(t *testing.T) {
	s := New(4, star(4), centre, DefaultConfig())
	if n := s.Run(context.Background(), 10); n != 10 {
		t.Errorf("Run(10) = %d, want 10", n)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if n := s.Run(ctx, 0); n != 0 {
		t.Errorf("Run(cancelled) = %d, want 0", n)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	a := New(8, star(8), centre, DefaultConfig())
	b := New(8, star(8), centre, DefaultConfig())
	a.Run(context.Background(), 50)
	b.Run(context.Background(), 50)
	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != b.Position(i) {
			t.Fatalf("body %d: %v != %v", i, a.Position(i), b.Position(i))
		}
	}
}

func TestDragStateMachine(t *testing.T) {
	s := New(3, star(3), centre, DefaultConfig())
	s.Run(context.Background(), 0)
	cfg := DefaultConfig()

	p := r2.Vec{X: 10, Y: 20}
	if err := s.DragStart(1, p); err != nil {
		t.Fatal(err)
	}
	if !s.Body(1).Dragging() || !s.Body(1).Pinned() {
		t.Fatal("body should be dragging and pinned after DragStart")
	}
	if s.AlphaTarget() != cfg.DragAlphaTarget {
		t.Errorf("AlphaTarget() = %v, want %v", s.AlphaTarget(), cfg.DragAlphaTarget)
	}

	q := r2.Vec{X: 50, Y: 60}
	if err := s.DragMove(1, q); err != nil {
		t.Fatal(err)
	}
	if *s.Body(1).Pin != q {
		t.Errorf("Pin = %v, want %v", *s.Body(1).Pin, q)
	}
	if s.Position(1) == q {
		t.Error("DragMove should not move the body before the next tick")
	}
	s.Step()
	if s.Position(1) != q {
		t.Errorf("Position after tick = %v, want %v", s.Position(1), q)
	}

	if err := s.DragEnd(1); err != nil {
		t.Fatal(err)
	}
	if s.Body(1).Pinned() || s.Body(1).Dragging() {
		t.Error("body should be free and idle after DragEnd")
	}
	if s.AlphaTarget() != 0 {
		t.Errorf("AlphaTarget() = %v, want 0", s.AlphaTarget())
	}

	// moves on an idle body are ignored
	if err := s.DragMove(2, q); err != nil {
		t.Fatal(err)
	}
	if s.Body(2).Pinned() {
		t.Error("DragMove on an idle body should not pin it")
	}

	if err := s.DragStart(9, p); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("DragStart(9) = %v, want NOT_FOUND", err)
	}
}

func TestHeatHeldWhileAnyDragActive(t *testing.T) {
	s := New(4, star(4), centre, DefaultConfig())
	_ = s.DragStart(1, r2.Vec{})
	_ = s.DragStart(2, r2.Vec{})
	_ = s.DragEnd(1)
	if s.AlphaTarget() == 0 {
		t.Error("heat dropped while a drag is still active")
	}
	_ = s.DragEnd(2)
	if s.AlphaTarget() != 0 {
		t.Error("heat not released after the last drag")
	}
	if s.ActiveDrags() != 0 {
		t.Errorf("ActiveDrags() = %d, want 0", s.ActiveDrags())
	}
}

func TestAnchorNeverReleased(t *testing.T) {
	s := New(3, star(3), centre, DefaultConfig())
	if err := s.Anchor(0, centre); err != nil {
		t.Fatal(err)
	}
	_ = s.DragStart(0, r2.Vec{X: 1, Y: 1})
	_ = s.DragMove(0, r2.Vec{X: 2, Y: 2})
	_ = s.DragEnd(0)
	s.Run(context.Background(), 0)
	b := s.Body(0)
	if !b.Pinned() || *b.Pin != centre || b.Pos != centre {
		t.Errorf("anchor = %+v, want pinned at %v", b, centre)
	}
}

func TestAnchorInvariantUnderDrags(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 12).Draw(t, "bodies")
		s := New(n, star(n), centre, DefaultConfig())
		if err := s.Anchor(0, centre); err != nil {
			t.Fatal(err)
		}
		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for k := 0; k < steps; k++ {
			i := rapid.IntRange(1, n-1).Draw(t, "body")
			p := r2.Vec{
				X: rapid.Float64Range(-5000, 5000).Draw(t, "x"),
				Y: rapid.Float64Range(-5000, 5000).Draw(t, "y"),
			}
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				_ = s.DragStart(i, p)
			case 1:
				_ = s.DragMove(i, p)
			case 2:
				_ = s.DragEnd(i)
			default:
				s.Step()
			}
			if s.Position(0) != centre {
				t.Fatalf("anchor moved to %v", s.Position(0))
			}
		}
		for i := 1; i < n; i++ {
			_ = s.DragEnd(i)
		}
		s.Run(context.Background(), 2000)
		if s.Position(0) != centre {
			t.Fatalf("anchor settled at %v, want %v", s.Position(0), centre)
		}
	})
}
