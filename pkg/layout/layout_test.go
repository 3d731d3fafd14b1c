package layout

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
	"github.com/matzehuels/tablemap/pkg/observability"
)

var canvas = Dimensions{Width: 1200, Height: 800}

// levels builds a hierarchy whose level widths are exactly widths. Nodes at
// each level are spread round-robin over the previous level.
func levels(widths ...int) *hierarchy.Node {
	if len(widths) == 0 {
		return nil
	}
	root := &hierarchy.Node{Name: "root", Classification: hierarchy.Base}
	prev := []*hierarchy.Node{root}
	for d, w := range widths[1:] {
		cur := make([]*hierarchy.Node, w)
		for i := range cur {
			cls := hierarchy.Base
			if i%3 == 0 {
				cls = hierarchy.Custom
			}
			n := &hierarchy.Node{Name: fmt.Sprintf("t%d_%d", d+1, i), Classification: cls}
			parent := prev[i%len(prev)]
			parent.Children = append(parent.Children, n)
			cur[i] = n
		}
		prev = cur
	}
	return root
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		nodes int
		mode  PerformanceMode
		want  Tier
	}{
		{17, ModeAuto, TierNormal},
		{500, ModeAuto, TierNormal},
		{501, ModeAuto, TierHigh},
		{1000, ModeAuto, TierHigh},
		{1001, ModeAuto, TierUltra},
		{10, ModeHigh, TierHigh},
		{1200, ModeHigh, TierUltra},
		{10, ModeMaximum, TierUltra},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%s", tt.nodes, tt.mode), func(t *testing.T) {
			if got := TierFor(tt.nodes, tt.mode); got != tt.want {
				t.Errorf("TierFor(%d, %s) = %s, want %s", tt.nodes, tt.mode, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PerformanceMode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"HIGH", ModeHigh, false},
		{" maximum ", ModeMaximum, false},
		{"turbo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !apperrors.Is(err, apperrors.ErrCodeInvalidMode) {
			t.Errorf("ParseMode(%q) code = %s, want %s", tt.in, apperrors.GetCode(err), apperrors.ErrCodeInvalidMode)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscalate(t *testing.T) {
	if got := ModeAuto.Escalate(); got != ModeHigh {
		t.Errorf("auto.Escalate() = %s, want high", got)
	}
	if got := ModeHigh.Escalate(); got != ModeMaximum {
		t.Errorf("high.Escalate() = %s, want maximum", got)
	}
	if got := ModeMaximum.Escalate(); got != ModeMaximum {
		t.Errorf("maximum.Escalate() = %s, want maximum", got)
	}
}

func TestTreeScenarioA(t *testing.T) {
	root := levels(1, 4, 12)
	res, err := Tree{}.Calculate(root, canvas, ModeAuto, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.NodeCount != 17 {
		t.Errorf("NodeCount = %d, want 17", res.NodeCount)
	}
	if res.Tier != TierNormal {
		t.Errorf("Tier = %s, want normal", res.Tier)
	}
	availW := canvas.Width - DefaultMargin.Horizontal()
	if res.Bounds.Width < availW {
		t.Errorf("Bounds.Width = %v, want >= %v", res.Bounds.Width, availW)
	}
	if len(res.Links) != 16 {
		t.Errorf("len(Links) = %d, want 16", len(res.Links))
	}
	if r := res.Root(); r == nil || r.Name != "root" || r.X != 0 {
		t.Errorf("Root() = %+v, want root at X=0", r)
	}
}

func TestTreeScenarioC(t *testing.T) {
	root := levels(1, 30, 400, 769)
	res, err := Tree{}.Calculate(root, canvas, ModeAuto, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.NodeCount != 1200 {
		t.Fatalf("NodeCount = %d, want 1200", res.NodeCount)
	}
	if res.Tier != TierUltra {
		t.Errorf("Tier = %s, want ultra", res.Tier)
	}
	availW := canvas.Width - DefaultMargin.Horizontal()
	availH := canvas.Height - DefaultMargin.Vertical()
	if res.Extent.Width < 1.2*availW {
		t.Errorf("Extent.Width = %v, want >= %v", res.Extent.Width, 1.2*availW)
	}
	if res.Extent.Height < 1.5*availH {
		t.Errorf("Extent.Height = %v, want >= %v", res.Extent.Height, 1.5*availH)
	}
}

func TestTreeEmpty(t *testing.T) {
	res, err := Tree{}.Calculate(nil, canvas, ModeAuto, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.NodeCount != 0 || len(res.Nodes) != 0 {
		t.Errorf("empty layout has %d nodes", len(res.Nodes))
	}
	if res.Bounds != canvas {
		t.Errorf("Bounds = %+v, want %+v", res.Bounds, canvas)
	}
	if res.Root() != nil {
		t.Error("Root() of empty layout should be nil")
	}
}

func TestTreeSingleNode(t *testing.T) {
	res, err := Tree{}.Calculate(levels(1), canvas, ModeAuto, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	p := res.Root()
	if p.X != 0 {
		t.Errorf("X = %v, want 0", p.X)
	}
	if p.Y <= 0 || p.Y >= res.Extent.Height {
		t.Errorf("Y = %v, want inside (0, %v)", p.Y, res.Extent.Height)
	}
}

func TestTreeRejectsInvalidInput(t *testing.T) {
	dup := &hierarchy.Node{Name: "a", Classification: hierarchy.Base, Children: []*hierarchy.Node{
		{Name: "a", Classification: hierarchy.Base},
	}}
	tests := []struct {
		name string
		root *hierarchy.Node
		dims Dimensions
		code apperrors.Code
	}{
		{"zero width", levels(1), Dimensions{0, 100}, apperrors.ErrCodeInvalidDimensions},
		{"nan height", levels(1), Dimensions{100, math.NaN()}, apperrors.ErrCodeInvalidDimensions},
		{"duplicate", dup, canvas, apperrors.ErrCodeInvalidHierarchy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tree{}.Calculate(tt.root, tt.dims, ModeAuto, nil)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestTreeUnknownModeFallsBack(t *testing.T) {
	res, err := Tree{}.Calculate(levels(1, 2), canvas, "turbo", nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Tier != TierNormal {
		t.Errorf("Tier = %s, want normal", res.Tier)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one mode warning", res.Warnings)
	}
}

func TestTreeSiblingsDoNotOverlap(t *testing.T) {
	res, err := Tree{}.Calculate(levels(1, 4, 12), canvas, ModeAuto, nil)
	if err != nil {
		t.Fatal(err)
	}
	byDepth := map[int][]float64{}
	for _, p := range res.Nodes {
		byDepth[p.Depth] = append(byDepth[p.Depth], p.Y)
	}
	for d, ys := range byDepth {
		seen := map[float64]bool{}
		for _, y := range ys {
			if seen[y] {
				t.Errorf("depth %d has two nodes at Y=%v", d, y)
			}
			seen[y] = true
		}
	}
}

func TestTreeParentCentredOverChildren(t *testing.T) {
	res, err := Tree{}.Calculate(levels(1, 3), canvas, ModeAuto, nil)
	if err != nil {
		t.Fatal(err)
	}
	root := res.Root()
	first, last := root.Children[0], root.Children[len(root.Children)-1]
	mid := (first.Y + last.Y) / 2
	if math.Abs(root.Y-mid) > 1e-9 {
		t.Errorf("root Y = %v, want midpoint %v", root.Y, mid)
	}
}

func TestSunburstIsStub(t *testing.T) {
	root := levels(1, 4)
	tree, _ := Tree{}.Calculate(root, canvas, ModeAuto, nil)
	sun, err := Sunburst{}.Calculate(root, canvas, ModeAuto, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if sun.Kind != KindSunburst {
		t.Errorf("Kind = %s, want sunburst", sun.Kind)
	}
	for i := range tree.Nodes {
		if tree.Nodes[i].X != sun.Nodes[i].X || tree.Nodes[i].Y != sun.Nodes[i].Y {
			t.Errorf("node %s differs from tree geometry", tree.Nodes[i].Name)
		}
	}
	if len(sun.Warnings) != 2 {
		t.Errorf("Warnings = %v, want stub and radial warnings", sun.Warnings)
	}
	withRadial, _ := Sunburst{}.Calculate(root, canvas, ModeAuto, &RadialSettings{OuterRadius: 300})
	if len(withRadial.Warnings) != 1 {
		t.Errorf("Warnings = %v, want only the stub warning", withRadial.Warnings)
	}
}

type recordingHooks struct {
	observability.NoopLayoutHooks
	fallbacks []string
	completed int
}

func (h *recordingHooks) OnLayoutFallback(_ context.Context, requested, used, _ string) {
	h.fallbacks = append(h.fallbacks, requested+"->"+used)
}

func (h *recordingHooks) OnLayoutComplete(context.Context, string, string, time.Duration, error) {
	h.completed++
}

func TestFactoryGet(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLayoutHooks(hooks)
	defer observability.Reset()

	f := NewFactory(nil)
	ctx := context.Background()

	if got := f.Get(ctx, KindTree).Kind(); got != KindTree {
		t.Errorf("Get(tree).Kind() = %s", got)
	}
	if got := f.Get(ctx, KindSunburst).Kind(); got != KindSunburst {
		t.Errorf("Get(sunburst).Kind() = %s", got)
	}
	if len(hooks.fallbacks) != 0 {
		t.Errorf("known kinds recorded fallbacks: %v", hooks.fallbacks)
	}

	algo := f.Get(ctx, "radial")
	if algo.Kind() != KindTree {
		t.Errorf("Get(radial).Kind() = %s, want tree", algo.Kind())
	}
	if len(hooks.fallbacks) != 1 || hooks.fallbacks[0] != "radial->tree" {
		t.Errorf("fallbacks = %v, want [radial->tree]", hooks.fallbacks)
	}
	res, err := algo.Calculate(levels(1, 2), canvas, ModeAuto, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) == 0 {
		t.Error("fallback result should carry a warning")
	}
}

func TestFactoryCalculate(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLayoutHooks(hooks)
	defer observability.Reset()

	f := NewFactory(nil)
	res, err := f.Calculate(context.Background(), KindSunburst, levels(1, 2), canvas, ModeAuto, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != KindSunburst {
		t.Errorf("Kind = %s, want sunburst", res.Kind)
	}
	if hooks.completed != 1 {
		t.Errorf("OnLayoutComplete called %d times, want 1", hooks.completed)
	}
	if len(hooks.fallbacks) != 2 {
		t.Errorf("fallbacks = %v, want stub and radial", hooks.fallbacks)
	}
	if kinds := f.Kinds(); len(kinds) != 2 || kinds[0] != KindTree {
		t.Errorf("Kinds() = %v", kinds)
	}
}

func TestFactoryCalculateRejectsCycle(t *testing.T) {
	a := &hierarchy.Node{Name: "a", Classification: hierarchy.Base}
	b := &hierarchy.Node{Name: "b", Classification: hierarchy.Base, Children: []*hierarchy.Node{a}}
	a.Children = []*hierarchy.Node{b}

	done := make(chan error, 1)
	go func() {
		_, err := NewFactory(nil).Calculate(context.Background(), KindTree, a, canvas, ModeAuto, nil)
		done <- err
	}()
	select {
	case err := <-done:
		if !apperrors.Is(err, apperrors.ErrCodeInvalidHierarchy) {
			t.Errorf("Calculate(cycle) error = %v, want INVALID_HIERARCHY", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Calculate did not return on a cyclic hierarchy")
	}
}

func genHierarchy(t *rapid.T) *hierarchy.Node {
	n := rapid.IntRange(1, 200).Draw(t, "nodes")
	nodes := make([]*hierarchy.Node, n)
	for i := range nodes {
		nodes[i] = &hierarchy.Node{Name: fmt.Sprintf("n%d", i), Classification: hierarchy.Base}
		if i > 0 {
			parent := nodes[rapid.IntRange(0, i-1).Draw(t, "parent")]
			parent.Children = append(parent.Children, nodes[i])
		}
	}
	return nodes[0]
}

func TestTreeBoundsNeverUnderfilled(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := genHierarchy(t)
		dims := Dimensions{
			Width:  rapid.Float64Range(300, 4000).Draw(t, "width"),
			Height: rapid.Float64Range(100, 4000).Draw(t, "height"),
		}
		mode := rapid.SampledFrom([]PerformanceMode{ModeAuto, ModeHigh, ModeMaximum}).Draw(t, "mode")
		res, err := Tree{}.Calculate(root, dims, mode, nil)
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		if res.Bounds.Width < dims.Width || res.Bounds.Height < dims.Height {
			t.Fatalf("Bounds %+v smaller than canvas %+v", res.Bounds, dims)
		}
		for _, p := range res.Nodes {
			if p.X < 0 || p.X+res.Margin.Horizontal() > res.Bounds.Width+1e-6 {
				t.Fatalf("%s X = %v outside bounds %+v", p.Name, p.X, res.Bounds)
			}
			if p.Y < 0 || p.Y+res.Margin.Vertical() > res.Bounds.Height+1e-6 {
				t.Fatalf("%s Y = %v outside bounds %+v", p.Name, p.Y, res.Bounds)
			}
		}
	})
}

func TestTreeDepthIsAncestorCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := genHierarchy(t)
		res, err := Tree{}.Calculate(root, canvas, ModeAuto, nil)
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		for _, p := range res.Nodes {
			ancestors := 0
			for q := p.Parent; q != nil; q = q.Parent {
				ancestors++
			}
			if p.Depth != ancestors {
				t.Fatalf("%s depth = %d, want %d", p.Name, p.Depth, ancestors)
			}
			if p.Parent != nil && p.X <= p.Parent.X {
				t.Fatalf("%s X = %v not right of parent X = %v", p.Name, p.X, p.Parent.X)
			}
		}
	})
}
