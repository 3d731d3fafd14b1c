package layout

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tablemap/pkg/hierarchy"
	"github.com/matzehuels/tablemap/pkg/observability"
)

// Factory maps layout kinds to algorithms.
type Factory struct {
	mu     sync.RWMutex
	algos  map[Kind]Algorithm
	logger *log.Logger
}

// NewFactory returns a factory with tree and sunburst registered.
// A nil logger discards output.
func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	f := &Factory{algos: make(map[Kind]Algorithm), logger: logger}
	f.Register(Tree{})
	f.Register(Sunburst{})
	return f
}

// Register adds or replaces the algorithm for its kind.
func (f *Factory) Register(a Algorithm) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.algos[a.Kind()] = a
}

// Kinds returns the registered kinds, tree first and the rest sorted.
func (f *Factory) Kinds() []Kind {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var rest []Kind
	for k := range f.algos {
		if k != KindTree {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append([]Kind{KindTree}, rest...)
}

// Get returns the algorithm for kind. Unknown kinds fall back to tree; the
// fallback is logged and reported to observability hooks.
func (f *Factory) Get(ctx context.Context, kind Kind) Algorithm {
	f.mu.RLock()
	a, ok := f.algos[kind]
	tree := f.algos[KindTree]
	f.mu.RUnlock()
	if ok {
		return a
	}
	reason := fmt.Sprintf(WarnUnknownKindFmt, kind)
	f.logger.Warn("layout fallback", "requested", kind, "using", KindTree)
	observability.Layout().OnLayoutFallback(ctx, string(kind), string(KindTree), reason)
	if tree == nil {
		return Tree{}
	}
	return fallback{Algorithm: tree, warning: reason}
}

// Calculate resolves kind and runs it, emitting layout hooks around the
// computation. Warnings from the algorithm are logged.
func (f *Factory) Calculate(ctx context.Context, kind Kind, root *hierarchy.Node, dims Dimensions, mode PerformanceMode, radial *RadialSettings) (*Result, error) {
	algo := f.Get(ctx, kind)
	hooks := observability.Layout()
	// Measure walks without a visited set, so cycles must be rejected first.
	if err := hierarchy.Validate(root); err != nil {
		hooks.OnLayoutComplete(ctx, string(algo.Kind()), "", 0, err)
		return nil, fmt.Errorf("%s layout: %w", algo.Kind(), err)
	}
	n := hierarchy.Measure(root).NodeCount
	hooks.OnLayoutStart(ctx, string(algo.Kind()), n)

	start := time.Now()
	res, err := algo.Calculate(root, dims, mode, radial)
	var tier string
	if res != nil {
		tier = string(res.Tier)
		for _, w := range res.Warnings {
			f.logger.Warn("layout warning", "kind", res.Kind, "warning", w)
			if w != fmt.Sprintf(WarnUnknownKindFmt, kind) {
				hooks.OnLayoutFallback(ctx, string(kind), string(res.Kind), w)
			}
		}
	}
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, string(algo.Kind()), tier, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("%s layout: %w", algo.Kind(), err)
	}
	f.logger.Debug("layout computed", "kind", res.Kind, "nodes", res.NodeCount, "tier", res.Tier, "took", elapsed)
	return res, nil
}

// fallback wraps the tree algorithm handed out for an unknown kind so the
// warning also lands in the result.
type fallback struct {
	Algorithm
	warning string
}

func (f fallback) Calculate(root *hierarchy.Node, dims Dimensions, mode PerformanceMode, radial *RadialSettings) (*Result, error) {
	res, err := f.Algorithm.Calculate(root, dims, mode, radial)
	if err != nil {
		return nil, err
	}
	res.Warnings = append([]string{f.warning}, res.Warnings...)
	return res, nil
}
