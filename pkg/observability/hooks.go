// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout computation, force simulations and
// performance sampling.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Configuration gaps (an unknown layout type, a stub algorithm, missing
// radial settings) are never silent: they are reported through
// [LayoutHooks.OnLayoutFallback] so a diagnostics backend can count them.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetSimulationHooks(&mySimulationHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, "tree", nodeCount)
//	// ... compute layout ...
//	observability.Layout().OnLayoutComplete(ctx, "tree", tier, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout algorithm factory and the views
// that drive it.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, kind string, nodeCount int)
	OnLayoutComplete(ctx context.Context, kind, tier string, duration time.Duration, err error)

	// OnLayoutFallback records a configuration gap that was resolved by
	// falling back to a safe default.
	OnLayoutFallback(ctx context.Context, requested, used, reason string)
}

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives force simulation lifecycle events.
type SimulationHooks interface {
	// OnSimulationStart records a new simulation bound to a freshly built graph.
	OnSimulationStart(ctx context.Context, id string, nodeCount, edgeCount int)

	// OnSimulationStop records an explicit stop (teardown or refocus).
	OnSimulationStop(ctx context.Context, id string, ticks int, reason string)
}

// =============================================================================
// Performance Hooks
// =============================================================================

// PerformanceHooks receives samples from the performance monitor.
type PerformanceHooks interface {
	// OnSample records one performance sample.
	OnSample(ctx context.Context, renderTime time.Duration, fps float64, nodeCount, visibleNodes int)

	// OnModeChange records an adaptive change of the layout performance mode.
	OnModeChange(ctx context.Context, from, to string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int) {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopLayoutHooks) OnLayoutFallback(context.Context, string, string, string) {}

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnSimulationStart(context.Context, string, int, int)   {}
func (NoopSimulationHooks) OnSimulationStop(context.Context, string, int, string) {}

// NoopPerformanceHooks is a no-op implementation of PerformanceHooks.
type NoopPerformanceHooks struct{}

func (NoopPerformanceHooks) OnSample(context.Context, time.Duration, float64, int, int) {}
func (NoopPerformanceHooks) OnModeChange(context.Context, string, string)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks     LayoutHooks      = NoopLayoutHooks{}
	simulationHooks SimulationHooks  = NoopSimulationHooks{}
	perfHooks       PerformanceHooks = NoopPerformanceHooks{}
	hooksMu         sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout is computed.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetSimulationHooks registers custom simulation hooks.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetPerformanceHooks registers custom performance hooks.
func SetPerformanceHooks(h PerformanceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		perfHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Performance returns the registered performance hooks.
func Performance() PerformanceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return perfHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	simulationHooks = NoopSimulationHooks{}
	perfHooks = NoopPerformanceHooks{}
}
