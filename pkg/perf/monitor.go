// Package perf samples render performance and turns samples into advice.
//
// A [Monitor] brackets render passes, measures frame rate between successive
// calls and probes heap usage. It keeps only what the next sample needs (the
// open render start and the last frame timestamp); there is no time series.
//
// [Recommend] evaluates independent rules over one [Metrics] sample,
// [GradeDiscovery] grades discovery latency on a fixed four-tier scale and
// [SuggestMode] decides whether the layout should degrade.
package perf

import (
	"runtime"
	"time"
)

// PlaceholderFPS is reported by the first MeasureFPS call, before a frame
// interval exists.
const PlaceholderFPS = 60.0

// MemoryProbe reports heap usage in MB. ok is false when the runtime offers
// no introspection.
type MemoryProbe func() (mb float64, ok bool)

// RuntimeMemory reads the Go heap in use.
func RuntimeMemory() (float64, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapAlloc) / (1 << 20), true
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMemoryProbe replaces the heap probe. A nil probe makes MemoryUsage
// report 0.
func WithMemoryProbe(p MemoryProbe) Option {
	return func(m *Monitor) { m.probe = p }
}

// Monitor is a sampling façade over one render loop. It is not safe for
// concurrent use.
type Monitor struct {
	now   func() time.Time
	probe MemoryProbe

	renderStart time.Time
	rendering   bool
	lastFrame   time.Time
	frames      int
}

// NewMonitor returns a monitor using the wall clock and the runtime heap.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{now: time.Now, probe: RuntimeMemory}
	for _, o := range opts {
		o(m)
	}
	return m
}

// StartRender marks the beginning of a render pass.
func (m *Monitor) StartRender() {
	m.renderStart = m.now()
	m.rendering = true
}

// EndRender closes the open render pass and returns its duration. Without a
// matching StartRender it returns 0.
func (m *Monitor) EndRender() time.Duration {
	if !m.rendering {
		return 0
	}
	m.rendering = false
	return max(m.now().Sub(m.renderStart), 0)
}

// MeasureFPS returns the frame rate implied by the interval since the
// previous call. The first call returns PlaceholderFPS.
func (m *Monitor) MeasureFPS() float64 {
	now := m.now()
	prev := m.lastFrame
	m.lastFrame = now
	m.frames++
	if m.frames == 1 {
		return PlaceholderFPS
	}
	delta := now.Sub(prev)
	if delta <= 0 {
		return PlaceholderFPS
	}
	return float64(time.Second) / float64(delta)
}

// Frames returns the number of MeasureFPS calls so far.
func (m *Monitor) Frames() int { return m.frames }

// MemoryUsage returns heap usage in MB, or 0 when unavailable.
func (m *Monitor) MemoryUsage() float64 {
	if m.probe == nil {
		return 0
	}
	mb, ok := m.probe()
	if !ok || mb < 0 {
		return 0
	}
	return mb
}

// Metrics is one performance sample.
type Metrics struct {
	RenderTime    time.Duration `json:"renderTime"`
	NodeCount     int           `json:"nodeCount"`
	VisibleNodes  int           `json:"visibleNodes"`
	FPS           float64       `json:"fps"`
	MemoryUsage   float64       `json:"memoryUsage"`
	DiscoveryTime time.Duration `json:"discoveryTime"`
}

// VisibleRatio returns VisibleNodes/NodeCount, or 1 for an empty sample.
func (s Metrics) VisibleRatio() float64 {
	if s.NodeCount <= 0 {
		return 1
	}
	return float64(s.VisibleNodes) / float64(s.NodeCount)
}

// GenerateReport packages one sample, measuring FPS and memory now.
func (m *Monitor) GenerateReport(nodeCount, visibleNodes int, renderTime, discoveryTime time.Duration) Metrics {
	return Metrics{
		RenderTime:    renderTime,
		NodeCount:     nodeCount,
		VisibleNodes:  visibleNodes,
		FPS:           m.MeasureFPS(),
		MemoryUsage:   m.MemoryUsage(),
		DiscoveryTime: discoveryTime,
	}
}
