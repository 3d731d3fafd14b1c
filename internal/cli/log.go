package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// elapsed returns the time since the tracker was created.
func (p *progress) elapsed() time.Duration { return time.Since(p.start) }

// done logs msg along with the elapsed time since progress was created.
// Example output: "Computed layout for 1200 tables (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed().Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards layout, simulation and performance events to the logger.
// Fallbacks are already logged at warn level by the layout factory, so they
// appear here at debug level only.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLayoutStart(_ context.Context, kind string, nodeCount int) {
	h.logger.Debug("layout start", "kind", kind, "nodes", nodeCount)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, kind, tier string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout failed", "kind", kind, "err", err)
		return
	}
	h.logger.Debug("layout complete", "kind", kind, "tier", tier, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnLayoutFallback(_ context.Context, requested, used, reason string) {
	h.logger.Debug("layout fallback", "requested", requested, "used", used, "reason", reason)
}

func (h *logHooks) OnSimulationStart(_ context.Context, id string, nodes, edges int) {
	h.logger.Debug("simulation start", "id", id, "nodes", nodes, "edges", edges)
}

func (h *logHooks) OnSimulationStop(_ context.Context, id string, ticks int, reason string) {
	h.logger.Debug("simulation stop", "id", id, "ticks", ticks, "reason", reason)
}

func (h *logHooks) OnSample(_ context.Context, render time.Duration, fps float64, nodes, visible int) {
	h.logger.Debug("performance sample", "render", render, "fps", fps, "nodes", nodes, "visible", visible)
}

func (h *logHooks) OnModeChange(_ context.Context, from, to string) {
	h.logger.Info("performance mode changed", "from", from, "to", to)
}
