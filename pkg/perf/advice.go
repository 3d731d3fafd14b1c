package perf

import (
	"fmt"
	"time"

	"github.com/matzehuels/tablemap/pkg/layout"
)

// Recommendation thresholds.
const (
	SlowRenderThreshold    = 100 * time.Millisecond
	LowFPSThreshold        = 30.0
	LargeGraphThreshold    = 1000
	SlowDiscoveryThreshold = 3000 * time.Millisecond
	HighMemoryThresholdMB  = 100.0
	CullingRatioThreshold  = 0.3
)

// Severity of a recommendation.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule identifies which check produced a recommendation.
type Rule string

const (
	RuleVirtualize     Rule = "virtualize"
	RuleReduceDetail   Rule = "reduce-detail"
	RulePerformanceOn  Rule = "performance-mode"
	RuleCustomOnly     Rule = "custom-only-filter"
	RuleCull           Rule = "cull"
	RuleCullingWorking Rule = "culling-effective"
)

// Recommendation is one piece of advice derived from a sample.
type Recommendation struct {
	Rule     Rule     `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Recommend evaluates every rule independently; several may fire.
func Recommend(s Metrics) []Recommendation {
	var out []Recommendation
	warn := func(r Rule, format string, args ...any) {
		out = append(out, Recommendation{Rule: r, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
	}
	if s.RenderTime > SlowRenderThreshold {
		warn(RuleVirtualize, "render took %s; enable virtualization", s.RenderTime.Round(time.Millisecond))
	}
	if s.FPS < LowFPSThreshold {
		warn(RuleReduceDetail, "%.0f fps; reduce node density or level of detail", s.FPS)
	}
	if s.NodeCount > LargeGraphThreshold {
		warn(RulePerformanceOn, "%d nodes; switch to a high performance mode", s.NodeCount)
	}
	if s.DiscoveryTime > SlowDiscoveryThreshold {
		warn(RuleCustomOnly, "discovery took %s; restrict to custom tables", s.DiscoveryTime.Round(time.Millisecond))
	}
	if s.MemoryUsage > HighMemoryThresholdMB {
		warn(RuleCull, "%.0f MB in use; cull off-screen nodes", s.MemoryUsage)
	}
	if s.NodeCount > 0 && s.VisibleRatio() < CullingRatioThreshold {
		out = append(out, Recommendation{
			Rule:     RuleCullingWorking,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%d of %d nodes visible; culling is effective", s.VisibleNodes, s.NodeCount),
		})
	}
	return out
}

// Grade is the verdict on a discovery time.
type Grade struct {
	Label string `json:"label"`
	Pass  bool   `json:"pass"`
}

// Discovery grades.
var (
	GradeExcellent  = Grade{Label: "excellent", Pass: true}
	GradeGood       = Grade{Label: "good", Pass: true}
	GradeAcceptable = Grade{Label: "acceptable", Pass: false}
	GradePoor       = Grade{Label: "poor", Pass: false}
)

// GradeDiscovery grades discovery latency: ≤2000ms excellent, ≤3000ms good,
// ≤5000ms acceptable, else poor. Only excellent and good pass.
func GradeDiscovery(d time.Duration) Grade {
	switch {
	case d <= 2000*time.Millisecond:
		return GradeExcellent
	case d <= 3000*time.Millisecond:
		return GradeGood
	case d <= 5000*time.Millisecond:
		return GradeAcceptable
	default:
		return GradePoor
	}
}

// SuggestMode returns the performance mode the layout should use next. It
// escalates one step when rendering is slow, the frame rate is low or the
// hierarchy is large, and otherwise keeps current.
func SuggestMode(s Metrics, current layout.PerformanceMode) layout.PerformanceMode {
	if current == "" {
		current = layout.ModeAuto
	}
	if s.RenderTime > SlowRenderThreshold || s.FPS < LowFPSThreshold || s.NodeCount > LargeGraphThreshold {
		return current.Escalate()
	}
	return current
}
