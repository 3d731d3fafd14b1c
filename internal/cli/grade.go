package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	tmio "github.com/matzehuels/tablemap/pkg/io"
	"github.com/matzehuels/tablemap/pkg/perf"
	"github.com/matzehuels/tablemap/pkg/pipeline"
	"github.com/matzehuels/tablemap/pkg/viewport"
)

// gradeCommand creates the grade command for rating a discovery time.
func (c *CLI) gradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grade [discovery-ms]",
		Short: "Grade a hierarchy discovery time",
		Long: `Grade a hierarchy discovery time.

Discovery times up to 2000ms are excellent and up to 3000ms good; both pass.
Up to 5000ms is acceptable, anything slower is poor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := strconv.ParseFloat(args[0], 64)
			if err != nil || ms < 0 {
				return fmt.Errorf("invalid discovery time %q (want milliseconds)", args[0])
			}
			d := time.Duration(ms * float64(time.Millisecond))
			g := perf.GradeDiscovery(d)
			verdict := "fail"
			if g.Pass {
				verdict = "pass"
			}
			fmt.Printf("%s %s %s\n", StyleValue.Render(d.String()), StyleDim.Render(iconArrow),
				gradeStyle(g).Render(g.Label+" ("+verdict+")"))
			return nil
		},
	}
}

// reportOptions are the flags of the report command.
type reportOptions struct {
	Mode      string
	Discovery time.Duration
	X, Y, K   float64
	Adapt     bool
}

// reportCommand creates the report command for performance analysis.
func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report [hierarchy.json]",
		Short: "Report layout performance and recommendations",
		Long: `Report layout performance and recommendations.

The report command lays out the hierarchy, samples render time, frame rate,
memory and visible tables for the given transform, and prints the
recommendations that apply.

With --adapt the performance mode is degraded step by step while the
sample calls for it, and each recomputed tier is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "performance mode: auto, high, maximum (default from config)")
	cmd.Flags().DurationVar(&opts.Discovery, "discovery", 0, "discovery time to include, e.g. 2.5s")
	cmd.Flags().Float64Var(&opts.X, "x", 0, "primary view translation x")
	cmd.Flags().Float64Var(&opts.Y, "y", 0, "primary view translation y")
	cmd.Flags().Float64Var(&opts.K, "k", 1, "primary view zoom scale")
	cmd.Flags().BoolVar(&opts.Adapt, "adapt", false, "degrade the performance mode while recommended")

	return cmd
}

func (c *CLI) runReport(ctx context.Context, input string, opts reportOptions) error {
	treeOpts, err := c.treeOptions("", opts.Mode, 0, 0)
	if err != nil {
		return err
	}
	view := pipeline.NewTreeView(treeOpts)
	defer view.Close()

	root, err := tmio.ImportHierarchy(input)
	if err != nil {
		return fmt.Errorf("load hierarchy %s: %w", input, err)
	}
	res, err := view.Load(ctx, root)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if _, err := view.SetTransform(viewport.Transform{X: opts.X, Y: opts.Y, K: opts.K}); err != nil {
		return err
	}

	m, err := view.Sample(ctx, opts.Discovery)
	if err != nil {
		return err
	}
	fmt.Println(StyleTitle.Render("Performance") + " " + StyleDim.Render(fmt.Sprintf("mode %s · tier %s", view.Mode(), res.Tier)))
	fmt.Println(renderTable([]string{"Metric", "Value"}, metricRows(m)))

	recs := perf.Recommend(m)
	if len(recs) > 0 {
		rows := make([][]string, len(recs))
		for i, r := range recs {
			rows[i] = []string{string(r.Severity), string(r.Rule), r.Message}
		}
		fmt.Println(renderTable([]string{"Severity", "Rule", "Recommendation"}, rows))
	} else {
		printSuccess("No recommendations")
	}

	if next := perf.SuggestMode(m, view.Mode()); next != view.Mode() {
		printInfo("Suggested mode: %s", StyleHighlight.Render(string(next)))
	}
	if !opts.Adapt {
		return nil
	}

	for {
		changed, err := view.Adapt(ctx, m)
		if err != nil {
			return err
		}
		if !changed {
			break
		}
		printSuccess("Degraded to %s (tier %s)", view.Mode(), view.Layout().Tier)
		// Later samples keep the worst render time and frame rate seen.
		next, err := view.Sample(ctx, opts.Discovery)
		if err != nil {
			return err
		}
		next.RenderTime, next.FPS = max(next.RenderTime, m.RenderTime), min(next.FPS, m.FPS)
		m = next
	}
	return nil
}

func metricRows(m perf.Metrics) [][]string {
	rows := [][]string{
		{"Render time", m.RenderTime.Round(time.Microsecond).String()},
		{"Frame rate", fmt.Sprintf("%.0f fps", m.FPS)},
		{"Tables", strconv.Itoa(m.NodeCount)},
		{"Visible", fmt.Sprintf("%d (%.0f%%)", m.VisibleNodes, m.VisibleRatio()*100)},
		{"Memory", fmt.Sprintf("%.1f MB", m.MemoryUsage)},
	}
	if m.DiscoveryTime > 0 {
		g := perf.GradeDiscovery(m.DiscoveryTime)
		rows = append(rows, []string{"Discovery", m.DiscoveryTime.String() + " (" + g.Label + ")"})
	}
	return rows
}
