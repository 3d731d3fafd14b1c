package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tablemap/pkg/graph"
	tmio "github.com/matzehuels/tablemap/pkg/io"
	"github.com/matzehuels/tablemap/pkg/pipeline"
	"github.com/matzehuels/tablemap/pkg/render/nodelink"
)

// graphOptions are the flags of the graph command.
type graphOptions struct {
	Output       string
	Center       string
	Format       string
	MaxTicks     int
	Search       string
	Detailed     bool
	HideFiltered bool
}

// graphCommand creates the graph command for simulating a relationship graph.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph [relationships.json]",
		Short: "Simulate a table's relationship graph and export it",
		Long: `Simulate a table's relationship graph and export it.

The graph command reads a relationship bundle (tables plus reference
relationships), focuses one table, runs the force simulation until it comes
to rest and writes the result:

  json  node positions, edge endpoints and neighbourhood metrics
  dot   Graphviz source coloured by edge class
  svg   rendered via Graphviz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.Format); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: <input>.<center>.<format>)")
	cmd.Flags().StringVarP(&opts.Center, "center", "c", "", "table to focus (default: the bundle's center)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.FormatJSON, "output format: json, dot, svg")
	cmd.Flags().IntVar(&opts.MaxTicks, "max-ticks", 0, "simulation tick limit (default from config)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "mark tables not matching this term as filtered")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label edges with field names (dot, svg)")
	cmd.Flags().BoolVar(&opts.HideFiltered, "hide-filtered", false, "omit filtered tables (dot, svg)")

	return cmd
}

// focusOptions builds the focus view options from the configuration.
func (c *CLI) focusOptions() pipeline.FocusOptions {
	f := c.cfg.Force()
	return pipeline.FocusOptions{Canvas: c.cfg.Dimensions(), Force: &f, Logger: c.Logger}
}

// loadFocus reads a bundle and focuses center, or the bundle's own center
// when center is empty.
func loadFocus(ctx context.Context, view *pipeline.FocusView, input, center string) (*graph.Engine, error) {
	bundle, err := tmio.ImportBundle(input)
	if err != nil {
		return nil, fmt.Errorf("load relationships %s: %w", input, err)
	}
	if center == "" {
		center = bundle.Center
	}
	e, err := view.Focus(ctx, center, bundle.Relationships, bundle.Tables)
	if err != nil {
		return nil, fmt.Errorf("focus %q: %w", center, err)
	}
	return e, nil
}

// runGraph builds the graph, runs the simulation to rest and writes output.
func (c *CLI) runGraph(ctx context.Context, input string, opts graphOptions) error {
	view := pipeline.NewFocusView(c.focusOptions())
	defer view.Close(ctx)

	if opts.Search != "" {
		if _, err := view.Search(opts.Search); err != nil {
			return err
		}
	}
	prog := newProgress(c.Logger)
	e, err := loadFocus(ctx, view, input, opts.Center)
	if err != nil {
		return err
	}
	g := e.Graph()

	maxTicks := opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = c.cfg.Simulation.MaxTicks
	}
	spinner := newSpinner(ctx, "Simulating "+g.Center.ID).WithStatus(func() string {
		return fmt.Sprintf("(tick %d)", e.Ticks())
	})
	spinner.Start()
	ticks := e.Run(ctx, maxTicks)
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Simulated %d tables in %d ticks", len(g.Nodes()), ticks))
	if !e.Settled() {
		c.Logger.Warn("simulation hit the tick limit before settling", "ticks", ticks, "alpha", e.Alpha())
	}

	output := opts.Output
	if output == "" {
		output = defaultOutput(input, "."+g.Center.ID+"."+opts.Format)
	}
	if err := writeGraph(e, output, opts); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Graph complete")
	printFile(output)
	printParts([]string{
		fmt.Sprintf("%d tables", len(g.Nodes())),
		fmt.Sprintf("%d relationships", len(g.Edges)),
		fmt.Sprintf("%d ticks", ticks),
	})
	printMetrics(g.Metrics)
	return nil
}

func writeGraph(e *graph.Engine, path string, opts graphOptions) error {
	switch opts.Format {
	case pipeline.FormatDOT:
		dot := nodelink.ToDOT(e.Graph(), nodelink.Options{Detailed: opts.Detailed, Positions: true, HideFiltered: opts.HideFiltered})
		return os.WriteFile(path, []byte(dot), 0o644)
	case pipeline.FormatSVG:
		dot := nodelink.ToDOT(e.Graph(), nodelink.Options{Detailed: opts.Detailed, HideFiltered: opts.HideFiltered})
		svg, err := nodelink.RenderSVG(dot)
		if err != nil {
			return err
		}
		return os.WriteFile(path, svg, 0o644)
	default:
		return graph.WriteSnapshotFile(e.Snapshot(), path)
	}
}

func printMetrics(m graph.Metrics) {
	printKeyValue("Connections", fmt.Sprintf("%d (%d custom)", m.TotalConnections, m.CustomConnections))
	printKeyValue("Complexity", fmt.Sprintf("%.0f / 100", m.ComplexityScore))
	printKeyValue("Centrality", fmt.Sprintf("%.0f / 100", m.CentralityScore))
	printKeyValue("Clustering", fmt.Sprintf("%.2f", m.Clustering))
}
