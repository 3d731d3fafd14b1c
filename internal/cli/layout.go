package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tablemap/pkg/hierarchy"
	tmio "github.com/matzehuels/tablemap/pkg/io"
	"github.com/matzehuels/tablemap/pkg/layout"
	"github.com/matzehuels/tablemap/pkg/perf"
	"github.com/matzehuels/tablemap/pkg/pipeline"
)

// layoutOptions are the flags of the layout command. Zero values defer to
// the configuration.
type layoutOptions struct {
	Output string
	Kind   string
	Mode   string
	Width  float64
	Height float64
	Search string
	Watch  bool
}

// layoutCommand creates the layout command for computing hierarchy layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout [hierarchy.json]",
		Short: "Compute the hierarchy layout",
		Long: `Compute the hierarchy layout.

The layout command reads a hierarchy.json file (a tree of tables classified
base, extended or custom) and computes a tidy tree layout sized for the
canvas. Large hierarchies are stretched into the high or ultra tier. The
result is written as JSON with one entry per table and per parent link.

With --watch the layout is recomputed whenever the input file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&opts.Kind, "type", "t", "", "layout type: tree, sunburst (default from config)")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "performance mode: auto, high, maximum (default from config)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "canvas height (default from config)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "mark tables not matching this term as filtered")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "recompute when the input changes")

	return cmd
}

// treeOptions resolves layout flags against the configuration.
func (c *CLI) treeOptions(kind, mode string, width, height float64) (pipeline.TreeOptions, error) {
	cfg := c.cfg
	if kind == "" {
		kind = cfg.Layout.Type
	}
	if mode == "" {
		mode = cfg.Layout.Mode
	}
	m, err := layout.ParseMode(mode)
	if err != nil {
		return pipeline.TreeOptions{}, err
	}
	dims := cfg.Dimensions()
	if width > 0 {
		dims.Width = width
	}
	if height > 0 {
		dims.Height = height
	}
	return pipeline.TreeOptions{
		Kind:          layout.Kind(kind),
		Mode:          m,
		Canvas:        dims,
		Minimap:       layout.Dimensions{Width: cfg.Minimap.Width, Height: cfg.Minimap.Height},
		MinimapHidden: !cfg.Minimap.Visible,
		Logger:        c.Logger,
	}, nil
}

// runLayout loads the hierarchy, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOptions) error {
	treeOpts, err := c.treeOptions(opts.Kind, opts.Mode, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	view := pipeline.NewTreeView(treeOpts)
	defer view.Close()

	output := opts.Output
	if output == "" {
		output = defaultOutput(input, ".layout.json")
	}

	compute := func() error {
		prog := newProgress(c.Logger)
		root, err := tmio.ImportHierarchy(input)
		if err != nil {
			return fmt.Errorf("load hierarchy %s: %w", input, err)
		}
		discovery := prog.elapsed()

		res, err := view.Load(ctx, root)
		if err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
		if opts.Search != "" {
			n, err := view.Search(opts.Search)
			if err != nil {
				return err
			}
			c.Logger.Debug("search applied", "term", opts.Search, "matches", n)
		}
		if err := tmio.ExportLayout(res, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		prog.done(fmt.Sprintf("Computed %s layout for %d tables", res.Kind, res.NodeCount))

		printSuccess("Layout complete")
		printFile(output)
		printLayoutStats(res, hierarchy.CountCustom(root))
		for _, w := range res.Warnings {
			printWarning("%s", w)
		}
		if opts.Search != "" {
			printDetail("%d of %d tables match %q", view.Stats().Matches, res.NodeCount, opts.Search)
		}

		m, err := view.Sample(ctx, discovery)
		if err != nil {
			return err
		}
		printRecommendations(perf.Recommend(m))
		return nil
	}

	if err := compute(); err != nil {
		return err
	}
	if !opts.Watch {
		printNewline()
		printNextStep("Inspect the overview", appName+" minimap "+input)
		return nil
	}
	return watchFile(ctx, input, c.Logger, compute)
}
