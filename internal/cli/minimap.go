package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablemap/pkg/hierarchy"
	tmio "github.com/matzehuels/tablemap/pkg/io"
	"github.com/matzehuels/tablemap/pkg/pipeline"
	"github.com/matzehuels/tablemap/pkg/render"
	"github.com/matzehuels/tablemap/pkg/viewport"
)

// Minimap grid size in terminal cells.
const (
	minimapCols = 50
	minimapRows = 19
)

// Minimap grid runes.
const (
	runeNode     = '●'
	runeCustom   = '◆'
	runeSelected = '◎'
	runeFiltered = '·'
)

// heatRamp maps opacity bands to shading, lightest first.
var heatRamp = []rune{' ', '░', '▒', '▓'}

// minimapOptions are the flags of the minimap command.
type minimapOptions struct {
	X, Y, K float64
	Select  string
	Click   string
	Search  string
}

// minimapCommand creates the minimap command for inspecting the overview.
func (c *CLI) minimapCommand() *cobra.Command {
	var opts minimapOptions

	cmd := &cobra.Command{
		Use:   "minimap [hierarchy.json]",
		Short: "Print the minimap with its custom-table heatmap",
		Long: `Print the minimap with its custom-table heatmap.

The minimap command lays out the hierarchy compactly, shades the density of
custom tables and draws the rectangle the primary view currently shows for
the transform given by --x, --y and --k.

--click x,y resolves a click in minimap pixels: the nearest table within
pick range is selected and the primary view is re-centred on it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMinimap(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.X, "x", 0, "primary view translation x")
	cmd.Flags().Float64Var(&opts.Y, "y", 0, "primary view translation y")
	cmd.Flags().Float64Var(&opts.K, "k", 1, "primary view zoom scale")
	cmd.Flags().StringVar(&opts.Select, "select", "", "table to mark as selected")
	cmd.Flags().StringVar(&opts.Click, "click", "", "simulate a minimap click at x,y")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "dim tables not matching this term")

	return cmd
}

func (c *CLI) runMinimap(ctx context.Context, input string, opts minimapOptions) error {
	treeOpts, err := c.treeOptions("", "", 0, 0)
	if err != nil {
		return err
	}
	treeOpts.MinimapHidden = false
	view := pipeline.NewTreeView(treeOpts)
	defer view.Close()

	root, err := tmio.ImportHierarchy(input)
	if err != nil {
		return fmt.Errorf("load hierarchy %s: %w", input, err)
	}
	if _, err := view.Load(ctx, root); err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if opts.Search != "" {
		if _, err := view.Search(opts.Search); err != nil {
			return err
		}
	}
	if err := view.Select(opts.Select); err != nil {
		return err
	}
	if _, err := view.SetTransform(viewport.Transform{X: opts.X, Y: opts.Y, K: opts.K}); err != nil {
		return err
	}

	if opts.Click != "" {
		x, y, err := parsePoint(opts.Click)
		if err != nil {
			return err
		}
		name, ok, err := view.ClickMinimap(x, y)
		if err != nil {
			return err
		}
		if ok {
			printSuccess("Selected %s", StyleHighlight.Render(name))
			printKeyValue("Transform", view.Zoom().Transform().String())
		} else {
			printWarning("No table within %.0fpx of %s", viewport.PickRadius, opts.Click)
		}
	}

	snap, err := view.Minimap()
	if err != nil {
		return err
	}
	fmt.Println(StyleTitle.Render("Minimap") + " " + StyleDim.Render(fmt.Sprintf("%.0f×%.0f", snap.Width, snap.Height)))
	fmt.Println(renderMinimap(snap, minimapCols, minimapRows))
	ind := snap.Indicator
	printKeyValue("Viewport", fmt.Sprintf("x=%.1f y=%.1f w=%.1f h=%.1f", ind.X, ind.Y, ind.W, ind.H))
	printKeyValue("Heat peak", fmt.Sprintf("%.2f", snap.Heatmap.Peak()))
	if sel, ok := snap.SelectedNode(); ok {
		printKeyValue("Selected", sel.Name)
	}
	return nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return x, y, nil
}

// minimapGrid rasterises a snapshot into rows of runes: heat shading, then
// the viewport indicator outline, then tables on top.
func minimapGrid(snap *viewport.Snapshot, cols, rows int) [][]rune {
	grid := make([][]rune, rows)
	sx, sy := snap.Width/float64(cols), snap.Height/float64(rows)
	for r := range grid {
		grid[r] = make([]rune, cols)
		for c := range grid[r] {
			cx, cy := (float64(c)+0.5)*sx, (float64(r)+0.5)*sy
			op := snap.Heatmap.Opacity(int(cx/snap.Heatmap.CellSize), int(cy/snap.Heatmap.CellSize))
			band := int(math.Ceil(op / viewport.HeatMaxOpacity * float64(len(heatRamp)-1)))
			grid[r][c] = heatRamp[min(band, len(heatRamp)-1)]
		}
	}

	cell := func(x, y float64) (int, int) {
		c := min(max(int(x/sx), 0), cols-1)
		r := min(max(int(y/sy), 0), rows-1)
		return c, r
	}
	ind := snap.Indicator
	c0, r0 := cell(ind.X, ind.Y)
	c1, r1 := cell(ind.X+ind.W, ind.Y+ind.H)
	for c := c0; c <= c1; c++ {
		grid[r0][c], grid[r1][c] = '─', '─'
	}
	for r := r0; r <= r1; r++ {
		grid[r][c0], grid[r][c1] = '│', '│'
	}
	grid[r0][c0], grid[r0][c1], grid[r1][c0], grid[r1][c1] = '┌', '┐', '└', '┘'

	for _, n := range snap.Nodes {
		c, r := cell(n.X, n.Y)
		if g := nodeRune(n); runeRank(g) > runeRank(grid[r][c]) {
			grid[r][c] = g
		}
	}
	return grid
}

func nodeRune(n viewport.MiniNode) rune {
	switch {
	case n.Selected:
		return runeSelected
	case n.Filtered:
		return runeFiltered
	case n.Custom:
		return runeCustom
	default:
		return runeNode
	}
}

// runeRank orders what wins when several tables share a cell.
func runeRank(r rune) int {
	switch r {
	case runeSelected:
		return 4
	case runeCustom:
		return 3
	case runeNode:
		return 2
	case runeFiltered:
		return 1
	default:
		return 0
	}
}

var (
	styleHeat      = lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorCustom))
	styleNode      = lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorBase))
	styleIndicator = lipgloss.NewStyle().Foreground(colorCyan)
)

// renderMinimap draws the minimap grid inside a border.
func renderMinimap(snap *viewport.Snapshot, cols, rows int) string {
	grid := minimapGrid(snap, cols, rows)
	lines := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		for _, r := range row {
			s := string(r)
			switch r {
			case runeCustom:
				b.WriteString(classStyle(hierarchy.Custom).Bold(true).Render(s))
			case runeNode:
				b.WriteString(styleNode.Render(s))
			case runeSelected:
				b.WriteString(StyleHighlight.Bold(true).Render(s))
			case runeFiltered:
				b.WriteString(StyleDim.Render(s))
			case '─', '│', '┌', '┐', '└', '┘':
				b.WriteString(styleIndicator.Render(s))
			case ' ':
				b.WriteString(s)
			default:
				b.WriteString(styleHeat.Render(s))
			}
		}
		lines[i] = b.String()
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Render(joinLines(lines))
}
