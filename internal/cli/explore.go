package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/layout"
	"github.com/matzehuels/tablemap/pkg/perf"
	"github.com/matzehuels/tablemap/pkg/pipeline"
	"github.com/matzehuels/tablemap/pkg/render"
	"github.com/matzehuels/tablemap/pkg/viewport"
)

// Explorer key steps, in screen pixels.
const (
	panStep  = 40.0
	dragStep = 20.0
	zoomIn   = 1.25
	zoomOut  = 0.8
)

// exploreOptions are the flags of the explore command.
type exploreOptions struct {
	Center string
	FPS    int
	Watch  bool
}

// exploreCommand creates the interactive relationship graph explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOptions

	cmd := &cobra.Command{
		Use:   "explore [relationships.json]",
		Short: "Explore a table's relationship graph interactively",
		Long: `Explore a table's relationship graph interactively.

The simulation advances one step per frame while the graph settles.

Keys:
  ←↑↓→     pan
  + / -    zoom in / out around the centre, 0 resets
  tab      select the next table (shift+tab: previous)
  h j k l  drag the selected table
  space    drop the dragged table
  q        quit

The focused table stays pinned at the centre. With --watch the graph is
rebuilt from scratch whenever the input file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Center, "center", "c", "", "table to focus (default: the bundle's center)")
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, "frames per second (default from config)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "rebuild the graph when the input changes")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, opts exploreOptions) error {
	view := pipeline.NewFocusView(c.focusOptions())
	defer view.Close(ctx)

	if _, err := loadFocus(ctx, view, input, opts.Center); err != nil {
		return err
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = c.cfg.Explore.FPS
	}
	m := newExploreModel(ctx, view, fps)
	m.title = input

	if opts.Watch {
		fw, err := newFileWatcher(input, c.Logger)
		if err != nil {
			return err
		}
		defer fw.Close()
		go fw.run(ctx)
		m.changes = fw.C
		m.stopped = fw.Done()
		m.reload = func(center string) error {
			_, err := loadFocus(ctx, view, input, center)
			return err
		}
	}

	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// Model
// =============================================================================

type frameMsg time.Time

type fileChangedMsg struct{}

// exploreModel is the bubbletea model of the explorer. Every frame message
// steps the simulation once; all geometry is read from the live engine.
type exploreModel struct {
	ctx     context.Context
	view    *pipeline.FocusView
	monitor *perf.Monitor
	frame   time.Duration

	title      string
	cols, rows int
	selected   int
	dragging   string
	fps        float64
	status     string
	quitting   bool

	changes <-chan struct{}
	stopped <-chan struct{}
	reload  func(center string) error
}

func newExploreModel(ctx context.Context, view *pipeline.FocusView, fps int) *exploreModel {
	return &exploreModel{
		ctx:     ctx,
		view:    view,
		monitor: perf.NewMonitor(),
		frame:   time.Second / time.Duration(max(fps, 1)),
		cols:    80,
		rows:    24,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return tea.Batch(m.nextFrame(), m.waitChange())
}

func (m *exploreModel) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *exploreModel) waitChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes, stopped, done := m.changes, m.stopped, m.ctx.Done()
	return func() tea.Msg {
		select {
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			return fileChangedMsg{}
		case <-stopped:
			return nil
		case <-done:
			return nil
		}
	}
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.quitting {
			return m, nil
		}
		if _, err := m.view.Tick(); err != nil {
			m.status = err.Error()
		}
		m.fps = m.monitor.MeasureFPS()
		return m, m.nextFrame()

	case fileChangedMsg:
		m.refocus()
		return m, m.waitChange()

	case tea.WindowSizeMsg:
		m.cols, m.rows = max(msg.Width, 20), max(msg.Height, 6)

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *exploreModel) refocus() {
	if m.reload == nil {
		return
	}
	center := ""
	if g := m.view.Graph(); g != nil {
		center = g.Center.ID
	}
	m.dragging = ""
	m.selected = 0
	if err := m.reload(center); err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	m.status = "reloaded " + m.title
}

func (m *exploreModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.view.Close(m.ctx)
		return tea.Quit
	case "up", "down", "left", "right":
		if z, err := m.view.Zoom(); err == nil {
			dx, dy := arrowDelta(key, panStep)
			z.Pan(-dx, -dy)
		}
	case "+", "=":
		m.zoom(zoomIn)
	case "-", "_":
		m.zoom(zoomOut)
	case "0":
		if z, err := m.view.Zoom(); err == nil {
			z.Reset()
		}
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "h", "j", "k", "l":
		m.drag(key)
	case " ":
		m.drop()
	}
	return nil
}

func arrowDelta(key string, step float64) (float64, float64) {
	switch key {
	case "up", "k":
		return 0, -step
	case "down", "j":
		return 0, step
	case "left", "h":
		return -step, 0
	default:
		return step, 0
	}
}

func (m *exploreModel) zoom(factor float64) {
	z, err := m.view.Zoom()
	if err != nil {
		return
	}
	dims := m.view.Engine().Dimensions()
	z.ZoomAt(r2.Vec{X: dims.Width / 2, Y: dims.Height / 2}, factor)
}

func (m *exploreModel) selectedNode() *graph.Node {
	g := m.view.Graph()
	if g == nil {
		return nil
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	return nodes[m.selected%len(nodes)]
}

func (m *exploreModel) cycle(dir int) {
	g := m.view.Graph()
	if g == nil || len(g.Nodes()) == 0 {
		return
	}
	m.drop()
	n := len(g.Nodes())
	m.selected = ((m.selected+dir)%n + n) % n
}

func (m *exploreModel) drag(key string) {
	n := m.selectedNode()
	z, err := m.view.Zoom()
	if n == nil || err != nil {
		return
	}
	if m.dragging != n.ID {
		m.drop()
		if err := m.view.DragStart(n.ID, n.X, n.Y); err != nil {
			m.status = err.Error()
			return
		}
		m.dragging = n.ID
	}
	x, y := n.X, n.Y
	if n.Pinned() {
		x, y = *n.FX, *n.FY
	}
	dx, dy := arrowDelta(key, dragStep/z.Transform().K)
	if err := m.view.DragMove(n.ID, x+dx, y+dy); err != nil {
		m.status = err.Error()
	}
}

func (m *exploreModel) drop() {
	if m.dragging == "" {
		return
	}
	if err := m.view.DragEnd(m.dragging); err != nil {
		m.status = err.Error()
	}
	m.dragging = ""
}

// =============================================================================
// View
// =============================================================================

func (m *exploreModel) View() string {
	if m.quitting {
		return ""
	}
	e := m.view.Engine()
	if e == nil {
		return StyleDim.Render("no table focused") + "\n"
	}
	g := e.Graph()
	sel := ""
	if n := m.selectedNode(); n != nil {
		sel = n.ID
	}
	rows := max(m.rows-2, 1)
	grid := rasterize(g, e.Zoom().Transform(), e.Dimensions(), m.cols, rows, sel)

	var b strings.Builder
	for _, line := range grid {
		b.WriteString(renderGlyphs(line))
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine(e, sel))
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render("←↑↓→ pan  +/- zoom  0 reset  tab select  hjkl drag  space drop  q quit"))
	return b.String()
}

func (m *exploreModel) statusLine(e *graph.Engine, sel string) string {
	parts := []string{
		StyleTitle.Render(e.Graph().Center.ID),
		fmt.Sprintf("%d tables", len(e.Graph().Nodes())),
		fmt.Sprintf("tick %d", e.Ticks()),
		fmt.Sprintf("α %.3f", e.Alpha()),
		fmt.Sprintf("%.0f fps", m.fps),
		fmt.Sprintf("k %.2f", e.Zoom().Transform().K),
	}
	if sel != "" {
		s := "› " + sel
		if m.dragging == sel {
			s += " (dragging)"
		}
		parts = append(parts, StyleHighlight.Render(s))
	}
	if m.status != "" {
		parts = append(parts, StyleWarning.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// glyphKind selects the style of a cell.
type glyphKind int

const (
	kindBlank glyphKind = iota
	kindEdgeStandard
	kindEdgeCustom
	kindEdgeCustomStrong
	kindNode
	kindNodeCustom
	kindNodeFiltered
	kindCenter
	kindSelected
)

type glyph struct {
	r rune
	k glyphKind
}

var glyphStyles = map[glyphKind]lipgloss.Style{
	kindEdgeStandard:     lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorEdgeStandard)),
	kindEdgeCustom:       lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorEdgeCustom)),
	kindEdgeCustomStrong: lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorEdgeCustomStrong)),
	kindNode:             lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorBase)),
	kindNodeCustom:       lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorCustom)),
	kindNodeFiltered:     StyleDim,
	kindCenter:           lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
	kindSelected:         lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
}

func edgeKind(c graph.EdgeClass) glyphKind {
	switch c {
	case graph.EdgeCustomStrong:
		return kindEdgeCustomStrong
	case graph.EdgeCustom:
		return kindEdgeCustom
	default:
		return kindEdgeStandard
	}
}

func nodeKind(n *graph.Node, selected string) glyphKind {
	switch {
	case n.ID == selected:
		return kindSelected
	case n.IsCenter():
		return kindCenter
	case n.IsFiltered:
		return kindNodeFiltered
	case n.IsCustom:
		return kindNodeCustom
	default:
		return kindNode
	}
}

func markRank(n *graph.Node, selected string) int {
	switch {
	case n.IsCenter():
		return 2
	case n.ID == selected:
		return 1
	default:
		return 0
	}
}

// rasterize projects the graph through t onto a cols × rows character grid
// covering the canvas: edges, then labels, then node marks.
func rasterize(g *graph.Graph, t viewport.Transform, dims layout.Dimensions, cols, rows int, selected string) [][]glyph {
	grid := make([][]glyph, rows)
	for r := range grid {
		grid[r] = make([]glyph, cols)
		for c := range grid[r] {
			grid[r][c] = glyph{' ', kindBlank}
		}
	}
	toCell := func(x, y float64) (float64, float64) {
		s := t.Apply(r2.Vec{X: x, Y: y})
		return s.X / dims.Width * float64(cols), s.Y / dims.Height * float64(rows)
	}
	// Cells are floored so positions just off the left or top edge stay off.
	set := func(cf, rf float64, gl glyph) {
		c, r := int(math.Floor(cf)), int(math.Floor(rf))
		if r >= 0 && r < rows && c >= 0 && c < cols {
			grid[r][c] = gl
		}
	}

	for _, e := range g.Edges {
		ca, ra := toCell(e.X1, e.Y1)
		cb, rb := toCell(e.X2, e.Y2)
		steps := int(math.Max(math.Abs(cb-ca), math.Abs(rb-ra)))
		for i := 1; i < steps; i++ {
			f := float64(i) / float64(steps)
			set(ca+(cb-ca)*f, ra+(rb-ra)*f, glyph{'·', edgeKind(e.Class)})
		}
	}

	nodes := slices.Clone(g.Nodes())
	for _, n := range nodes {
		cf, rf := toCell(n.X, n.Y)
		label := n.Label
		if label == "" {
			label = n.ID
		}
		for i, ch := range []rune(label) {
			set(math.Floor(cf)+2+float64(i), rf, glyph{ch, nodeKind(n, selected)})
		}
	}
	// Marks go on top of labels; the selection and then the center win
	// shared cells.
	slices.SortStableFunc(nodes, func(a, b *graph.Node) int {
		return markRank(a, selected) - markRank(b, selected)
	})
	for _, n := range nodes {
		cf, rf := toCell(n.X, n.Y)
		mark := '●'
		switch {
		case n.IsCenter():
			mark = '◉'
		case n.ID == selected:
			mark = '◎'
		}
		set(cf, rf, glyph{mark, nodeKind(n, selected)})
	}
	return grid
}

// renderGlyphs styles one grid row, batching runs of the same kind.
func renderGlyphs(line []glyph) string {
	var b, run strings.Builder
	kind := kindBlank
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if st, ok := glyphStyles[kind]; ok {
			b.WriteString(st.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, g := range line {
		if g.k != kind {
			flush()
			kind = g.k
		}
		run.WriteRune(g.r)
	}
	flush()
	return b.String()
}
