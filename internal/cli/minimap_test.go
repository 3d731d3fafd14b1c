package cli

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/tablemap/pkg/viewport"
)

func testSnapshot() *viewport.Snapshot {
	nodes := []viewport.MiniNode{
		{Name: "task", X: 10, Y: 75},
		{Name: "u_ticket", X: 100, Y: 75, Custom: true},
		{Name: "incident", X: 190, Y: 20, Selected: true},
		{Name: "change", X: 190, Y: 130, Filtered: true},
	}
	return &viewport.Snapshot{
		Width:     200,
		Height:    150,
		Nodes:     nodes,
		Heatmap:   viewport.NewHeatmap(200, 150, []r2.Vec{{X: 100, Y: 75}}),
		Indicator: viewport.Rect{X: 40, Y: 30, W: 80, H: 60},
		Selected:  2,
	}
}

func TestMinimapGrid(t *testing.T) {
	grid := minimapGrid(testSnapshot(), 20, 15)

	tests := []struct {
		name     string
		col, row int
		want     rune
	}{
		{"base table", 1, 7, runeNode},
		{"custom table", 10, 7, runeCustom},
		{"selected table", 19, 2, runeSelected},
		{"filtered table", 19, 13, runeFiltered},
		{"indicator top-left", 4, 3, '┌'},
		{"indicator bottom-right", 12, 9, '┘'},
		{"indicator top edge", 8, 3, '─'},
		{"cold corner", 0, 0, ' '},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grid[tt.row][tt.col]; got != tt.want {
				t.Errorf("grid[%d][%d] = %q, want %q", tt.row, tt.col, got, tt.want)
			}
		})
	}

	// Heat shades cells near the custom table.
	if got := grid[6][9]; got == ' ' {
		t.Error("cell next to a custom table should be shaded")
	}
}

func TestRuneRank(t *testing.T) {
	order := []rune{' ', runeFiltered, runeNode, runeCustom, runeSelected}
	for i := 1; i < len(order); i++ {
		if runeRank(order[i]) <= runeRank(order[i-1]) {
			t.Errorf("runeRank(%q) should outrank %q", order[i], order[i-1])
		}
	}
}
