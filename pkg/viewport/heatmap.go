package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Heatmap parameters.
const (
	HeatRadius     = 30.0
	HeatCellSize   = 5.0
	HeatMaxOpacity = 0.4
	heatOpacityK   = 0.2
)

// Heatmap is a coarse density grid over the minimap canvas. Intensities are
// stored row-major.
type Heatmap struct {
	CellSize  float64   `json:"cellSize"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	Intensity []float64 `json:"intensity"`
}

// Cell is one non-empty heatmap cell.
type Cell struct {
	Col, Row  int
	X, Y      float64 // top-left corner in minimap space
	Intensity float64
	Opacity   float64
}

// NewHeatmap accumulates a linear-falloff contribution from every source
// point into a grid covering width × height.
func NewHeatmap(width, height float64, sources []r2.Vec) *Heatmap {
	h := &Heatmap{
		CellSize: HeatCellSize,
		Cols:     int(math.Ceil(width / HeatCellSize)),
		Rows:     int(math.Ceil(height / HeatCellSize)),
	}
	h.Cols, h.Rows = max(h.Cols, 0), max(h.Rows, 0)
	h.Intensity = make([]float64, h.Cols*h.Rows)
	reach := int(math.Ceil(HeatRadius / HeatCellSize))
	for _, p := range sources {
		pc, pr := int(p.X/HeatCellSize), int(p.Y/HeatCellSize)
		for r := max(pr-reach, 0); r <= min(pr+reach, h.Rows-1); r++ {
			for c := max(pc-reach, 0); c <= min(pc+reach, h.Cols-1); c++ {
				centre := r2.Vec{X: (float64(c) + 0.5) * HeatCellSize, Y: (float64(r) + 0.5) * HeatCellSize}
				d := r2.Norm(r2.Sub(centre, p))
				if d < HeatRadius {
					h.Intensity[r*h.Cols+c] += 1 - d/HeatRadius
				}
			}
		}
	}
	return h
}

// At returns the accumulated intensity of a cell, 0 outside the grid.
func (h *Heatmap) At(col, row int) float64 {
	if col < 0 || row < 0 || col >= h.Cols || row >= h.Rows {
		return 0
	}
	return h.Intensity[row*h.Cols+col]
}

// Opacity returns the rendered opacity of a cell, capped at HeatMaxOpacity.
func (h *Heatmap) Opacity(col, row int) float64 {
	return HeatOpacity(h.At(col, row))
}

// HeatOpacity maps an intensity to an opacity capped at HeatMaxOpacity.
func HeatOpacity(intensity float64) float64 {
	return math.Min(HeatMaxOpacity, heatOpacityK*intensity)
}

// Cells returns the non-empty cells in row-major order.
func (h *Heatmap) Cells() []Cell {
	var out []Cell
	for i, v := range h.Intensity {
		if v <= 0 {
			continue
		}
		c, r := i%h.Cols, i/h.Cols
		out = append(out, Cell{
			Col: c, Row: r,
			X: float64(c) * h.CellSize, Y: float64(r) * h.CellSize,
			Intensity: v,
			Opacity:   HeatOpacity(v),
		})
	}
	return out
}

// Peak returns the highest cell intensity.
func (h *Heatmap) Peak() float64 {
	var peak float64
	for _, v := range h.Intensity {
		peak = math.Max(peak, v)
	}
	return peak
}
