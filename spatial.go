package main

import "math"

// SpatialCellSize is a few hit radii wide; large players simply span more cells
const SpatialCellSize = 200.0

// SpatialGrid is a uniform grid for broad-phase collision queries. It stores
// indices into a caller-owned slice.
type SpatialGrid struct {
	cellSize   float64
	cols, rows int
	cells      [][]int
}

// NewSpatialGrid creates a grid covering width x height
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = SpatialCellSize
	}
	cols := int(math.Ceil(width/cellSize)) + 1
	rows := int(math.Ceil(height/cellSize)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *SpatialGrid) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= g.rows {
		return g.rows - 1
	}
	return r
}

// Insert adds an index at the given position
func (g *SpatialGrid) Insert(x, y float64, idx int) {
	cx := g.clampCol(int(x / g.cellSize))
	cy := g.clampRow(int(y / g.cellSize))
	cell := cy*g.cols + cx
	g.cells[cell] = append(g.cells[cell], idx)
}

// QueryBuf appends indices in cells overlapping the box around (x, y) to buf
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []int) []int {
	minCX := g.clampCol(int(math.Floor((x - radius) / g.cellSize)))
	maxCX := g.clampCol(int(math.Floor((x + radius) / g.cellSize)))
	minCY := g.clampRow(int(math.Floor((y - radius) / g.cellSize)))
	maxCY := g.clampRow(int(math.Floor((y + radius) / g.cellSize)))
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}
