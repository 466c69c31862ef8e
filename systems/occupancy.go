package systems

import (
	"math"

	"github.com/pthm-cable/poissondisk/components"
)

// OccupancyGrid is a one-cell-per-unit raster of the accepted set and the
// exclusion discs around it. It is a cache: everything in it can be rebuilt
// from the accepted points and the radius.
type OccupancyGrid struct {
	W, H  int
	Cells []components.Cell // row-major, W*H entries

	occupied int
	excluded int
}

// NewOccupancyGrid creates an all-empty w x h grid.
func NewOccupancyGrid(w, h int) *OccupancyGrid {
	return &OccupancyGrid{
		W:     w,
		H:     h,
		Cells: make([]components.Cell, w*h),
	}
}

// Reset marks every cell empty without reallocating.
func (og *OccupancyGrid) Reset() {
	clear(og.Cells)
	og.occupied = 0
	og.excluded = 0
}

// Index returns the row-major index of the cell containing p, or -1 when p
// is outside the grid.
func (og *OccupancyGrid) Index(p components.Point) int {
	x := int(math.Floor(p.X))
	y := int(math.Floor(p.Y))
	if x < 0 || x >= og.W || y < 0 || y >= og.H {
		return -1
	}
	return y*og.W + x
}

// At returns the state of cell (x, y). Out-of-range cells read as empty.
func (og *OccupancyGrid) At(x, y int) components.Cell {
	if x < 0 || x >= og.W || y < 0 || y >= og.H {
		return components.CellEmpty
	}
	return og.Cells[y*og.W+x]
}

// Occupied returns how many cells hold an accepted point.
func (og *OccupancyGrid) Occupied() int { return og.occupied }

// Excluded returns how many cells are inside an exclusion disc but hold no point.
func (og *OccupancyGrid) Excluded() int { return og.excluded }

// Coverage returns the fraction of non-empty cells.
func (og *OccupancyGrid) Coverage() float64 {
	if len(og.Cells) == 0 {
		return 0
	}
	return float64(og.occupied+og.excluded) / float64(len(og.Cells))
}

// Occupy marks the cell under p as occupied and every empty cell whose
// centre lies strictly within radius of p as excluded.
func (og *OccupancyGrid) Occupy(p components.Point, radius float64) {
	idx := og.Index(p)
	if idx < 0 {
		return
	}
	og.set(idx, components.CellOccupied)

	minX := max(int(math.Floor(p.X-radius)), 0)
	maxX := min(int(math.Ceil(p.X+radius)), og.W-1)
	minY := max(int(math.Floor(p.Y-radius)), 0)
	maxY := min(int(math.Ceil(p.Y+radius)), og.H-1)
	radiusSq := radius * radius

	for y := minY; y <= maxY; y++ {
		cy := float64(y) + 0.5
		row := y * og.W
		for x := minX; x <= maxX; x++ {
			if og.Cells[row+x] != components.CellEmpty {
				continue
			}
			centre := components.Point{X: float64(x) + 0.5, Y: cy}
			if centre.DistSq(p) < radiusSq {
				og.set(row+x, components.CellExcluded)
			}
		}
	}
}

// set transitions one cell, keeping the counters in step.
func (og *OccupancyGrid) set(idx int, c components.Cell) {
	switch og.Cells[idx] {
	case components.CellOccupied:
		og.occupied--
	case components.CellExcluded:
		og.excluded--
	}
	switch c {
	case components.CellOccupied:
		og.occupied++
	case components.CellExcluded:
		og.excluded++
	}
	og.Cells[idx] = c
}
