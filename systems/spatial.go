// Package systems provides the building blocks the sampler composes:
// the background spatial grid, the candidate generator and the occupancy raster.
package systems

import (
	"math"

	"github.com/pthm-cable/poissondisk/components"
)

// noPoint marks an empty background cell.
const noPoint = -1

// SpatialGrid provides O(1) "is anything too close" lookups using a
// background grid whose cell diagonal equals the sampling radius, so each
// cell can hold at most one accepted point.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	points   []components.Point // copy of each inserted point, indexed by sample index
	cells    []int              // flat grid of sample indices, noPoint when empty
}

// NewSpatialGrid creates a grid covering a width x height domain for the given radius.
func NewSpatialGrid(width, height, radius float64) *SpatialGrid {
	cellSize := radius / math.Sqrt2
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    make([]int, cols*rows),
	}
	g.Reset()
	return g
}

// Reset empties every cell.
func (g *SpatialGrid) Reset() {
	for i := range g.cells {
		g.cells[i] = noPoint
	}
	g.points = g.points[:0]
}

// CellSize returns the edge length of a background cell.
func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// Cols returns the number of grid columns.
func (g *SpatialGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows.
func (g *SpatialGrid) Rows() int { return g.rows }

// Capacity is the largest number of points the grid can ever hold.
func (g *SpatialGrid) Capacity() int { return len(g.cells) }

// Insert stores point p under sample index idx. Indices must be inserted in
// order (0, 1, 2, ...), matching the accepted set.
func (g *SpatialGrid) Insert(idx int, p components.Point) {
	col, row := g.cellOf(p)
	g.cells[row*g.cols+col] = idx
	if idx == len(g.points) {
		g.points = append(g.points, p)
	}
}

// HasNeighborWithin reports whether any stored point lies strictly closer
// than radius to c.
func (g *SpatialGrid) HasNeighborWithin(c components.Point, radius float64) bool {
	radiusSq := radius * radius
	found := false
	g.scan(c, radius, func(_ int, p components.Point) bool {
		if p.DistSq(c) < radiusSq {
			found = true
			return false
		}
		return true
	})
	return found
}

// Nearest returns the distance from c to the closest stored point within
// maxDist, skipping sample index exclude. ok is false when nothing is in range.
func (g *SpatialGrid) Nearest(c components.Point, exclude int, maxDist float64) (dist float64, ok bool) {
	bestSq := maxDist * maxDist
	g.scan(c, maxDist, func(idx int, p components.Point) bool {
		if idx == exclude {
			return true
		}
		if d := p.DistSq(c); d <= bestSq {
			bestSq = d
			ok = true
		}
		return true
	})
	if !ok {
		return 0, false
	}
	return math.Sqrt(bestSq), true
}

// scan visits every stored point in the cells that could hold a point within
// reach of c. visit returns false to stop early.
func (g *SpatialGrid) scan(c components.Point, reach float64, visit func(idx int, p components.Point) bool) {
	// Two cells on either side for the sampling radius, since the cell edge is radius/sqrt2.
	span := int(math.Ceil(reach / g.cellSize))
	col, row := g.cellOf(c)

	minCol, maxCol := clampInt(col-span, 0, g.cols-1), clampInt(col+span, 0, g.cols-1)
	minRow, maxRow := clampInt(row-span, 0, g.rows-1), clampInt(row+span, 0, g.rows-1)

	for r := minRow; r <= maxRow; r++ {
		base := r * g.cols
		for cc := minCol; cc <= maxCol; cc++ {
			idx := g.cells[base+cc]
			if idx == noPoint {
				continue
			}
			if !visit(idx, g.points[idx]) {
				return
			}
		}
	}
}

// cellOf returns the (col, row) for a domain position, clamped to the grid.
func (g *SpatialGrid) cellOf(p components.Point) (int, int) {
	col := clampInt(int(math.Floor(p.X/g.cellSize)), 0, g.cols-1)
	row := clampInt(int(math.Floor(p.Y/g.cellSize)), 0, g.rows-1)
	return col, row
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
