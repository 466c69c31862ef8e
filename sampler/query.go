package sampler

import (
	"fmt"

	"github.com/pthm-cable/poissondisk/components"
)

// Grid is a read-only view of the occupancy raster. Cells aliases the
// sampler's storage: it is only valid until the next Tick or Reset, and
// callers must not write to it.
type Grid struct {
	Width  int
	Height int
	Cells  []components.Cell // row-major, Width*Height entries
}

// At returns the cell at (x, y); out-of-range reads are empty.
func (g Grid) At(x, y int) components.Cell {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return components.CellEmpty
	}
	return g.Cells[y*g.Width+x]
}

// Count returns how many cells are in state c.
func (g Grid) Count(c components.Cell) int {
	n := 0
	for _, v := range g.Cells {
		if v == c {
			n++
		}
	}
	return n
}

// Width returns the domain width.
func (s *Sampler) Width() int { return s.cfg.Width }

// Height returns the domain height.
func (s *Sampler) Height() int { return s.cfg.Height }

// Radius returns the minimum point spacing.
func (s *Sampler) Radius() float64 { return s.cfg.Radius }

// Config returns the configuration the sampler was built with.
func (s *Sampler) Config() Config { return s.cfg }

// State returns the current lifecycle phase.
func (s *Sampler) State() State { return s.state }

// Done reports whether the active list has been exhausted.
func (s *Sampler) Done() bool { return s.state == StateExhausted || len(s.active) == 0 }

// Counters returns the cumulative work counters.
func (s *Sampler) Counters() Counters { return s.counters }

// NumPoints returns the number of accepted points. It never decreases
// between Resets.
func (s *Sampler) NumPoints() int { return len(s.points) }

// NumActive returns the number of points still on the active list.
func (s *Sampler) NumActive() int { return len(s.active) }

// PointAt returns the i-th accepted point in acceptance order.
func (s *Sampler) PointAt(i int) (components.Point, error) {
	if i < 0 || i >= len(s.points) {
		return components.Point{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.points))
	}
	return s.points[i], nil
}

// IsActive reports whether point i is still used to spawn candidates.
// Out-of-range indices are never active.
func (s *Sampler) IsActive(i int) bool {
	if i < 0 || i >= len(s.points) {
		return false
	}
	return s.live.Get(i)
}

// Points returns the accepted points in acceptance order. The slice aliases
// the sampler's storage and is only valid until the next Tick or Reset.
func (s *Sampler) Points() []components.Point {
	return s.points[:len(s.points):len(s.points)]
}

// Cells returns a view of the occupancy grid, or the zero Grid when the
// sampler was built without one.
func (s *Sampler) Cells() Grid {
	if s.grid == nil {
		return Grid{}
	}
	return Grid{Width: s.grid.W, Height: s.grid.H, Cells: s.grid.Cells}
}

// Coverage returns the fraction of non-empty grid cells, or 0 without a grid.
func (s *Sampler) Coverage() float64 {
	if s.grid == nil {
		return 0
	}
	return s.grid.Coverage()
}

// Index exposes the spatial index for read-only neighbour queries.
func (s *Sampler) Index() Neighbors { return s.index }

// Neighbors is the query side of the spatial index.
type Neighbors interface {
	HasNeighborWithin(c components.Point, radius float64) bool
	Nearest(c components.Point, exclude int, maxDist float64) (float64, bool)
}
