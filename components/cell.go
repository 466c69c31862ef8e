package components

// Cell is the tri-state marker stored per occupancy grid cell.
type Cell uint8

const (
	CellEmpty    Cell = iota // Nothing accepted nearby
	CellOccupied             // An accepted point falls inside this cell
	CellExcluded             // Within the exclusion radius of an accepted point
)

// String returns the lowercase name of the cell state.
func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellOccupied:
		return "occupied"
	case CellExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}
