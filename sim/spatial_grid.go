package sim

import (
	"math"

	"github.com/lab1702/squadron-ai/ai"
)

// SpatialGrid buckets ships into square cells in the XY plane so each unit's
// ally snapshot only scans its own and the 8 adjacent cells. With a cell size
// of at least ai.NeighborRadius no ally in range is missed.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]*ai.EnemyShip
}

type cellKey struct {
	col, row int
}

// NewSpatialGrid creates an unbounded grid with the given cell size
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = ai.NeighborRadius
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*ai.EnemyShip),
	}
}

// Clear resets the grid for a new tick. Buckets that held ships keep their
// capacity for the next tick; buckets left empty since the previous Clear are
// dropped, so the map only tracks cells the squad has recently occupied.
func (g *SpatialGrid) Clear() {
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = bucket[:0]
	}
}

func (g *SpatialGrid) key(x, y float64) cellKey {
	return cellKey{
		col: int(math.Floor(x / g.cellSize)),
		row: int(math.Floor(y / g.cellSize)),
	}
}

// Insert adds a ship to the cell containing its position
func (g *SpatialGrid) Insert(s *ai.EnemyShip) {
	k := g.key(s.Position.X, s.Position.Y)
	g.cells[k] = append(g.cells[k], s)
}

// Nearby returns the ships that might be within one cell of (x, y).
// Callers still do exact distance checks.
func (g *SpatialGrid) Nearby(x, y float64) []*ai.EnemyShip {
	center := g.key(x, y)

	var result []*ai.EnemyShip
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			result = append(result, g.cells[cellKey{col: center.col + dc, row: center.row + dr}]...)
		}
	}
	return result
}

// IndexShips populates the grid with every active ship
func (g *SpatialGrid) IndexShips(ships []*ai.EnemyShip) {
	g.Clear()
	for _, s := range ships {
		if s.Active {
			g.Insert(s)
		}
	}
}
