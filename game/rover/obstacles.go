package rover

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// Occupancy answers whether a cell is blocked
type Occupancy interface {
	Occupied(p Position) bool
}

// ObstacleField is the set of blocked cells on a grid. Obstacles are placed
// before a run starts and never move.
type ObstacleField struct {
	cells map[Position]struct{}
	order []Position
}

// NewObstacleField creates an empty obstacle field
func NewObstacleField() *ObstacleField {
	return &ObstacleField{
		cells: make(map[Position]struct{}),
	}
}

// InsertCustom adds an obstacle at p. Duplicates are not checked.
func (o *ObstacleField) InsertCustom(p Position) *ObstacleField {
	o.cells[p] = struct{}{}
	o.order = append(o.order, p)
	return o
}

// PopulateRandom places count distinct obstacles uniformly at random with
// x in [1, m-1] and y in [0, n-1], retrying on cells already taken.
func (o *ObstacleField) PopulateRandom(grid Grid, count int, rng *rand.Rand) error {
	if count <= 0 {
		return nil
	}

	m, n := grid.Dimensions()
	taken := 0
	for p := range o.cells {
		if p.X >= 1 && p.X < m && p.Y >= 0 && p.Y < n {
			taken++
		}
	}
	if free := grid.EligibleCells() - taken; count > free {
		return errors.Wrapf(ErrObstacleBudgetExceeded, "requested %d, %d free", count, free)
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for added := 0; added < count; {
		p := Position{X: 1 + rng.Intn(m-1), Y: rng.Intn(n)}
		if o.Occupied(p) {
			continue
		}
		o.cells[p] = struct{}{}
		o.order = append(o.order, p)
		added++
	}
	return nil
}

// Occupied reports whether an obstacle sits at p
func (o *ObstacleField) Occupied(p Position) bool {
	_, ok := o.cells[p]
	return ok
}

// Positions returns the obstacles in insertion order
func (o *ObstacleField) Positions() []Position {
	out := make([]Position, len(o.order))
	copy(out, o.order)
	return out
}

// Len returns the number of inserted obstacles, duplicates included
func (o *ObstacleField) Len() int {
	return len(o.order)
}
