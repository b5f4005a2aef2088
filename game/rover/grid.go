package rover

import "github.com/pkg/errors"

// Grid is the immutable m x n plateau the rover explores
type Grid struct {
	m int
	n int
}

// NewGrid creates an m x n grid; both dimensions must be positive
func NewGrid(m, n int) (Grid, error) {
	if m <= 0 || n <= 0 {
		return Grid{}, errors.Wrapf(ErrInvalidGrid, "got %dx%d", m, n)
	}
	return Grid{m: m, n: n}, nil
}

// Contains reports whether p lies within [0, m) x [0, n)
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.m && p.Y >= 0 && p.Y < g.n
}

// Dimensions returns the width and height of the grid
func (g Grid) Dimensions() (int, int) {
	return g.m, g.n
}

// EligibleCells counts the cells random obstacles may occupy. Column 0 is
// excluded so the starting cell stays clear.
func (g Grid) EligibleCells() int {
	return (g.m - 1) * g.n
}

// wrap resolves each axis independently back into the grid
func (g Grid) wrap(p Position) Position {
	if p.X >= g.m {
		p.X -= g.m
	} else if p.X < 0 {
		p.X += g.m
	}
	if p.Y >= g.n {
		p.Y -= g.n
	} else if p.Y < 0 {
		p.Y += g.n
	}
	return p
}
