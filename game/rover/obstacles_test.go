package rover

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObstacleFieldInsertCustom(t *testing.T) {
	o := NewObstacleField()
	o.InsertCustom(Position{2, 5}).InsertCustom(Position{3, 3})

	assert.True(t, o.Occupied(Position{2, 5}))
	assert.True(t, o.Occupied(Position{3, 3}))
	assert.False(t, o.Occupied(Position{5, 2}))
	assert.Equal(t, []Position{{2, 5}, {3, 3}}, o.Positions())
}

func TestObstacleFieldInsertCustomToleratesDuplicates(t *testing.T) {
	o := NewObstacleField()
	o.InsertCustom(Position{1, 1})
	o.InsertCustom(Position{1, 1})

	assert.Equal(t, 2, o.Len())
	assert.True(t, o.Occupied(Position{1, 1}))
}

func TestObstacleFieldPopulateRandom(t *testing.T) {
	g, err := NewGrid(10, 10)
	require.NoError(t, err)

	o := NewObstacleField()
	require.NoError(t, o.PopulateRandom(g, 20, rand.New(rand.NewSource(42))))

	positions := o.Positions()
	require.Len(t, positions, 20)

	seen := make(map[Position]bool)
	for _, p := range positions {
		assert.False(t, seen[p], "duplicate obstacle at %v", p)
		seen[p] = true
		assert.GreaterOrEqual(t, p.X, 1, "column 0 must stay clear")
		assert.True(t, g.Contains(p))
	}
}

func TestObstacleFieldPopulateRandomFillsEligibleSpace(t *testing.T) {
	g, err := NewGrid(3, 3)
	require.NoError(t, err)

	o := NewObstacleField()
	require.NoError(t, o.PopulateRandom(g, g.EligibleCells(), rand.New(rand.NewSource(1))))

	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			assert.Equal(t, x >= 1, o.Occupied(Position{x, y}), "cell (%d,%d)", x, y)
		}
	}
}

func TestObstacleFieldPopulateRandomAvoidsCustom(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	o := NewObstacleField()
	o.InsertCustom(Position{1, 0})
	require.NoError(t, o.PopulateRandom(g, 1, rand.New(rand.NewSource(7))))

	assert.Equal(t, []Position{{1, 0}, {1, 1}}, o.Positions())
}

func TestObstacleFieldPopulateRandomBudgetExceeded(t *testing.T) {
	g, err := NewGrid(3, 2)
	require.NoError(t, err)

	o := NewObstacleField()
	o.InsertCustom(Position{1, 1})
	err = o.PopulateRandom(g, 4, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrObstacleBudgetExceeded))
	assert.Equal(t, 1, o.Len())
}

func TestObstacleFieldPopulateRandomZero(t *testing.T) {
	g, _ := NewGrid(1, 1)
	o := NewObstacleField()
	require.NoError(t, o.PopulateRandom(g, 0, nil))
	assert.Equal(t, 0, o.Len())
}
