package rover

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGridSize = 10

func newTestGrid(t *testing.T) Grid {
	t.Helper()
	g, err := NewGrid(testGridSize, testGridSize)
	require.NoError(t, err)
	return g
}

// drive feeds instructions one at a time, stopping once the rover halts
func drive(t *testing.T, r *Rover, g Grid, obstacles Occupancy, instructions string) {
	t.Helper()
	for i := 0; i < len(instructions); i++ {
		if !r.CanMove() {
			break
		}
		_, err := r.Execute(Command(instructions[i]), g, obstacles)
		require.NoError(t, err)
	}
}

func TestRotation(t *testing.T) {
	tests := []struct {
		instructions string
		expected     Heading
	}{
		{"R", East},
		{"RR", South},
		{"RRR", West},
		{"RRRR", North},
		{"L", West},
		{"LL", South},
		{"LLL", East},
		{"LLLL", North},
	}

	for _, tt := range tests {
		t.Run(tt.instructions, func(t *testing.T) {
			r := NewRover()
			drive(t, r, newTestGrid(t), NewObstacleField(), tt.instructions)
			assert.Equal(t, tt.expected, r.Heading())
			assert.Equal(t, tt.expected.Vector(), r.Direction())
			assert.Equal(t, Position{0, 0}, r.Position())
			assert.Len(t, r.History(), 1)
		})
	}
}

func TestRotationIdentities(t *testing.T) {
	g := newTestGrid(t)
	for _, prefix := range []string{"", "R", "RR", "RRR"} {
		start := NewRover()
		drive(t, start, g, nil, prefix)
		want := start.Heading()

		for _, seq := range []string{"RRRR", "LLLL", "RL", "LR"} {
			r := NewRover()
			drive(t, r, g, nil, prefix+seq)
			assert.Equal(t, want, r.Heading(), "prefix %q then %q", prefix, seq)
		}
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name         string
		instructions string
		expected     string
	}{
		{"no commands", "", "0:0:N"},
		{"straight north", "MMM", "0:3:N"},
		{"combined", "MMRMMLM", "2:3:N"},
		{"with wrap around", "MMRMMMLMRMRMMMMM", "4:8:S"},
		{"wrap west", "LM", "9:0:W"},
		{"wrap south", "RRM", "0:9:S"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRover()
			drive(t, r, newTestGrid(t), NewObstacleField(), tt.instructions)
			assert.Equal(t, tt.expected, r.String())
			assert.True(t, r.CanMove())
		})
	}
}

func TestStopIfObstacle(t *testing.T) {
	g := newTestGrid(t)
	obstacles := NewObstacleField().InsertCustom(Position{2, 5})

	r := NewRover()
	drive(t, r, g, obstacles, "MMRMMLMMMM")

	assert.Equal(t, Position{2, 4}, r.Position())
	assert.False(t, r.CanMove())
	assert.Equal(t, "O:2:4:N", r.String())

	blocked, ok := r.BlockedAt()
	require.True(t, ok)
	assert.Equal(t, Position{2, 5}, blocked)
}

func TestObstacleOutcome(t *testing.T) {
	g := newTestGrid(t)
	obstacles := NewObstacleField().InsertCustom(Position{0, 1})

	r := NewRover()
	out, err := r.Execute(Move, g, obstacles)
	require.NoError(t, err)

	assert.Equal(t, Halted, out.Kind)
	require.NotNil(t, out.BlockedAt)
	assert.Equal(t, Position{0, 1}, *out.BlockedAt)
	assert.Equal(t, Position{0, 0}, out.To)
	assert.Equal(t, []Position{{0, 0}}, r.History())
}

func TestObstacleBeforeWrap(t *testing.T) {
	// An obstacle at the raw out-of-bounds candidate is checked before wrapping.
	g := newTestGrid(t)
	obstacles := NewObstacleField().InsertCustom(Position{0, -1})

	r := NewRover()
	drive(t, r, g, obstacles, "RRM")

	assert.False(t, r.CanMove())
	assert.Equal(t, Position{0, 0}, r.Position())
}

func TestHaltedIsIdempotent(t *testing.T) {
	g := newTestGrid(t)
	obstacles := NewObstacleField().InsertCustom(Position{0, 2})

	r := NewRover()
	drive(t, r, g, obstacles, "MM")
	require.False(t, r.CanMove())

	pos, heading, history := r.Position(), r.Heading(), r.History()
	for _, c := range []Command{Move, Left, Right, Move, Right, Move} {
		out, err := r.Execute(c, g, obstacles)
		require.NoError(t, err)
		assert.Equal(t, Halted, out.Kind)
	}

	assert.Equal(t, pos, r.Position())
	assert.Equal(t, heading, r.Heading())
	assert.Equal(t, history, r.History())
	assert.False(t, r.CanMove())
}

func TestHistoryStartsAtOrigin(t *testing.T) {
	g := newTestGrid(t)
	for _, seq := range []string{"", "M", "LM", "RRMMMM", "MMRMMMLMRMRMMMMM"} {
		r := NewRover()
		drive(t, r, g, nil, seq)
		history := r.History()
		require.NotEmpty(t, history)
		assert.Equal(t, Position{0, 0}, history[0], "sequence %q", seq)
	}
}

func TestHistoryAppendsOnlyOnMove(t *testing.T) {
	r := NewRover()
	drive(t, r, newTestGrid(t), nil, "MRMLLM")

	assert.Equal(t, []Position{{0, 0}, {0, 1}, {1, 1}, {0, 1}}, r.History())
}

func TestWrapAroundRoundTrip(t *testing.T) {
	g, err := NewGrid(6, 4)
	require.NoError(t, err)

	tests := []struct {
		name   string
		turn   string
		extent int
	}{
		{"north", "", 4},
		{"east", "R", 6},
		{"south", "RR", 4},
		{"west", "L", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRover()
			drive(t, r, g, nil, tt.turn)
			start := r.Position()

			wraps := 0
			for i := 0; i < tt.extent; i++ {
				out, err := r.Execute(Move, g, nil)
				require.NoError(t, err)
				if out.Wrapped {
					wraps++
				}
			}

			assert.Equal(t, start, r.Position())
			assert.Equal(t, 1, wraps)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	r := NewRover()
	out, err := r.Execute(Command('X'), newTestGrid(t), nil)
	require.Error(t, err)

	var unknown *UnknownCommandError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, Command('X'), unknown.Command)
	assert.Equal(t, `command "X" does not exist, choose one of M, R, L`, err.Error())
	assert.Equal(t, Outcome{}, out)

	// state untouched
	assert.Equal(t, "0:0:N", r.String())
	assert.True(t, r.CanMove())
}

func TestUnknownCommandIsCaseSensitive(t *testing.T) {
	r := NewRover()
	_, err := r.Execute(Command('m'), newTestGrid(t), nil)
	var unknown *UnknownCommandError
	assert.True(t, errors.As(err, &unknown))
}

func TestHeadingOf(t *testing.T) {
	for h, v := range headingVectors {
		got, err := headingOf(v)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	_, err := headingOf(Vector{DX: 1, DY: 1})
	var invalid *InvalidDirectionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, Vector{DX: 1, DY: 1}, invalid.Vector)
}

func TestOutcomeKinds(t *testing.T) {
	g := newTestGrid(t)
	r := NewRover()

	out, err := r.Execute(Right, g, nil)
	require.NoError(t, err)
	assert.Equal(t, Rotated, out.Kind)
	assert.Equal(t, East, out.Heading)

	out, err = r.Execute(Move, g, nil)
	require.NoError(t, err)
	assert.Equal(t, Moved, out.Kind)
	assert.Equal(t, Position{0, 0}, out.From)
	assert.Equal(t, Position{1, 0}, out.To)
	assert.False(t, out.Wrapped)
}
