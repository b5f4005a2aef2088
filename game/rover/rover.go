package rover

import "fmt"

// Rover tracks position, heading and every cell it has occupied. Once it
// runs into an obstacle it is halted for good.
type Rover struct {
	pos     Position
	dir     Vector
	heading Heading
	history []Position
	canMove bool
	blocked *Position
}

// NewRover creates a rover at (0,0) facing North
func NewRover() *Rover {
	start := Position{X: 0, Y: 0}
	return &Rover{
		pos:     start,
		dir:     North.Vector(),
		heading: North,
		history: []Position{start},
		canMove: true,
	}
}

// Execute applies a single command. Obstacle collisions are reported through
// the outcome, not as errors.
func (r *Rover) Execute(cmd Command, grid Grid, obstacles Occupancy) (Outcome, error) {
	if !cmd.Valid() {
		return Outcome{}, &UnknownCommandError{Command: cmd}
	}

	out := Outcome{Command: cmd, From: r.pos, To: r.pos, Heading: r.heading}
	if !r.canMove {
		out.Kind = Halted
		out.BlockedAt = r.blocked
		return out, nil
	}

	switch cmd {
	case Left, Right:
		next := rotateRight(r.dir)
		if cmd == Left {
			next = rotateLeft(r.dir)
		}
		heading, err := headingOf(next)
		if err != nil {
			return Outcome{}, err
		}
		r.dir, r.heading = next, heading
		out.Kind = Rotated
		out.Heading = heading

	case Move:
		candidate := r.pos.Add(r.dir)
		// Obstacle check comes before bounds resolution
		if obstacles != nil && obstacles.Occupied(candidate) {
			r.canMove = false
			r.blocked = &candidate
			out.Kind = Halted
			out.BlockedAt = &candidate
			return out, nil
		}
		if !grid.Contains(candidate) {
			candidate = grid.wrap(candidate)
			out.Wrapped = true
		}
		r.pos = candidate
		r.history = append(r.history, candidate)
		out.Kind = Moved
		out.To = candidate
	}

	return out, nil
}

// CanMove reports whether the rover is still active
func (r *Rover) CanMove() bool {
	return r.canMove
}

// Position returns the current position
func (r *Rover) Position() Position {
	return r.pos
}

// Heading returns the current heading
func (r *Rover) Heading() Heading {
	return r.heading
}

// Direction returns the current direction vector
func (r *Rover) Direction() Vector {
	return r.dir
}

// BlockedAt returns the obstacle cell that halted the rover, if any
func (r *Rover) BlockedAt() (Position, bool) {
	if r.blocked == nil {
		return Position{}, false
	}
	return *r.blocked, true
}

// History returns every position occupied so far, starting with (0,0)
func (r *Rover) History() []Position {
	out := make([]Position, len(r.history))
	copy(out, r.history)
	return out
}

// String renders the status as x:y:H, prefixed with O: once halted
func (r *Rover) String() string {
	if r.canMove {
		return fmt.Sprintf("%d:%d:%s", r.pos.X, r.pos.Y, r.heading)
	}
	return fmt.Sprintf("O:%d:%d:%s", r.pos.X, r.pos.Y, r.heading)
}
