package rover

import "fmt"

// Position represents x,y grid coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of p and v
func (p Position) Add(v Vector) Position {
	return Position{X: p.X + v.DX, Y: p.Y + v.DY}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Vector is a unit direction vector
type Vector struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Heading is the discrete facing direction of a rover
type Heading string

const (
	North Heading = "N"
	South Heading = "S"
	East  Heading = "E"
	West  Heading = "W"
)

// canonical vectors for each heading
var headingVectors = map[Heading]Vector{
	North: {DX: 0, DY: 1},
	South: {DX: 0, DY: -1},
	East:  {DX: 1, DY: 0},
	West:  {DX: -1, DY: 0},
}

// Vector returns the unit direction vector associated with the heading
func (h Heading) Vector() Vector {
	return headingVectors[h]
}

// Valid reports whether h is one of N, S, E, W
func (h Heading) Valid() bool {
	_, ok := headingVectors[h]
	return ok
}

// headingOf maps a direction vector back to its heading by exact match
func headingOf(v Vector) (Heading, error) {
	for h, hv := range headingVectors {
		if hv == v {
			return h, nil
		}
	}
	return "", &InvalidDirectionError{Vector: v}
}

// rotateRight turns v 90 degrees clockwise
func rotateRight(v Vector) Vector {
	return Vector{DX: v.DY, DY: -v.DX}
}

// rotateLeft turns v 90 degrees counter-clockwise
func rotateLeft(v Vector) Vector {
	return Vector{DX: -v.DY, DY: v.DX}
}

// Command is a single rover instruction
type Command byte

const (
	Move  Command = 'M'
	Left  Command = 'L'
	Right Command = 'R'
)

// Valid reports whether c is one of M, L, R
func (c Command) Valid() bool {
	return c == Move || c == Left || c == Right
}

func (c Command) String() string {
	return string(rune(c))
}

// OutcomeKind tags the result of a single Execute call
type OutcomeKind string

const (
	Moved   OutcomeKind = "moved"
	Rotated OutcomeKind = "rotated"
	Halted  OutcomeKind = "halted"
)

// Outcome describes what a command did to the rover
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	Command   Command     `json:"-"`
	From      Position    `json:"from"`
	To        Position    `json:"to"`
	Heading   Heading     `json:"heading"`
	Wrapped   bool        `json:"wrapped,omitempty"`
	BlockedAt *Position   `json:"blocked_at,omitempty"`
}
