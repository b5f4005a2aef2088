package rover

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidGrid            = errors.New("grid dimensions must be positive")
	ErrObstacleBudgetExceeded = errors.New("obstacle count exceeds free placement cells")
)

// UnknownCommandError is returned when a command is not one of M, L, R
type UnknownCommandError struct {
	Command Command
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %q does not exist, choose one of M, R, L", e.Command.String())
}

// InvalidDirectionError is returned when a rotation produces a vector that
// matches none of the four headings
type InvalidDirectionError struct {
	Vector Vector
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("direction vector (%d,%d) does not exist", e.Vector.DX, e.Vector.DY)
}
