package simulation

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/rover"
)

// ErrNoCommands is returned when a run is started with an empty command string
var ErrNoCommands = errors.New("no instructions given, the rover needs at least one command")

// Simulation owns the grid, obstacles and rover of a single run
type Simulation struct {
	config    *config.SimConfig
	grid      rover.Grid
	obstacles *rover.ObstacleField
	rover     *rover.Rover
	steps     []Step
	requested int
	stop      string
	stoppedOn int
}

// New builds a simulation from a configuration. Custom obstacles are inserted
// before random ones. A nil rng uses the configured seed, or the clock when
// the seed is zero.
func New(cfg *config.SimConfig, rng *rand.Rand) (*Simulation, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid simulation config")
	}

	m, n := cfg.Dimensions()
	grid, err := rover.NewGrid(m, n)
	if err != nil {
		return nil, err
	}

	obstacles := rover.NewObstacleField()
	for _, p := range cfg.CustomObstacles {
		obstacles.InsertCustom(p)
	}

	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	if err := obstacles.PopulateRandom(grid, cfg.ObstacleCount, rng); err != nil {
		return nil, errors.Wrap(err, "failed to place obstacles")
	}

	return &Simulation{
		config:    cfg,
		grid:      grid,
		obstacles: obstacles,
		rover:     rover.NewRover(),
		steps:     []Step{},
	}, nil
}

// Run feeds every command to the rover, stopping once it halts. On an invalid
// command the run aborts and the partial report is returned with the error.
func (s *Simulation) Run(commands string) (*Report, error) {
	if commands == "" {
		return s.Report(), ErrNoCommands
	}

	if s.rover.CanMove() {
		s.stop, s.stoppedOn = "", 0
	}
	s.requested += len(commands)
	for i := 0; i < len(commands); i++ {
		if !s.rover.CanMove() {
			break
		}
		if _, err := s.Step(rover.Command(commands[i])); err != nil {
			return s.Report(), errors.Wrapf(err, "instruction %d", i+1)
		}
	}

	if s.stop == "" {
		s.stop = StopCompleted
	}
	return s.Report(), nil
}

// Step executes a single command and records it in the trace
func (s *Simulation) Step(cmd rover.Command) (Step, error) {
	out, err := s.rover.Execute(cmd, s.grid, s.obstacles)
	if err != nil {
		var unknown *rover.UnknownCommandError
		if errors.As(err, &unknown) {
			s.stop = StopUnknownCommand
		} else {
			s.stop = StopInvalidHeading
		}
		s.stoppedOn = len(s.steps) + 1
		return Step{}, err
	}

	step := Step{
		Idx:       len(s.steps) + 1,
		Command:   cmd.String(),
		Kind:      out.Kind,
		From:      out.From,
		To:        out.To,
		Heading:   out.Heading,
		Wrapped:   out.Wrapped,
		BlockedAt: out.BlockedAt,
	}
	s.steps = append(s.steps, step)

	if out.Kind == rover.Halted && s.stop != StopObstacle {
		s.stop = StopObstacle
		s.stoppedOn = step.Idx
	}
	return step, nil
}

// CanMove reports whether the rover can still take commands
func (s *Simulation) CanMove() bool {
	return s.rover.CanMove()
}

// Config returns the configuration the simulation was built from
func (s *Simulation) Config() *config.SimConfig {
	return s.config
}

// Grid returns the simulation grid
func (s *Simulation) Grid() rover.Grid {
	return s.grid
}

// Obstacles returns the obstacle field
func (s *Simulation) Obstacles() *rover.ObstacleField {
	return s.obstacles
}

// Rover returns the simulated rover
func (s *Simulation) Rover() *rover.Rover {
	return s.rover
}

// Report snapshots the current state of the run
func (s *Simulation) Report() *Report {
	width, height := s.grid.Dimensions()
	trajectory := s.rover.History()
	steps := make([]Step, len(s.steps))
	copy(steps, s.steps)

	report := &Report{
		Status:         s.rover.String(),
		Position:       s.rover.Position(),
		Heading:        s.rover.Heading(),
		Halted:         !s.rover.CanMove(),
		Width:          width,
		Height:         height,
		Trajectory:     trajectory,
		Segments:       Segments(trajectory, width, height),
		Steps:          steps,
		Obstacles:      s.obstacles.Positions(),
		Requested:      s.requested,
		Executed:       len(s.steps),
		StopReason:     s.stop,
		StoppedOnIndex: s.stoppedOn,
	}
	if blocked, ok := s.rover.BlockedAt(); ok {
		report.BlockedAt = &blocked
	}
	return report
}
