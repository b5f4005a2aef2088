package config

import (
	"fmt"

	"github.com/wricardo/mars-rovers/game/rover"
	"go.uber.org/multierr"
)

const (
	DefaultGridSize      = 10
	DefaultObstacleCount = 5
	DefaultDrawPath      = true
	MaxGridSize          = 1000
)

// SimConfig describes a single simulation run
type SimConfig struct {
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	GridSize        int              `json:"grid_size"`
	Width           int              `json:"width,omitempty"`
	Height          int              `json:"height,omitempty"`
	ObstacleCount   int              `json:"obstacle_count"`
	DrawPath        bool             `json:"draw_path"`
	Seed            int64            `json:"seed,omitempty"`
	CustomObstacles []rover.Position `json:"custom_obstacles,omitempty"`
}

// ConfigInfo summarizes a configuration file
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`
	Description   string `json:"description"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	ObstacleCount int    `json:"obstacle_count"`
}

// Default returns the stock configuration: a 10x10 grid with 5 obstacles
func Default() *SimConfig {
	return &SimConfig{
		Name:          "default",
		Description:   "10x10 plateau with five random obstacles",
		GridSize:      DefaultGridSize,
		ObstacleCount: DefaultObstacleCount,
		DrawPath:      DefaultDrawPath,
	}
}

// Dimensions returns the grid width and height, falling back to GridSize
func (c *SimConfig) Dimensions() (int, int) {
	m, n := c.Width, c.Height
	if m == 0 {
		m = c.GridSize
	}
	if n == 0 {
		n = c.GridSize
	}
	return m, n
}

// Clone returns a deep copy of the configuration
func (c *SimConfig) Clone() *SimConfig {
	out := *c
	out.CustomObstacles = append([]rover.Position(nil), c.CustomObstacles...)
	return &out
}

// Validate checks a configuration, reporting every problem found
func (c *SimConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	var err error
	m, n := c.Dimensions()
	if m <= 0 || n <= 0 {
		err = multierr.Append(err, fmt.Errorf("config validation: grid must be positive, got %dx%d", m, n))
	}
	if m > MaxGridSize || n > MaxGridSize {
		err = multierr.Append(err, fmt.Errorf("config validation: grid must not exceed %d per side, got %dx%d", MaxGridSize, m, n))
	}
	if c.ObstacleCount < 0 {
		err = multierr.Append(err, fmt.Errorf("config validation: obstacle_count must not be negative, got %d", c.ObstacleCount))
	}
	if err != nil {
		return err
	}

	grid, gridErr := rover.NewGrid(m, n)
	if gridErr != nil {
		return gridErr
	}

	taken := make(map[rover.Position]bool)
	for i, p := range c.CustomObstacles {
		if !grid.Contains(p) {
			err = multierr.Append(err, fmt.Errorf("config validation: custom obstacle %d at %v is outside the %dx%d grid", i+1, p, m, n))
			continue
		}
		if p.X >= 1 {
			taken[p] = true
		}
	}

	if free := grid.EligibleCells() - len(taken); c.ObstacleCount > free {
		err = multierr.Append(err, fmt.Errorf("config validation: obstacle_count %d exceeds the %d free cells outside column 0", c.ObstacleCount, free))
	}

	return err
}
