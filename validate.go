package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/rover"
)

// ValidationResult captures the outcome of validating a single file.
// Errors lists every problem found; Info is filled only for valid files.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var cfg config.SimConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := cfg.Validate(); err != nil {
		result.Valid = false
		for _, e := range multierr.Errors(err) {
			result.Errors = append(result.Errors, strings.TrimPrefix(e.Error(), "config validation: "))
		}
		return result
	}

	m, n := cfg.Dimensions()
	grid, _ := rover.NewGrid(m, n)
	eligible := grid.EligibleCells()
	density := float64(cfg.ObstacleCount+len(cfg.CustomObstacles)) / float64(m*n) * 100

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Grid: %dx%d", m, n),
		fmt.Sprintf("✓ Obstacles: %d random in %d eligible cells, %d custom", cfg.ObstacleCount, eligible, len(cfg.CustomObstacles)),
		fmt.Sprintf("✓ Density: %.1f%%", density),
		fmt.Sprintf("✓ Draw path: %t", cfg.DrawPath),
	)

	reachable, free := reachableCells(grid, cfg.CustomObstacles)
	result.Info = append(result.Info, fmt.Sprintf("✓ Reachable before random placement: %d/%d free cells", reachable, free))

	return result
}

// reachableCells flood-fills the wrapping grid from the origin over cells free
// of the given obstacles. It returns the reachable and total free cell counts.
func reachableCells(grid rover.Grid, obstacles []rover.Position) (int, int) {
	field := rover.NewObstacleField()
	for _, p := range obstacles {
		field.InsertCustom(p)
	}

	m, n := grid.Dimensions()
	free := m * n
	for y := 0; y < n; y++ {
		for x := 0; x < m; x++ {
			if field.Occupied(rover.Position{X: x, Y: y}) {
				free--
			}
		}
	}

	start := rover.Position{X: 0, Y: 0}
	if field.Occupied(start) {
		return 0, free
	}

	visited := map[rover.Position]bool{start: true}
	queue := []rover.Position{start}
	headings := []rover.Heading{rover.North, rover.East, rover.South, rover.West}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, h := range headings {
			v := h.Vector()
			next := rover.Position{X: (current.X + v.DX + m) % m, Y: (current.Y + v.DY + n) % n}
			if visited[next] || field.Occupied(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	return len(visited), free
}

// validateDir validates every *.json file in dir and writes a report to w.
// It returns an error when any file is invalid.
func validateDir(w io.Writer, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return errors.Wrap(err, "error finding config files")
	}
	if len(files) == 0 {
		return errors.Errorf("no config files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(w, "❌ Some configurations have errors")
		return errors.Errorf("invalid configurations in %s", dir)
	}
	fmt.Fprintln(w, "✅ All configurations are valid!")
	return nil
}
