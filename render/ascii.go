package render

import (
	"fmt"
	"strings"

	"github.com/wricardo/mars-rovers/game/rover"
	"github.com/wricardo/mars-rovers/game/simulation"
)

// Map symbols
const (
	EmptyCell    = '.'
	ObstacleCell = '#'
	VisitedCell  = '*'
)

var roverGlyphs = map[rover.Heading]rune{
	rover.North: '^',
	rover.South: 'v',
	rover.East:  '>',
	rover.West:  '<',
}

// ASCII renders the report as a text map with north at the top
func ASCII(report *simulation.Report) string {
	if report == nil || report.Width <= 0 || report.Height <= 0 {
		return ""
	}

	rows := make([][]rune, report.Height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(string(EmptyCell), report.Width))
	}
	set := func(p rover.Position, r rune) {
		if p.X >= 0 && p.X < report.Width && p.Y >= 0 && p.Y < report.Height {
			rows[p.Y][p.X] = r
		}
	}

	for _, p := range report.Trajectory {
		set(p, VisitedCell)
	}
	for _, p := range report.Obstacles {
		set(p, ObstacleCell)
	}
	glyph, ok := roverGlyphs[report.Heading]
	if !ok {
		glyph = '?'
	}
	set(report.Position, glyph)

	var b strings.Builder
	for y := report.Height - 1; y >= 0; y-- {
		b.WriteString(string(rows[y]))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "status: %s", report.Status)
	if report.BlockedAt != nil {
		fmt.Fprintf(&b, " (obstacle at %s)", report.BlockedAt)
	}
	b.WriteByte('\n')
	return b.String()
}
