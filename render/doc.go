// Package render draws a finished simulation run.
//
// PNG produces a raster image of the grid: obstacles as filled green cells,
// the rover's path as black arrows and wraparound jumps as blue arrows, with
// the final status in the title. ASCII produces a compact text map used by
// the CLI and the MCP tools.
package render
