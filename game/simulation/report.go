package simulation

import (
	"math"

	"github.com/wricardo/mars-rovers/game/rover"
)

// Stop reasons reported when a run ends before its last command
const (
	StopCompleted      = "completed"
	StopObstacle       = "obstacle"
	StopUnknownCommand = "unknown_command"
	StopInvalidHeading = "invalid_direction"
)

// Step is a compact record of one executed command
type Step struct {
	Idx       int               `json:"idx"`
	Command   string            `json:"command"`
	Kind      rover.OutcomeKind `json:"kind"`
	From      rover.Position    `json:"from"`
	To        rover.Position    `json:"to"`
	Heading   rover.Heading     `json:"heading"`
	Wrapped   bool              `json:"wrapped,omitempty"`
	BlockedAt *rover.Position   `json:"blocked_at,omitempty"`
}

// Segment joins two consecutive trajectory points
type Segment struct {
	From rover.Position `json:"from"`
	To   rover.Position `json:"to"`
	Wrap bool           `json:"wrap"`
}

// Report is a snapshot of a simulation run
type Report struct {
	Status         string           `json:"status"`
	Position       rover.Position   `json:"position"`
	Heading        rover.Heading    `json:"heading"`
	Halted         bool             `json:"halted"`
	BlockedAt      *rover.Position  `json:"blocked_at,omitempty"`
	Width          int              `json:"width"`
	Height         int              `json:"height"`
	Trajectory     []rover.Position `json:"trajectory"`
	Segments       []Segment        `json:"segments"`
	Steps          []Step           `json:"steps"`
	Obstacles      []rover.Position `json:"obstacles"`
	Requested      int              `json:"requested"`
	Executed       int              `json:"executed"`
	StopReason     string           `json:"stop_reason,omitempty"`
	StoppedOnIndex int              `json:"stopped_on_index,omitempty"` // 1-based index of the command that stopped the run
}

// Segments pairs up consecutive trajectory points. A segment counts as a
// wraparound when its length reaches extent-1 on the axis it moved along.
func Segments(trajectory []rover.Position, width, height int) []Segment {
	if len(trajectory) < 2 {
		return []Segment{}
	}

	segments := make([]Segment, 0, len(trajectory)-1)
	for i := 1; i < len(trajectory); i++ {
		from, to := trajectory[i-1], trajectory[i]
		dx, dy := float64(to.X-from.X), float64(to.Y-from.Y)
		extent := height
		if dx != 0 {
			extent = width
		}
		dist := math.Sqrt(dx*dx + dy*dy)
		segments = append(segments, Segment{
			From: from,
			To:   to,
			Wrap: dist >= float64(extent-1),
		})
	}
	return segments
}
