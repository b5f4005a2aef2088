// Package rover provides the core state machine for the Mars Rovers simulator.
//
// The rover package implements:
//   - Grid bounds and containment queries
//   - Obstacle fields with random (collision-avoiding) and custom placement
//   - Rover position/heading tracking, rotation arithmetic and wraparound
//   - The halt-on-obstacle policy
//
// Core Types:
//
// Grid is an immutable bounds descriptor. ObstacleField is the set of blocked
// cells. Rover holds position, heading and trajectory history and exposes a
// single Execute transition per command.
//
// Usage:
//
//	grid, err := rover.NewGrid(10, 10)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	obstacles := rover.NewObstacleField()
//	obstacles.InsertCustom(rover.Position{X: 2, Y: 5})
//
//	r := rover.NewRover()
//	for _, c := range "MMRMMLM" {
//		if !r.CanMove() {
//			break
//		}
//		if _, err := r.Execute(rover.Command(c), grid, obstacles); err != nil {
//			log.Fatal(err)
//		}
//	}
//	fmt.Println(r) // 2:3:N
//
// Rules:
//
// The rover starts at (0,0) facing North. Moving off an edge re-enters from
// the opposite edge. Moving into an obstacle halts the rover permanently; a
// halted rover ignores every further command.
package rover
