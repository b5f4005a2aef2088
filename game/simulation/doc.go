// Package simulation drives a rover over a configured grid.
//
// A Simulation owns one Grid, one ObstacleField and one Rover for the
// duration of a run. It feeds commands to the rover one at a time, stopping
// as soon as the rover halts, and produces a Report with the final status,
// the trajectory and a per-command trace for renderers and transports.
//
// Usage:
//
//	sim, err := simulation.New(config.Default(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report, err := sim.Run("MMRMMLM")
//	if err != nil {
//		log.Fatal(err) // names the offending command
//	}
//	fmt.Println(report.Status)
package simulation
