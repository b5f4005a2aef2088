// Package config loads, validates and caches simulation configurations.
//
// A configuration replaces the simulator's static settings (grid size,
// obstacle count, drawing toggle) with a JSON document:
//
//	{
//	  "name": "classic",
//	  "description": "10x10 plateau with five random obstacles",
//	  "grid_size": 10,
//	  "obstacle_count": 5,
//	  "draw_path": true
//	}
//
// Optional fields:
//   - width / height: non-square grids (default to grid_size)
//   - seed: deterministic obstacle placement (0 picks a time-based seed)
//   - custom_obstacles: explicit [{"x":2,"y":5}] cells inserted before random ones
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg, err := manager.LoadConfig("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Validation aggregates every problem in a configuration rather than
// stopping at the first one, so a broken file reports all of its issues.
package config
