// Package api provides the HTTP REST API of the rover simulator.
//
// Endpoints:
//
// Simulation:
//   - POST /api/simulate - Run a command string on a fresh grid
//   - GET /api/health - Liveness probe
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_name": "...", "obstacles": [{"x":2,"y":5}]})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session with its report
//   - DELETE /api/sessions/{id} - Delete a session
//
// Rover Operations:
//   - POST /api/sessions/{id}/commands - Execute a command batch ({"commands": "MMRMMLM"})
//   - POST /api/sessions/{id}/reset - Rebuild the session on the same obstacles
//   - GET /api/sessions/{id}/path.png - Trajectory image (?cell=48)
//   - GET /api/sessions/{id}/map - Plain-text map
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get one configuration
//
// WebSocket:
//   - GET /ws?session=<id> - Live report updates for one session
//
// Error Handling:
//
// Errors are returned as JSON with an appropriate status code:
//
//	{"error": "instruction 3: command \"X\" does not exist, choose one of M, R, L", "command": "X", "result": {...}}
//
// Unknown commands, empty command strings and invalid configs answer 400,
// missing sessions or configs 404. When a batch aborts part way, "result"
// carries the state reached before the bad command.
package api
