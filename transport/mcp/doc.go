// Package mcp exposes the rover simulator to AI agents over the Model
// Context Protocol.
//
// Tools call the simulation service in-process, so the stdio mode needs no
// HTTP server running alongside it.
//
// MCP Tools:
//   - simulate: run a command string against a fresh grid and return the final status
//   - create_session: create a session, optionally from a named config and extra obstacles
//   - execute_commands: feed a command batch to a session's rover
//   - reset_session: rebuild a session from its config and seed
//   - get_session: show a session's report and map
//   - list_sessions: list active sessions
//   - list_configs: list available configurations
//
// Transport Modes:
//   - Stdio: server.ServeStdio(srv.MCPServer())
//   - HTTP: http.HandleFunc("/mcp", srv.Handle)
//
// Session updates made through MCP are broadcast to WebSocket watchers when a
// Broadcaster is configured.
package mcp
