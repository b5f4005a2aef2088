// Package service exposes simulation operations to the transports.
//
// SimulationService is the single entry point used by the REST API, the
// WebSocket hub and the MCP tools. It supports two styles of use:
//
//   - One-shot runs: Simulate builds a fresh simulation from a named
//     configuration, feeds it a command string and returns the report.
//   - Sessions: CreateSession keeps a simulation in memory so commands can be
//     sent in several batches with Execute, inspected with GetSession and
//     started over with Reset.
//
// Sessions live only in memory. Every call is serialized by the service, so
// a session's rover never executes two command batches at once.
//
// Usage:
//
//	svc := service.NewSimulationService(session.NewManager(logger), configManager, logger)
//
//	info, err := svc.CreateSession(ctx, "classic", nil)
//	if err != nil {
//		return err
//	}
//	result, err := svc.Execute(ctx, info.ID, "MMRMMLM")
package service
