// Package session provides in-memory session management for rover simulations.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Each session owns exactly one simulation. Sessions are never written to
// disk; restarting the process starts from an empty manager.
//
// Session Identifiers:
//
// Sessions use the first 8 hex characters of a random UUID. Lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// CleanupExpiredSessions removes sessions that have not been accessed within
// a retention window; the server runs it periodically.
package session
