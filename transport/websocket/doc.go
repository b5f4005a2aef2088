// Package websocket pushes simulation updates to browser clients.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection has a read pump and a write
// pump goroutine; the hub goroutine owns the client registry.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//
//	{"session_id": "1a2b3c4d", "event": "report", "report": {...}}
//
// Events are "report" after a command batch, "reset" after a session reset
// and "deleted" when a session goes away. Incoming messages are ignored; the
// connection only needs to stay alive.
//
// Session Integration:
//
// Clients choose a session with the query parameter ?session=<id> and only
// receive updates for that session.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastReport(sessionID, "report", report)
package websocket
