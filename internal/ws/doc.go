// Package ws streams workspace state to browsers over WebSocket.
//
// A connection is bound to one workspace. The server pushes every tab,
// navigation and notification event of that workspace; the client sends
// user gestures back. Each connection gets a UUID client ID and a single
// writer goroutine, so slow clients never block the workspace.
//
// Message Types (Client → Server):
//   - navigate: move the workspace router to a route
//   - activate: show a tab by ID
//   - close: close a tab by ID
//   - toggle_group: expand or collapse a menu group
//   - ping: keep-alive ping
//
// Message Types (Server → Client):
//   - welcome: client ID plus the full workspace view
//   - tabs: tab collection change with snapshot
//   - navigation: navigation snapshot
//   - notification: user-facing message, such as a full tab strip
//   - error: the last client message failed
//   - pong: keep-alive reply
//
// Example Usage:
//
//	handler := ws.NewHandler(manager, metrics, logger)
//	router.GET("/workspaces/:ws/stream", handler.HandleConnection)
package ws
