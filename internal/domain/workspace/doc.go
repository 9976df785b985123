// Package workspace assembles the session model of one console user.
//
// A Workspace owns its tab collection, navigation state, router and
// route-to-tab binding. Nothing is global: every piece is a field, built by
// New and torn down by Close. Operations take the workspace lock, so callers
// from concurrent HTTP handlers see the same single-threaded sequence the
// model assumes.
//
// Events:
//   - tabs: the collection changed (carries the change and snapshot)
//   - navigation: the active route, tab or expanded groups changed
//   - notification: something the user should be told, such as a full tab strip
//
// The Manager keeps one workspace per ID and lazily loads it from the
// key-value store under the namespace "workspace/<id>/".
//
// Example Usage:
//
//	mgr := workspace.NewManager(store, workspace.Config{MaxTabs: 10}, logger)
//	ws, err := mgr.Open(ctx, "default")
//	ws.Navigate(ctx, "/app/contracts")
//	view := ws.View()
package workspace
