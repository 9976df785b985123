// Package http provides HTTP handlers and routing for the workspace REST API.
//
// Every workspace route opens (and on first use loads) the workspace named by
// the :ws parameter. Domain errors map to status codes:
//
//   - invalid route or workspace id: 400
//   - tab not closable: 403
//   - unknown tab: 404 (closing an unknown tab is a 200 no-op)
//   - capacity exceeded or duplicate route: 409
//   - storage circuit open: 503
//
// Endpoints:
//   - Health: / and /health
//   - Menu: /menu
//   - Workspaces: /workspaces, /workspaces/:ws
//   - Tabs: /workspaces/:ws/tabs, /tabs/open, /tabs/:id, /tabs/:id/activate, /tabs/:id/close-others
//   - Navigation: /workspaces/:ws/navigate, /navigation, /navigation/groups/:key/toggle
//   - Metrics: /metrics/summary
//
// Example Usage:
//
//	handlers := http.NewHandlers(manager, catalog, metrics, http.WithBreaker(breaker))
//	http.RegisterRoutes(router, handlers)
package http
