// Package types provides the request and message shapes shared by the HTTP
// and WebSocket layers.
//
// Request Types:
//   - AddTabRequest, UpdateTabRequest: tab strip mutations
//   - NavigateRequest: drive the workspace router
//
// WebSocket:
//   - WSMessage: envelope for both directions, discriminated by Type
//
// Responses:
//   - ErrorResponse: uniform error body with a machine-readable code
package types
