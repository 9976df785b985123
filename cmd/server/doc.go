// Package main is the entry point for the BizAdmin workspace server.
//
// The server owns the console's workspace session model: which views are open
// as tabs, which one is active and which side-menu groups are expanded. The
// browser drives it over REST and a WebSocket stream.
//
// Architecture:
//
//	Frontend (browser) → REST / WebSocket → Workspace manager → KV store (file or memory)
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -data /var/lib/bizadmin
//
//	# Development mode (colored logs, debug level, nothing persisted)
//	./server -dev -storage memory
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
