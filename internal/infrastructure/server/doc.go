// Package server assembles the workspace service: storage, workspace manager,
// middleware, REST routes, the WebSocket stream and the Prometheus endpoint.
//
// Responses are gzip compressed above a small size threshold. WebSocket
// upgrades bypass compression.
package server
