/*
Package monitoring provides metrics collection for the session service.

# Overview

Metrics are Prometheus collectors registered on a private registry, so
every Metrics value (and every test) owns its own set. Metrics also
implements the workspace observer, which is how tab operations, persistence
failures and route bindings reach Prometheus.

# Features

- HTTP request metrics (latency, throughput, size)
- Tab operations by kind and result
- Open tabs across loaded workspaces
- Persistence failures per storage key
- Route changes by binding outcome
- WebSocket connection and message metrics
- Uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	mgr := workspace.NewManager(store, workspace.Config{Observer: metrics}, logger)
*/
package monitoring
