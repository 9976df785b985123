// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Features:
//   - Structured fields for context
//   - Configurable output paths
//   - Level changes at runtime through SetLevel
//   - Named child loggers per component
//
// Domain packages take a plain *zap.Logger; the wrapper only lives at the
// edges where the process configures logging.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	tabsLog := logger.Component("tabs")
package logging
