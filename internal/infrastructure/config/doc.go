// Package config provides 12-factor configuration for the BizAdmin session service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags in cmd/server can override them for local development.
//
// Configuration Sections:
//   - Server: HTTP listen address
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting
//   - Storage: Key-value backend, location and write breaker
//   - Tabs: Tab strip capacity, default route and ignored routes
//   - Menu: Optional side-menu file replacing the built-in catalog
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - STORAGE_BACKEND, STORAGE_PATH, STORAGE_NAMESPACE
//   - STORAGE_BREAKER_THRESHOLD, STORAGE_BREAKER_COOLDOWN
//   - TABS_MAX, TABS_DEFAULT_ROUTE, TABS_IGNORE_ROUTES
//   - MENU_FILE
package config
