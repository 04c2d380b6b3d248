// Package config provides 12-factor configuration management for the gateway.
//
// Configuration is loaded from environment variables with sensible defaults.
// Preconfigured routing (trusted origins, listened namespaces, webhook proxy
// routes) can additionally be declared in a YAML routes file.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Messaging: gateway origin and routes file path
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Gateway on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - GATEWAY_ORIGIN, ROUTES_FILE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
