// Package main is the entry point for the FrameLink gateway server.
//
// The gateway hosts a namespace-aware message router: websocket frames
// connect, declare an origin, and exchange typed envelopes that the
// messenger filters, dispatches to local subscribers, and forwards to
// proxy destinations (other frames or webhooks).
//
// The server provides:
//   - WebSocket endpoint for frame connections
//   - REST API for origins, namespaces, and proxy routes
//   - Prometheus metrics and a JSON stats surface
//   - Declarative routes file for startup wiring
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8600 -origin https://gateway.example.com
//
//	# Development mode (colored logs, debug level)
//	./server -dev -routes routes.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
