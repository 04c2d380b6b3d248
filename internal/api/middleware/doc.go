// Package middleware provides HTTP middleware for the gateway API.
//
// Middleware stack:
//   - CORS: cross-origin resource sharing with configurable origins
//   - RateLimit: per-IP token bucket rate limiting
//   - RequestID: request correlation IDs
package middleware
