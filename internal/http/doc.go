// Package http provides the gateway's REST surface: health and stats,
// trusted-origin management, namespace listen/stop, and proxy route
// registration (to connected frames or webhook destinations).
package http
