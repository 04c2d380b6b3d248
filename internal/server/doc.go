// Package server assembles the gateway: configuration, logging, metrics,
// the websocket hub, the messenger, and the HTTP surface.
package server
