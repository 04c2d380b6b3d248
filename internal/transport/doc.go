// Package transport defines the boundary between the messaging core and the
// fabric that actually carries messages between frames.
//
// A Frame is one endpoint of the fabric (a connected page, an embedded
// document, a webhook consumer). A Transport is the inbound side: the
// messaging dispatcher attaches a handler to it while at least one namespace
// is being listened to, and detaches when the last namespace is deactivated.
//
// Implementations:
//   - loopback: in-process fabric of paired endpoints (tests, embedding)
//   - ws: WebSocket-connected frames (gateway)
//   - webhook: HTTP endpoints that receive proxied envelopes
package transport
