// Package ws hosts frames over WebSocket.
//
// Each connected client is a frame on the messaging fabric: payloads it
// writes become inbound transport events on the hub, and envelopes posted or
// proxied to the frame are written back over its socket. The Hub is the
// transport the gateway messenger binds to.
//
// Connect with the declared origin:
//
//	GET /connect?origin=https://shop.example.com
//
// The first message written to a new connection is a "connected.postMessage"
// envelope carrying the frame ID assigned to the client. Clients use that ID
// when registering proxy routes.
package ws
