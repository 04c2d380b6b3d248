package transport

import "strings"

// TargetAny is the target-origin constraint that matches every frame.
const TargetAny = "*"

// Frame is one endpoint of the messaging fabric.
//
// Deliver hands the frame a serialized envelope scoped to targetOrigin. The
// frame must drop the payload without error when the constraint does not
// match its own origin; delivery is fire-and-forget.
type Frame interface {
	// ID uniquely identifies the frame for the process lifetime.
	ID() string
	// Origin is the frame's declared origin ("https://host", or "null" for
	// sandboxed/local documents).
	Origin() string
	// Deliver sends a serialized envelope to the frame, constrained to
	// targetOrigin ("*" delivers unconditionally).
	Deliver(payload []byte, targetOrigin string) error
}

// Event is an inbound message as seen by the dispatcher.
type Event struct {
	// Origin is the sender's origin as reported by the fabric.
	Origin string
	// Data is the serialized envelope.
	Data []byte
	// Source is the sending frame, carried through to local subscribers.
	Source Frame
}

// Handler consumes inbound events.
type Handler func(Event)

// Transport is the inbound side of the fabric.
//
// Attach replaces any previously attached handler; Detach is a no-op when
// nothing is attached. Events already in flight may still reach the handler
// shortly after Detach returns; no new deliveries start after it.
type Transport interface {
	Attach(h Handler)
	Detach()
	// SelfOrigin is the origin of the document this transport belongs to.
	// Messages reporting this origin are always trusted.
	SelfOrigin() string
}

// OriginMatches reports whether a frame with origin accepts a payload
// constrained to target. Matching is case-insensitive; "*" matches all.
func OriginMatches(target, origin string) bool {
	if target == "" || target == TargetAny {
		return true
	}
	return strings.EqualFold(target, origin)
}
