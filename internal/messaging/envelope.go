package messaging

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// DefaultNamespace is appended to bare event names on send.
const DefaultNamespace = "postMessage"

// Options carries per-message delivery constraints.
type Options struct {
	// TargetOrigin restricts which frame origin may receive the message.
	// "*" (the default) delivers to any origin.
	TargetOrigin string `json:"targetOrigin"`
}

// Envelope is the wire structure exchanged between frames. Ownership is
// transient: created per send, discarded after dispatch.
type Envelope struct {
	Type    string  `json:"type"`
	Data    any     `json:"data"`
	Options Options `json:"options"`
}

// Encode serializes the envelope to its wire form.
func (e Envelope) Encode() ([]byte, error) {
	payload, err := sonic.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return payload, nil
}

// DecodeEnvelope parses a wire payload. A payload whose type field is empty
// is malformed: there is nothing to route it by.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var e Envelope
	if err := sonic.Unmarshal(payload, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return e, nil
}

// NormalizeType appends the default namespace to a bare event name. Types
// that already carry a namespace pass through unchanged.
func NormalizeType(msgType string) string {
	if strings.Contains(msgType, ".") {
		return msgType
	}
	return msgType + "." + DefaultNamespace
}

// TypeNamespace returns the namespace suffix of a message type: everything
// after the first ".". Returns "" for un-namespaced types.
func TypeNamespace(msgType string) string {
	if i := strings.Index(msgType, "."); i >= 0 {
		return msgType[i+1:]
	}
	return ""
}
