// Package messaging implements namespace-aware publish/subscribe routing
// between frames.
//
// A Messenger owns all routing state: the trusted-origin filter, the active
// namespace registry, the local subscription table, and the proxy table. It
// binds to a transport.Transport while at least one namespace is being
// listened to and routes every inbound event through a single dispatch path:
// origin check, envelope decode, namespace match, proxy forwarding, local
// emission.
//
// Message types are namespaced as "<event>.<namespace>"; a bare event name
// gets the default namespace ("postMessage") appended on send. Messages whose
// namespace is not active, or whose sender origin is not trusted, are dropped
// silently.
//
// Example Usage:
//
//	m := messaging.New(endpoint)
//	m.Listen("dfp")
//	m.AddOrigin("partner.example.com")
//
//	sub, _ := m.Receive("init.dfp", func(data any, source transport.Frame) {
//		// handle message
//	})
//	defer sub.Off()
//
//	m.Post(child, "init.dfp", map[string]any{"x": 1})
package messaging
