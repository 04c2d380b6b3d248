package messaging

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// Messenger is the public messaging surface. Each instance owns its routing
// state; independent instances never share origins, namespaces, proxies, or
// subscriptions.
type Messenger struct {
	fabric     transport.Transport
	origins    *OriginFilter
	namespaces *NamespaceRegistry
	events     *emitter
	proxies    *proxyTable

	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu        sync.Mutex
	listening bool
}

// New creates a messenger bound to a transport. The transport handler is not
// attached until the first Listen call.
func New(fabric transport.Transport) *Messenger {
	return &Messenger{
		fabric:     fabric,
		origins:    NewOriginFilter(),
		namespaces: NewNamespaceRegistry(),
		events:     newEmitter(),
		proxies:    newProxyTable(),
		logger:     logging.NewNop(),
	}
}

// WithLogger attaches a logger.
func (m *Messenger) WithLogger(logger *logging.Logger) *Messenger {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithMetrics attaches a metrics collector.
func (m *Messenger) WithMetrics(metrics *monitoring.Metrics) *Messenger {
	m.metrics = metrics
	return m
}

// Post serializes and delivers a message to the target frame. A bare event
// name gets the default namespace appended. Caller options are merged over
// the default {TargetOrigin: "*"}; caller-supplied fields win.
func (m *Messenger) Post(target transport.Frame, msgType string, data any, opts ...Options) error {
	if target == nil {
		return ErrNilTarget
	}
	if msgType == "" {
		return ErrEmptyType
	}

	options := Options{TargetOrigin: transport.TargetAny}
	if len(opts) > 0 && opts[0].TargetOrigin != "" {
		options.TargetOrigin = opts[0].TargetOrigin
	}

	env := Envelope{
		Type:    NormalizeType(msgType),
		Data:    data,
		Options: options,
	}
	payload, err := env.Encode()
	if err != nil {
		return err
	}

	if err := target.Deliver(payload, options.TargetOrigin); err != nil {
		return fmt.Errorf("post %q to frame %s: %w", env.Type, target.ID(), err)
	}
	if m.metrics != nil {
		m.metrics.RecordPost()
	}
	return nil
}

// Receive subscribes to a message type from any sender. The returned
// subscription stays active until Off is called.
func (m *Messenger) Receive(msgType string, cb Callback) (*Subscription, error) {
	return m.subscribe(nil, msgType, cb, false)
}

// ReceiveFrom subscribes to a message type from a single sender frame.
func (m *Messenger) ReceiveFrom(source transport.Frame, msgType string, cb Callback) (*Subscription, error) {
	return m.subscribe(source, msgType, cb, false)
}

// ReceiveOnce subscribes to a message type from any sender and detaches
// automatically after the first matching delivery.
func (m *Messenger) ReceiveOnce(msgType string, cb Callback) (*Subscription, error) {
	return m.subscribe(nil, msgType, cb, true)
}

// ReceiveFromOnce is ReceiveOnce restricted to a single sender frame.
func (m *Messenger) ReceiveFromOnce(source transport.Frame, msgType string, cb Callback) (*Subscription, error) {
	return m.subscribe(source, msgType, cb, true)
}

func (m *Messenger) subscribe(source transport.Frame, msgType string, cb Callback, oneOff bool) (*Subscription, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	if msgType == "" {
		return nil, ErrEmptyType
	}
	return m.events.subscribe(NormalizeType(msgType), source, oneOff, cb), nil
}

// Listen activates a namespace and attaches the transport handler if this is
// the first active namespace. An empty namespace means the default one.
func (m *Messenger) Listen(namespace string) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m.namespaces.Activate(namespace)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.listening {
		m.fabric.Attach(m.dispatch)
		m.listening = true
	}
}

// StopListening deactivates a namespace and detaches the transport handler
// when no namespaces remain active.
func (m *Messenger) StopListening(namespace string) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	empty := m.namespaces.Deactivate(namespace)

	m.mu.Lock()
	defer m.mu.Unlock()
	if empty && m.listening {
		m.fabric.Detach()
		m.listening = false
	}
}

// Proxy routes every message dispatched in a namespace to the given
// destination frames, in addition to local subscribers. Repeated calls
// append destinations. The namespace is activated if it was not already.
func (m *Messenger) Proxy(namespace string, destinations ...transport.Frame) error {
	if len(destinations) == 0 {
		return ErrNoDestinations
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m.Listen(namespace)
	m.proxies.add(namespace, destinations...)
	return nil
}

// RemoveProxy removes destinations from a namespace's proxy route.
func (m *Messenger) RemoveProxy(namespace string, destinations ...transport.Frame) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m.proxies.remove(namespace, destinations...)
}

// DropFrame removes a departed frame from every proxy route.
func (m *Messenger) DropFrame(frame transport.Frame) {
	if frame == nil {
		return
	}
	m.proxies.dropFrame(frame)
}

// AddOrigin registers a trusted sender origin.
func (m *Messenger) AddOrigin(origin string) {
	m.origins.Add(origin)
}

// RemoveOrigin drops a trusted sender origin.
func (m *Messenger) RemoveOrigin(origin string) {
	m.origins.Remove(origin)
}

// Stats is a point-in-time snapshot of the messenger's routing state.
type Stats struct {
	Listening     bool                `json:"listening"`
	Namespaces    []string            `json:"namespaces"`
	Origins       []string            `json:"origins"`
	Subscriptions int                 `json:"subscriptions"`
	Proxies       map[string][]string `json:"proxies"`
}

// Stats returns a snapshot of the routing state.
func (m *Messenger) Stats() Stats {
	m.mu.Lock()
	listening := m.listening
	m.mu.Unlock()

	return Stats{
		Listening:     listening,
		Namespaces:    m.namespaces.Active(),
		Origins:       m.origins.Origins(),
		Subscriptions: m.events.count(),
		Proxies:       m.proxies.snapshot(),
	}
}
