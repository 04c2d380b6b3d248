package ws

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// Hub tracks connected frames and feeds their messages to the gateway
// messenger. It implements transport.Transport.
type Hub struct {
	selfOrigin string

	mu      sync.RWMutex
	handler transport.Handler
	frames  map[string]*Conn

	// onFrameGone is invoked after a frame is removed, so the messenger can
	// clear it from proxy routes.
	onFrameGone func(transport.Frame)

	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewHub creates a hub. selfOrigin is the gateway's own origin; messages
// reporting it are always trusted by the messenger.
func NewHub(selfOrigin string) *Hub {
	return &Hub{
		selfOrigin: selfOrigin,
		frames:     make(map[string]*Conn),
		logger:     logging.NewNop(),
	}
}

// WithLogger attaches a logger.
func (h *Hub) WithLogger(logger *logging.Logger) *Hub {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithMetrics attaches a metrics collector.
func (h *Hub) WithMetrics(metrics *monitoring.Metrics) *Hub {
	h.metrics = metrics
	return h
}

// OnFrameGone registers the departed-frame hook.
func (h *Hub) OnFrameGone(fn func(transport.Frame)) {
	h.mu.Lock()
	h.onFrameGone = fn
	h.mu.Unlock()
}

// Attach implements transport.Transport.
func (h *Hub) Attach(handler transport.Handler) {
	h.mu.Lock()
	h.handler = handler
	h.mu.Unlock()
}

// Detach implements transport.Transport.
func (h *Hub) Detach() {
	h.mu.Lock()
	h.handler = nil
	h.mu.Unlock()
}

// SelfOrigin implements transport.Transport.
func (h *Hub) SelfOrigin() string { return h.selfOrigin }

// Frame looks a connected frame up by ID.
func (h *Hub) Frame(frameID string) (transport.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.frames[frameID]
	return c, ok
}

// FrameInfo describes one connected frame.
type FrameInfo struct {
	ID     string `json:"id"`
	Origin string `json:"origin"`
}

// Frames returns a snapshot of connected frames.
func (h *Hub) Frames() []FrameInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]FrameInfo, 0, len(h.frames))
	for _, c := range h.frames {
		out = append(out, FrameInfo{ID: c.ID(), Origin: c.Origin()})
	}
	return out
}

// dispatch forwards an inbound event to the attached handler. Events arriving
// while no namespace is being listened to are dropped, matching the detached
// state of the transport.
func (h *Hub) dispatch(ev transport.Event) {
	h.mu.RLock()
	handler := h.handler
	h.mu.RUnlock()

	if handler == nil {
		return
	}
	handler(ev)
}

func (h *Hub) add(c *Conn) {
	h.mu.Lock()
	h.frames[c.ID()] = c
	count := len(h.frames)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SetFramesActive(count)
		h.metrics.WSConnected()
	}
	h.logger.Info("Frame attached",
		zap.String("frame_id", c.ID()),
		zap.String("origin", c.Origin()),
	)
}

// Close shuts every attached frame down. Used on server shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	frames := make([]*Conn, 0, len(h.frames))
	for _, c := range h.frames {
		frames = append(frames, c)
	}
	h.frames = make(map[string]*Conn)
	h.mu.Unlock()

	for _, c := range frames {
		c.Close()
	}
	if h.metrics != nil {
		h.metrics.SetFramesActive(0)
	}
}

func (h *Hub) remove(c *Conn) {
	h.mu.Lock()
	delete(h.frames, c.ID())
	count := len(h.frames)
	gone := h.onFrameGone
	h.mu.Unlock()

	c.Close()
	if gone != nil {
		gone(c)
	}

	if h.metrics != nil {
		h.metrics.SetFramesActive(count)
		h.metrics.WSDisconnected()
	}
	h.logger.Info("Frame detached", zap.String("frame_id", c.ID()))
}
