package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FrameLink/backend/internal/messaging"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport/webhook"
	"github.com/GriffinCanCode/FrameLink/backend/internal/ws"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	messenger *messaging.Messenger
	hub       *ws.Hub
	metrics   *monitoring.Metrics

	mu       sync.Mutex
	webhooks map[string]*webhook.Frame // keyed by URL
}

// NewHandlers creates a new handler set
func NewHandlers(messenger *messaging.Messenger, hub *ws.Hub, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		messenger: messenger,
		hub:       hub,
		metrics:   metrics,
		webhooks:  make(map[string]*webhook.Frame),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "FrameLink Gateway",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	stats := h.messenger.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"listening": stats.Listening,
		"frames":    len(h.hub.Frames()),
	})
}

// Stats returns a snapshot of routing state and counters
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messenger": h.messenger.Stats(),
		"frames":    h.hub.Frames(),
		"metrics":   h.metrics.Snapshot(),
	})
}

type originRequest struct {
	Origin string `json:"origin" binding:"required"`
}

// AddOrigin registers a trusted sender origin
func (h *Handlers) AddOrigin(c *gin.Context) {
	var req originRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.messenger.AddOrigin(req.Origin)
	c.JSON(http.StatusOK, gin.H{"origins": h.messenger.Stats().Origins})
}

// RemoveOrigin drops a trusted sender origin
func (h *Handlers) RemoveOrigin(c *gin.Context) {
	h.messenger.RemoveOrigin(c.Param("origin"))
	c.JSON(http.StatusOK, gin.H{"origins": h.messenger.Stats().Origins})
}

type namespaceRequest struct {
	Namespace string `json:"namespace" binding:"required"`
}

// Listen activates a namespace
func (h *Handlers) Listen(c *gin.Context) {
	var req namespaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.messenger.Listen(req.Namespace)
	c.JSON(http.StatusOK, gin.H{"namespaces": h.messenger.Stats().Namespaces})
}

// StopListening deactivates a namespace
func (h *Handlers) StopListening(c *gin.Context) {
	h.messenger.StopListening(c.Param("namespace"))
	c.JSON(http.StatusOK, gin.H{"namespaces": h.messenger.Stats().Namespaces})
}

type proxyRequest struct {
	Namespace string   `json:"namespace" binding:"required"`
	FrameIDs  []string `json:"frame_ids"`
	Webhooks  []string `json:"webhooks"`
}

// AddProxy routes a namespace to connected frames and/or webhook
// destinations. Repeated calls append destinations.
func (h *Handlers) AddProxy(c *gin.Context) {
	var req proxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	destinations, errMsg := h.resolveDestinations(req, true)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	if err := h.messenger.Proxy(req.Namespace, destinations...); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proxies": h.messenger.Stats().Proxies})
}

// RemoveProxy removes destinations from a namespace's proxy route
func (h *Handlers) RemoveProxy(c *gin.Context) {
	var req proxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	destinations, errMsg := h.resolveDestinations(req, false)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	h.messenger.RemoveProxy(req.Namespace, destinations...)
	c.JSON(http.StatusOK, gin.H{"proxies": h.messenger.Stats().Proxies})
}

// resolveDestinations turns frame IDs and webhook URLs into frame handles.
// When create is false, unknown webhook URLs are skipped instead of created.
func (h *Handlers) resolveDestinations(req proxyRequest, create bool) ([]transport.Frame, string) {
	var destinations []transport.Frame

	for _, frameID := range req.FrameIDs {
		frame, ok := h.hub.Frame(frameID)
		if !ok {
			return nil, "unknown frame: " + frameID
		}
		destinations = append(destinations, frame)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, rawURL := range req.Webhooks {
		frame, ok := h.webhooks[rawURL]
		if !ok {
			if !create {
				continue
			}
			created, err := webhook.New(rawURL, webhook.DefaultConfig())
			if err != nil {
				return nil, err.Error()
			}
			h.webhooks[rawURL] = created
			frame = created
		}
		destinations = append(destinations, frame)
	}

	return destinations, ""
}
