package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FrameLink/backend/internal/messaging"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Trust decisions happen per message in the origin filter, not at
		// upgrade time.
		return true
	},
}

// Handler upgrades HTTP connections into frames on the hub.
type Handler struct {
	hub       *Hub
	messenger *messaging.Messenger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, messenger *messaging.Messenger) *Handler {
	return &Handler{hub: hub, messenger: messenger}
}

// HandleConnection handles WebSocket upgrade and the read loop. The client's
// origin comes from the "origin" query parameter, falling back to the Origin
// header, then to "null" (sandboxed/local documents).
func (h *Handler) HandleConnection(c *gin.Context) {
	origin := c.Query("origin")
	if origin == "" {
		origin = c.GetHeader("Origin")
	}
	if origin == "" {
		origin = "null"
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	frame := newConn(conn, origin)
	h.hub.add(frame)
	defer h.hub.remove(frame)

	go frame.writePump()

	// Tell the client which frame it is; proxy registration needs the ID.
	h.welcome(frame)

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if h.hub.metrics != nil {
			h.hub.metrics.RecordWSMessage("in")
		}
		h.hub.dispatch(transport.Event{
			Origin: frame.Origin(),
			Data:   payload,
			Source: frame,
		})
	}
}

func (h *Handler) welcome(frame *Conn) {
	err := h.messenger.Post(frame, "connected", map[string]any{
		"frame_id": frame.ID(),
		"origin":   frame.Origin(),
	})
	if err != nil {
		h.hub.logger.Warn("Welcome message failed",
			zap.String("frame_id", frame.ID()),
			zap.Error(err),
		)
	}
}
