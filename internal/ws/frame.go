package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GriffinCanCode/FrameLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// ErrSlowConsumer is returned when a frame's outbound buffer is full.
var ErrSlowConsumer = errors.New("ws: frame outbound buffer full")

// ErrFrameClosed is returned when delivering to a closed frame.
var ErrFrameClosed = errors.New("ws: frame closed")

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
)

// Conn is a WebSocket-connected frame.
type Conn struct {
	frameID id.FrameID
	origin  string
	ws      *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, origin string) *Conn {
	return &Conn{
		frameID: id.NewFrameID(),
		origin:  origin,
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
}

// ID implements transport.Frame.
func (c *Conn) ID() string { return c.frameID.String() }

// Origin implements transport.Frame.
func (c *Conn) Origin() string { return c.origin }

// Deliver implements transport.Frame. A non-matching target-origin
// constraint drops the payload without error; a full outbound buffer is a
// delivery error, not a reason to block the dispatcher.
func (c *Conn) Deliver(payload []byte, targetOrigin string) error {
	if !transport.OriginMatches(targetOrigin, c.origin) {
		return nil
	}

	select {
	case <-c.done:
		return ErrFrameClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Close shuts the frame down. Safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// writePump serializes all socket writes onto one goroutine.
func (c *Conn) writePump() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.Close()
				return
			}
		}
	}
}
