// Package loopback provides an in-process messaging fabric.
//
// Each Endpoint stands for one document. A frame handle is always a view of
// one endpoint from another, obtained via Link: the receiving side sees the
// sender's identity on the event, the way a browser reports event.origin and
// event.source. Delivery is asynchronous and FIFO per receiving endpoint.
//
// Used by the messaging tests and for embedding multiple messengers in one
// process.
package loopback

import (
	"errors"
	"sync"

	"github.com/GriffinCanCode/FrameLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// ErrQueueFull is returned when an endpoint's inbound queue overflows.
var ErrQueueFull = errors.New("loopback: inbound queue full")

// ErrClosed is returned when delivering to a closed endpoint.
var ErrClosed = errors.New("loopback: endpoint closed")

const queueCapacity = 128

type delivery struct {
	payload []byte
	from    *Endpoint
}

// Endpoint is one document on the fabric. It implements transport.Transport;
// peers post to it through handles obtained with Link.
type Endpoint struct {
	frameID id.FrameID
	origin  string

	mu      sync.Mutex
	handler transport.Handler

	queue     chan delivery
	done      chan struct{}
	closeOnce sync.Once
}

// NewEndpoint creates an endpoint with the given origin and starts its
// delivery loop.
func NewEndpoint(origin string) *Endpoint {
	e := &Endpoint{
		frameID: id.NewFrameID(),
		origin:  origin,
		queue:   make(chan delivery, queueCapacity),
		done:    make(chan struct{}),
	}
	go e.run()
	return e
}

// ID returns the endpoint's frame identity.
func (e *Endpoint) ID() string { return e.frameID.String() }

// SelfOrigin implements transport.Transport.
func (e *Endpoint) SelfOrigin() string { return e.origin }

// Attach implements transport.Transport.
func (e *Endpoint) Attach(h transport.Handler) {
	e.mu.Lock()
	e.handler = h
	e.mu.Unlock()
}

// Detach implements transport.Transport.
func (e *Endpoint) Detach() {
	e.mu.Lock()
	e.handler = nil
	e.mu.Unlock()
}

// Close stops the delivery loop. Pending deliveries are discarded.
func (e *Endpoint) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

func (e *Endpoint) run() {
	for {
		select {
		case <-e.done:
			return
		case d := <-e.queue:
			e.mu.Lock()
			h := e.handler
			e.mu.Unlock()
			if h == nil {
				continue
			}
			h(transport.Event{
				Origin: d.from.origin,
				Data:   d.payload,
				Source: Link(e, d.from),
			})
		}
	}
}

func (e *Endpoint) enqueue(d delivery) error {
	select {
	case <-e.done:
		return ErrClosed
	default:
	}

	select {
	case e.queue <- d:
		return nil
	default:
		return ErrQueueFull
	}
}

// Link returns the frame handle through which from posts to to. The handle's
// identity and origin are the peer's.
func Link(from, to *Endpoint) transport.Frame {
	return &link{from: from, to: to}
}

type link struct {
	from *Endpoint
	to   *Endpoint
}

func (l *link) ID() string     { return l.to.ID() }
func (l *link) Origin() string { return l.to.origin }

// Deliver enqueues the payload on the peer. A non-matching target-origin
// constraint drops the payload without error.
func (l *link) Deliver(payload []byte, targetOrigin string) error {
	if !transport.OriginMatches(targetOrigin, l.to.origin) {
		return nil
	}
	return l.to.enqueue(delivery{payload: payload, from: l.from})
}
