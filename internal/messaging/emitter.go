package messaging

import (
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/FrameLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// Callback handles a dispatched message. source is the sending frame, nil
// when the fabric could not identify the sender.
type Callback func(data any, source transport.Frame)

// Subscription represents one active listener binding. It owns exactly one
// underlying registration.
type Subscription struct {
	id   id.SubscriptionID
	off  func()
	once sync.Once
}

// ID returns the subscription's identifier.
func (s *Subscription) ID() id.SubscriptionID { return s.id }

// Off detaches the underlying listener. Calling Off more than once is safe.
func (s *Subscription) Off() {
	s.once.Do(s.off)
}

// listener is one registered callback under a message type.
type listener struct {
	sub    *Subscription
	source transport.Frame // nil accepts any sender
	cb     Callback
	oneOff bool
	fired  atomic.Bool
}

// emitter is the locally-scoped event registry, keyed by full message type.
type emitter struct {
	mu        sync.RWMutex
	listeners map[string]map[id.SubscriptionID]*listener
}

func newEmitter() *emitter {
	return &emitter{listeners: make(map[string]map[id.SubscriptionID]*listener)}
}

// subscribe registers cb under msgType. source, when non-nil, restricts
// delivery to messages from that frame.
func (e *emitter) subscribe(msgType string, source transport.Frame, oneOff bool, cb Callback) *Subscription {
	subID := id.NewSubscriptionID()
	l := &listener{source: source, cb: cb, oneOff: oneOff}
	l.sub = &Subscription{
		id:  subID,
		off: func() { e.remove(msgType, subID) },
	}

	e.mu.Lock()
	byID := e.listeners[msgType]
	if byID == nil {
		byID = make(map[id.SubscriptionID]*listener)
		e.listeners[msgType] = byID
	}
	byID[subID] = l
	e.mu.Unlock()

	return l.sub
}

// emit invokes every listener registered under msgType whose source filter
// accepts the sender. One-shot listeners detach before their callback runs,
// so they fire exactly once even under concurrent delivery.
func (e *emitter) emit(msgType string, data any, source transport.Frame) {
	e.mu.RLock()
	byID := e.listeners[msgType]
	snapshot := make([]*listener, 0, len(byID))
	for _, l := range byID {
		snapshot = append(snapshot, l)
	}
	e.mu.RUnlock()

	for _, l := range snapshot {
		if l.source != nil && !sameFrame(l.source, source) {
			continue
		}
		if l.oneOff {
			if !l.fired.CompareAndSwap(false, true) {
				continue
			}
			l.sub.Off()
		}
		l.cb(data, source)
	}
}

func (e *emitter) remove(msgType string, subID id.SubscriptionID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	byID := e.listeners[msgType]
	delete(byID, subID)
	if len(byID) == 0 {
		delete(e.listeners, msgType)
	}
}

// count reports active listeners, for stats.
func (e *emitter) count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := 0
	for _, byID := range e.listeners {
		n += len(byID)
	}
	return n
}

// sameFrame matches a subscription's source filter against the sender,
// comparing both the handle itself and its identity.
func sameFrame(want, got transport.Frame) bool {
	if got == nil {
		return false
	}
	return want == got || want.ID() == got.ID()
}
