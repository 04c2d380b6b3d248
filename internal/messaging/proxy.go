package messaging

import (
	"sync"

	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// proxyTable maps a namespace to the ordered set of frames that receive
// copies of every message dispatched in that namespace. Entries persist until
// explicitly removed.
type proxyTable struct {
	mu     sync.RWMutex
	routes map[string][]transport.Frame
}

func newProxyTable() *proxyTable {
	return &proxyTable{routes: make(map[string][]transport.Frame)}
}

// add appends destinations for a namespace. Repeated calls are additive,
// never destructive; a frame already routed for the namespace is not added
// twice.
func (t *proxyTable) add(namespace string, destinations ...transport.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing := t.routes[namespace]
	for _, dest := range destinations {
		if dest == nil || containsFrame(existing, dest) {
			continue
		}
		existing = append(existing, dest)
	}
	t.routes[namespace] = existing
}

// remove drops destinations from a namespace's route. Removing the last
// destination clears the entry.
func (t *proxyTable) remove(namespace string, destinations ...transport.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing := t.routes[namespace]
	for _, dest := range destinations {
		if dest == nil {
			continue
		}
		for i, f := range existing {
			if sameFrame(f, dest) {
				existing = append(existing[:i], existing[i+1:]...)
				break
			}
		}
	}
	if len(existing) == 0 {
		delete(t.routes, namespace)
	} else {
		t.routes[namespace] = existing
	}
}

// destinations returns a snapshot of the frames routed for a namespace.
func (t *proxyTable) destinations(namespace string) []transport.Frame {
	t.mu.RLock()
	defer t.mu.RUnlock()

	routed := t.routes[namespace]
	if len(routed) == 0 {
		return nil
	}
	out := make([]transport.Frame, len(routed))
	copy(out, routed)
	return out
}

// snapshot returns namespace -> destination frame IDs, for stats.
func (t *proxyTable) snapshot() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string][]string, len(t.routes))
	for ns, frames := range t.routes {
		ids := make([]string, len(frames))
		for i, f := range frames {
			ids[i] = f.ID()
		}
		out[ns] = ids
	}
	return out
}

// dropFrame removes a frame from every route, used when a frame leaves the
// fabric.
func (t *proxyTable) dropFrame(frame transport.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for ns, frames := range t.routes {
		for i, f := range frames {
			if sameFrame(f, frame) {
				frames = append(frames[:i], frames[i+1:]...)
				break
			}
		}
		if len(frames) == 0 {
			delete(t.routes, ns)
		} else {
			t.routes[ns] = frames
		}
	}
}

func containsFrame(frames []transport.Frame, frame transport.Frame) bool {
	for _, f := range frames {
		if sameFrame(f, frame) {
			return true
		}
	}
	return false
}
