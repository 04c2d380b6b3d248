package messaging

import (
	"regexp"
	"strings"
	"sync"
)

// NamespaceRegistry tracks which namespaces are currently being listened to
// and compiles a single matcher used to cheaply reject irrelevant inbound
// message types.
type NamespaceRegistry struct {
	mu      sync.RWMutex
	active  []string
	matcher *regexp.Regexp
	dirty   bool
}

// NewNamespaceRegistry creates an empty registry. Nothing matches until a
// namespace is activated.
func NewNamespaceRegistry() *NamespaceRegistry {
	return &NamespaceRegistry{}
}

// Activate starts tracking a namespace. Activating a duplicate is a no-op.
func (r *NamespaceRegistry) Activate(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ns := range r.active {
		if ns == namespace {
			return
		}
	}
	r.active = append(r.active, namespace)
	r.dirty = true
}

// Deactivate stops tracking a namespace and reports whether the active set is
// now empty (the signal for the transport handler to detach).
func (r *NamespaceRegistry) Deactivate(namespace string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ns := range r.active {
		if ns == namespace {
			r.active = append(r.active[:i], r.active[i+1:]...)
			r.dirty = true
			break
		}
	}
	return len(r.active) == 0
}

// Matches reports whether a message type belongs to an active namespace.
func (r *NamespaceRegistry) Matches(msgType string) bool {
	r.mu.RLock()
	if !r.dirty {
		m := r.matcher
		r.mu.RUnlock()
		return m != nil && m.MatchString(msgType)
	}
	r.mu.RUnlock()

	r.mu.Lock()
	if r.dirty {
		r.matcher = compileNamespacePattern(r.active)
		r.dirty = false
	}
	m := r.matcher
	r.mu.Unlock()

	return m != nil && m.MatchString(msgType)
}

// Active returns a snapshot of the active namespaces.
func (r *NamespaceRegistry) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.active))
	copy(out, r.active)
	return out
}

// compileNamespacePattern matches types ending with "." + an active
// namespace. Returns nil for an empty set.
func compileNamespacePattern(active []string) *regexp.Regexp {
	if len(active) == 0 {
		return nil
	}

	quoted := make([]string, len(active))
	for i, ns := range active {
		quoted[i] = regexp.QuoteMeta(ns)
	}
	return regexp.MustCompile(`\.(` + strings.Join(quoted, "|") + `)$`)
}
