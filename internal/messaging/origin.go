package messaging

import (
	"regexp"
	"strings"
	"sync"
)

// WildcardOrigin trusts every http(s) origin. Adding it collapses the
// trusted set to the wildcard alone.
const WildcardOrigin = "*"

// OriginFilter maintains the set of trusted sender origins and decides
// whether an inbound message should be accepted. The matching pattern is
// compiled lazily and cached until the set changes.
type OriginFilter struct {
	mu      sync.RWMutex
	origins []string
	matcher *regexp.Regexp
	dirty   bool
}

// NewOriginFilter creates an empty filter: only the self origin and "null"
// are accepted until origins are added.
func NewOriginFilter() *OriginFilter {
	return &OriginFilter{}
}

// Add registers a trusted origin (a hostname, or WildcardOrigin). Adding the
// wildcard collapses the set; adding a concrete origin removes the wildcard
// first. Duplicates are no-ops.
func (f *OriginFilter) Add(origin string) {
	origin = canonicalOrigin(origin)
	if origin == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if origin == WildcardOrigin {
		f.origins = []string{WildcardOrigin}
		f.dirty = true
		return
	}

	if f.contains(WildcardOrigin) {
		f.removeLocked(WildcardOrigin)
	}
	if f.contains(origin) {
		return
	}
	f.origins = append(f.origins, origin)
	f.dirty = true
}

// Remove drops an origin from the trusted set. Removing an origin that was
// never added is a no-op.
func (f *OriginFilter) Remove(origin string) {
	origin = canonicalOrigin(origin)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.contains(origin) {
		return
	}
	f.removeLocked(origin)
	f.dirty = true
}

// Allowed reports whether a message from origin should be accepted. The self
// origin and the literal "null" (sandboxed/local documents) are always
// trusted.
func (f *OriginFilter) Allowed(origin, selfOrigin string) bool {
	if origin == selfOrigin || origin == "null" {
		return true
	}

	matcher := f.compiled()
	return matcher != nil && matcher.MatchString(origin)
}

// Origins returns a snapshot of the trusted set.
func (f *OriginFilter) Origins() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, len(f.origins))
	copy(out, f.origins)
	return out
}

// compiled returns the cached matcher, recompiling if the set changed.
// Returns nil when the set is empty.
func (f *OriginFilter) compiled() *regexp.Regexp {
	f.mu.RLock()
	if !f.dirty {
		m := f.matcher
		f.mu.RUnlock()
		return m
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dirty {
		f.matcher = compileOriginPattern(f.origins)
		f.dirty = false
	}
	return f.matcher
}

// compileOriginPattern builds one case-insensitive pattern accepting http(s)
// origins whose hostname is in the set. The wildcard matches every hostname.
func compileOriginPattern(origins []string) *regexp.Regexp {
	if len(origins) == 0 {
		return nil
	}

	if origins[0] == WildcardOrigin {
		return regexp.MustCompile(`(?i)^https?://.+$`)
	}

	quoted := make([]string, len(origins))
	for i, o := range origins {
		quoted[i] = regexp.QuoteMeta(o)
	}
	return regexp.MustCompile(`(?i)^https?://(` + strings.Join(quoted, "|") + `)(:\d+)?$`)
}

// canonicalOrigin lowercases and strips any scheme prefix so registered
// entries are plain hostnames.
func canonicalOrigin(origin string) string {
	origin = strings.ToLower(strings.TrimSpace(origin))
	origin = strings.TrimPrefix(origin, "https://")
	origin = strings.TrimPrefix(origin, "http://")
	return origin
}

func (f *OriginFilter) contains(origin string) bool {
	for _, o := range f.origins {
		if o == origin {
			return true
		}
	}
	return false
}

func (f *OriginFilter) removeLocked(origin string) {
	for i, o := range f.origins {
		if o == origin {
			f.origins = append(f.origins[:i], f.origins[i+1:]...)
			return
		}
	}
}
