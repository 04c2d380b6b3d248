package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const selfOrigin = "https://gateway.local"

func TestOriginFilter_EmptyRejectsEverythingButSelf(t *testing.T) {
	f := NewOriginFilter()

	assert.False(t, f.Allowed("https://evil.example.com", selfOrigin))
	assert.True(t, f.Allowed(selfOrigin, selfOrigin))
	assert.True(t, f.Allowed("null", selfOrigin), "sandboxed documents report a null origin")
}

func TestOriginFilter_ConcreteOrigins(t *testing.T) {
	f := NewOriginFilter()
	f.Add("app.example.com")

	assert.True(t, f.Allowed("https://app.example.com", selfOrigin))
	assert.True(t, f.Allowed("http://app.example.com", selfOrigin))
	assert.True(t, f.Allowed("HTTPS://APP.EXAMPLE.COM", selfOrigin))
	assert.True(t, f.Allowed("https://app.example.com:8443", selfOrigin))
	assert.False(t, f.Allowed("https://other.example.com", selfOrigin))
	assert.False(t, f.Allowed("https://app.example.com.evil.com", selfOrigin))
}

func TestOriginFilter_SchemePrefixStripped(t *testing.T) {
	f := NewOriginFilter()
	f.Add("https://app.example.com")

	assert.Equal(t, []string{"app.example.com"}, f.Origins())
	assert.True(t, f.Allowed("https://app.example.com", selfOrigin))
}

func TestOriginFilter_WildcardCollapses(t *testing.T) {
	f := NewOriginFilter()
	f.Add("app.example.com")
	f.Add("other.example.com")
	f.Add(WildcardOrigin)

	assert.Equal(t, []string{WildcardOrigin}, f.Origins())
	assert.True(t, f.Allowed("https://anything.at.all", selfOrigin))
	assert.False(t, f.Allowed("ftp://anything.at.all", selfOrigin), "non-http schemes stay out")
}

func TestOriginFilter_ConcreteAddRemovesWildcard(t *testing.T) {
	f := NewOriginFilter()
	f.Add(WildcardOrigin)
	f.Add("app.example.com")

	assert.Equal(t, []string{"app.example.com"}, f.Origins())
	assert.False(t, f.Allowed("https://anything.at.all", selfOrigin))
	assert.True(t, f.Allowed("https://app.example.com", selfOrigin))
}

func TestOriginFilter_AddDuplicateIsNoOp(t *testing.T) {
	f := NewOriginFilter()
	f.Add("app.example.com")
	f.Add("app.example.com")

	assert.Len(t, f.Origins(), 1)
}

func TestOriginFilter_Remove(t *testing.T) {
	f := NewOriginFilter()
	f.Add("app.example.com")
	f.Remove("app.example.com")

	assert.Empty(t, f.Origins())
	assert.False(t, f.Allowed("https://app.example.com", selfOrigin))

	// Removing something never added is harmless
	f.Remove("ghost.example.com")
	assert.Empty(t, f.Origins())
}
