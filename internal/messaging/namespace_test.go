package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespaceRegistry_EmptyMatchesNothing(t *testing.T) {
	r := NewNamespaceRegistry()
	assert.False(t, r.Matches("init.postMessage"))
}

func TestNamespaceRegistry_Matches(t *testing.T) {
	r := NewNamespaceRegistry()
	r.Activate("chat")
	r.Activate("billing")

	assert.True(t, r.Matches("init.chat"))
	assert.True(t, r.Matches("invoice.paid.billing"))
	assert.False(t, r.Matches("init.postMessage"))
	assert.False(t, r.Matches("chat"), "a bare type has no namespace suffix")
	assert.False(t, r.Matches("init.chatter"), "suffix must match the whole namespace")
}

func TestNamespaceRegistry_DuplicateActivateIsNoOp(t *testing.T) {
	r := NewNamespaceRegistry()
	r.Activate("chat")
	r.Activate("chat")

	assert.Equal(t, []string{"chat"}, r.Active())
}

func TestNamespaceRegistry_Deactivate(t *testing.T) {
	r := NewNamespaceRegistry()
	r.Activate("chat")
	r.Activate("billing")

	assert.False(t, r.Deactivate("chat"))
	assert.False(t, r.Matches("init.chat"))
	assert.True(t, r.Matches("invoice.billing"))

	assert.True(t, r.Deactivate("billing"), "last deactivation reports empty")
	assert.True(t, r.Deactivate("never-added"))
}
