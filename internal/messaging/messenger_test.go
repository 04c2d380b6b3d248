package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// fakeFrame records deliveries made to it.
type fakeFrame struct {
	id         string
	origin     string
	delivered  [][]byte
	targets    []string
	deliverErr error
}

func (f *fakeFrame) ID() string     { return f.id }
func (f *fakeFrame) Origin() string { return f.origin }

func (f *fakeFrame) Deliver(payload []byte, targetOrigin string) error {
	if f.deliverErr != nil {
		return f.deliverErr
	}
	f.delivered = append(f.delivered, payload)
	f.targets = append(f.targets, targetOrigin)
	return nil
}

// fakeTransport hands inbound events straight to the attached handler.
type fakeTransport struct {
	self     string
	handler  transport.Handler
	attaches int
	detaches int
}

func (tr *fakeTransport) Attach(h transport.Handler) {
	tr.handler = h
	tr.attaches++
}

func (tr *fakeTransport) Detach() {
	tr.handler = nil
	tr.detaches++
}

func (tr *fakeTransport) SelfOrigin() string { return tr.self }

func (tr *fakeTransport) inject(origin string, payload []byte, source transport.Frame) {
	if tr.handler != nil {
		tr.handler(transport.Event{Origin: origin, Data: payload, Source: source})
	}
}

func encodeEnvelope(t *testing.T, msgType string, data any) []byte {
	t.Helper()
	payload, err := Envelope{Type: msgType, Data: data, Options: Options{TargetOrigin: transport.TargetAny}}.Encode()
	require.NoError(t, err)
	return payload
}

func TestPost_Validation(t *testing.T) {
	m := New(&fakeTransport{self: selfOrigin})

	err := m.Post(nil, "init", nil)
	assert.ErrorIs(t, err, ErrNilTarget)

	err = m.Post(&fakeFrame{id: "f"}, "", nil)
	assert.ErrorIs(t, err, ErrEmptyType)
}

func TestPost_DefaultsTargetOriginToAny(t *testing.T) {
	m := New(&fakeTransport{self: selfOrigin})
	target := &fakeFrame{id: "f", origin: "https://app.example.com"}

	require.NoError(t, m.Post(target, "init", nil))

	require.Len(t, target.targets, 1)
	assert.Equal(t, transport.TargetAny, target.targets[0])
}

func TestPost_CallerOptionsWin(t *testing.T) {
	m := New(&fakeTransport{self: selfOrigin})
	target := &fakeFrame{id: "f", origin: "https://app.example.com"}

	require.NoError(t, m.Post(target, "init", nil, Options{TargetOrigin: "https://app.example.com"}))

	require.Len(t, target.delivered, 1)
	env, err := DecodeEnvelope(target.delivered[0])
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com", env.Options.TargetOrigin)
	assert.Equal(t, "https://app.example.com", target.targets[0])
}

func TestPost_NormalizesBareType(t *testing.T) {
	m := New(&fakeTransport{self: selfOrigin})
	target := &fakeFrame{id: "f"}

	require.NoError(t, m.Post(target, "init", map[string]any{"x": 1}))

	env, err := DecodeEnvelope(target.delivered[0])
	require.NoError(t, err)
	assert.Equal(t, "init.postMessage", env.Type)
}

func TestReceive_Validation(t *testing.T) {
	m := New(&fakeTransport{self: selfOrigin})

	_, err := m.Receive("init", nil)
	assert.ErrorIs(t, err, ErrNilCallback)

	_, err = m.Receive("", func(any, transport.Frame) {})
	assert.ErrorIs(t, err, ErrEmptyType)
}

func TestListen_AttachesOnce(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)

	m.Listen("")
	m.Listen("chat")

	assert.Equal(t, 1, tr.attaches)
	assert.ElementsMatch(t, []string{DefaultNamespace, "chat"}, m.Stats().Namespaces)
}

func TestStopListening_DetachesWhenEmpty(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	m.Listen("")
	m.Listen("chat")

	m.StopListening("chat")
	assert.Equal(t, 0, tr.detaches, "still listening on the default namespace")

	m.StopListening("")
	assert.Equal(t, 1, tr.detaches)
	assert.False(t, m.Stats().Listening)
}

func TestDispatch_DeliversToSubscriber(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	m.AddOrigin("app.example.com")
	m.Listen("")

	var got any
	var from transport.Frame
	_, err := m.Receive("init", func(data any, source transport.Frame) {
		got = data
		from = source
	})
	require.NoError(t, err)

	sender := &fakeFrame{id: "frame-1", origin: "https://app.example.com"}
	tr.inject(sender.origin, encodeEnvelope(t, "init.postMessage", map[string]any{"x": 1}), sender)

	require.NotNil(t, got)
	assert.Equal(t, float64(1), got.(map[string]any)["x"])
	assert.Equal(t, sender, from)
}

func TestDispatch_DropsUntrustedOrigin(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	m.Listen("")

	fired := false
	_, err := m.Receive("init", func(any, transport.Frame) { fired = true })
	require.NoError(t, err)

	tr.inject("https://evil.example.com", encodeEnvelope(t, "init.postMessage", nil), nil)
	assert.False(t, fired)

	// Self origin is always trusted
	tr.inject(selfOrigin, encodeEnvelope(t, "init.postMessage", nil), nil)
	assert.True(t, fired)
}

func TestDispatch_DropsMalformedPayload(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	m.Listen("")

	fired := false
	_, err := m.Receive("init", func(any, transport.Frame) { fired = true })
	require.NoError(t, err)

	tr.inject(selfOrigin, []byte("not json"), nil)
	tr.inject(selfOrigin, []byte(`{"data":1}`), nil)

	assert.False(t, fired)
}

func TestDispatch_DropsInactiveNamespace(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	m.Listen("chat")

	fired := false
	_, err := m.Receive("init.billing", func(any, transport.Frame) { fired = true })
	require.NoError(t, err)

	tr.inject(selfOrigin, encodeEnvelope(t, "init.billing", nil), nil)
	assert.False(t, fired)

	m.Listen("billing")
	tr.inject(selfOrigin, encodeEnvelope(t, "init.billing", nil), nil)
	assert.True(t, fired)
}

func TestDispatch_ForwardsToProxies(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	dest := &fakeFrame{id: "frame-dest", origin: "https://dest.example.com"}
	require.NoError(t, m.Proxy("chat", dest))

	localFired := false
	_, err := m.Receive("init.chat", func(any, transport.Frame) { localFired = true })
	require.NoError(t, err)

	tr.inject(selfOrigin, encodeEnvelope(t, "init.chat", map[string]any{"x": 1}), nil)

	assert.True(t, localFired, "proxying does not suppress local delivery")
	require.Len(t, dest.delivered, 1)
	env, err := DecodeEnvelope(dest.delivered[0])
	require.NoError(t, err)
	assert.Equal(t, "init.chat", env.Type)
}

func TestDispatch_ProxyFailureDoesNotBlockLocal(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	broken := &fakeFrame{id: "frame-broken", deliverErr: assert.AnError}
	healthy := &fakeFrame{id: "frame-healthy"}
	require.NoError(t, m.Proxy("chat", broken, healthy))

	localFired := false
	_, err := m.Receive("init.chat", func(any, transport.Frame) { localFired = true })
	require.NoError(t, err)

	tr.inject(selfOrigin, encodeEnvelope(t, "init.chat", nil), nil)

	assert.True(t, localFired)
	assert.Len(t, healthy.delivered, 1, "failure of one destination skips only that destination")
}

func TestDispatch_RepeatedProxyCallsAccumulate(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	first := &fakeFrame{id: "frame-first"}
	second := &fakeFrame{id: "frame-second"}
	require.NoError(t, m.Proxy("dfp", first))
	require.NoError(t, m.Proxy("dfp", second))

	tr.inject(selfOrigin, encodeEnvelope(t, "init.dfp", nil), nil)

	assert.Len(t, first.delivered, 1)
	assert.Len(t, second.delivered, 1)
}

func TestProxy_RequiresDestinations(t *testing.T) {
	m := New(&fakeTransport{self: selfOrigin})
	assert.ErrorIs(t, m.Proxy("chat"), ErrNoDestinations)
}

func TestProxy_ActivatesNamespace(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)

	require.NoError(t, m.Proxy("chat", &fakeFrame{id: "f"}))

	assert.Contains(t, m.Stats().Namespaces, "chat")
	assert.Equal(t, 1, tr.attaches)
}

func TestRemoveProxy(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	dest := &fakeFrame{id: "frame-dest"}
	require.NoError(t, m.Proxy("chat", dest))

	m.RemoveProxy("chat", dest)
	tr.inject(selfOrigin, encodeEnvelope(t, "init.chat", nil), nil)

	assert.Empty(t, dest.delivered)
}

func TestDropFrame_RemovesFromAllRoutes(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	dest := &fakeFrame{id: "frame-dest"}
	require.NoError(t, m.Proxy("chat", dest))
	require.NoError(t, m.Proxy("billing", dest))

	m.DropFrame(dest)

	assert.Empty(t, m.Stats().Proxies)
}

func TestStats(t *testing.T) {
	tr := &fakeTransport{self: selfOrigin}
	m := New(tr)
	m.AddOrigin("app.example.com")
	m.Listen("chat")
	_, err := m.Receive("init.chat", func(any, transport.Frame) {})
	require.NoError(t, err)
	require.NoError(t, m.Proxy("chat", &fakeFrame{id: "frame-dest"}))

	stats := m.Stats()
	assert.True(t, stats.Listening)
	assert.Equal(t, []string{"chat"}, stats.Namespaces)
	assert.Equal(t, []string{"app.example.com"}, stats.Origins)
	assert.Equal(t, 1, stats.Subscriptions)
	assert.Equal(t, map[string][]string{"chat": {"frame-dest"}}, stats.Proxies)
}
