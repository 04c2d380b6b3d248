package messaging

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

func TestEmitter_DeliversToAllSubscribers(t *testing.T) {
	e := newEmitter()
	var got []any
	e.subscribe("init.chat", nil, false, func(data any, _ transport.Frame) { got = append(got, data) })
	e.subscribe("init.chat", nil, false, func(data any, _ transport.Frame) { got = append(got, data) })
	e.subscribe("other.chat", nil, false, func(any, transport.Frame) { t.Fatal("wrong type delivered") })

	e.emit("init.chat", "payload", nil)

	assert.Equal(t, []any{"payload", "payload"}, got)
}

func TestEmitter_SourceFilter(t *testing.T) {
	e := newEmitter()
	alice := &fakeFrame{id: "frame-alice", origin: "https://alice.example.com"}
	bob := &fakeFrame{id: "frame-bob", origin: "https://bob.example.com"}

	var fromAlice, fromAnyone int
	e.subscribe("ping.chat", alice, false, func(any, transport.Frame) { fromAlice++ })
	e.subscribe("ping.chat", nil, false, func(any, transport.Frame) { fromAnyone++ })

	e.emit("ping.chat", nil, bob)
	e.emit("ping.chat", nil, alice)
	e.emit("ping.chat", nil, nil)

	assert.Equal(t, 1, fromAlice)
	assert.Equal(t, 3, fromAnyone)
}

func TestEmitter_SourceFilterMatchesByID(t *testing.T) {
	e := newEmitter()
	// Two handles for the same frame, as a transport may hand out
	handle1 := &fakeFrame{id: "frame-1", origin: "https://a.example.com"}
	handle2 := &fakeFrame{id: "frame-1", origin: "https://a.example.com"}

	var n int
	e.subscribe("ping.chat", handle1, false, func(any, transport.Frame) { n++ })
	e.emit("ping.chat", nil, handle2)

	assert.Equal(t, 1, n)
}

func TestSubscription_OffIsIdempotent(t *testing.T) {
	e := newEmitter()
	var n int
	sub := e.subscribe("init.chat", nil, false, func(any, transport.Frame) { n++ })

	sub.Off()
	sub.Off()
	e.emit("init.chat", nil, nil)

	assert.Equal(t, 0, n)
	assert.Equal(t, 0, e.count())
}

func TestEmitter_OneShotFiresExactlyOnce(t *testing.T) {
	e := newEmitter()
	var n int
	e.subscribe("init.chat", nil, true, func(any, transport.Frame) { n++ })

	e.emit("init.chat", nil, nil)
	e.emit("init.chat", nil, nil)

	assert.Equal(t, 1, n)
	assert.Equal(t, 0, e.count(), "one-shot detaches after firing")
}

func TestEmitter_OneShotOffBeforeDelivery(t *testing.T) {
	e := newEmitter()
	sub := e.subscribe("init.chat", nil, true, func(any, transport.Frame) { t.Fatal("cancelled subscription fired") })

	sub.Off()
	e.emit("init.chat", nil, nil)
}

func TestEmitter_OneShotConcurrentEmit(t *testing.T) {
	e := newEmitter()
	var n atomic.Int64
	e.subscribe("init.chat", nil, true, func(any, transport.Frame) { n.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.emit("init.chat", nil, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), n.Load())
}
