package webhook

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

func TestNew_RejectsBadURLs(t *testing.T) {
	_, err := New("not a url", DefaultConfig())
	assert.Error(t, err)

	_, err = New("ftp://example.com/hook", DefaultConfig())
	assert.Error(t, err)

	_, err = New("https://", DefaultConfig())
	assert.Error(t, err)
}

func TestNew_DerivesOriginFromURL(t *testing.T) {
	f, err := New("HTTPS://Hooks.Example.COM/messages", DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example.com", f.Origin())
	assert.Equal(t, "HTTPS://Hooks.Example.COM/messages", f.URL())
}

func TestDeliver_PostsPayload(t *testing.T) {
	bodies := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f, err := New(srv.URL+"/hook", DefaultConfig())
	require.NoError(t, err)

	payload := []byte(`{"type":"init.chat","data":null,"options":{"targetOrigin":"*"}}`)
	require.NoError(t, f.Deliver(payload, transport.TargetAny))

	select {
	case body := <-bodies:
		assert.Equal(t, payload, body)
	case <-time.After(2 * time.Second):
		t.Fatal("endpoint never received the payload")
	}
}

func TestDeliver_TargetOriginConstraint(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f, err := New(srv.URL, DefaultConfig())
	require.NoError(t, err)

	// Constraint names a different origin: silent drop
	require.NoError(t, f.Deliver([]byte("{}"), "https://somewhere.else"))
	assert.Equal(t, int64(0), hits.Load())

	// Constraint names the webhook's own origin: delivered
	require.NoError(t, f.Deliver([]byte("{}"), f.Origin()))
	assert.Equal(t, int64(1), hits.Load())
}

func TestDeliver_RetriesOnServerError(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.MaxRetries = 3
	f, err := New(srv.URL, cfg)
	require.NoError(t, err)

	require.NoError(t, f.Deliver([]byte("{}"), transport.TargetAny))
	assert.Equal(t, int64(3), hits.Load())
}

func TestDeliver_ClientErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f, err := New(srv.URL, DefaultConfig())
	require.NoError(t, err)

	assert.Error(t, f.Deliver([]byte("{}"), transport.TargetAny))
}

func TestDeliver_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	f, err := New(srv.URL, cfg)
	require.NoError(t, err)

	require.NoError(t, f.Deliver([]byte("{}"), transport.TargetAny))
	assert.ErrorIs(t, f.Deliver([]byte("{}"), transport.TargetAny), ErrRateLimited)
}
