// Package webhook implements frames backed by HTTP endpoints.
//
// A webhook frame lets a proxied namespace fan out to consumers that are not
// attached to the fabric at all: every envelope delivered to the frame is
// POSTed to the configured URL. Deliveries are retried on transient failure,
// rate limited per frame, and cut off by a circuit breaker when the endpoint
// keeps failing.
package webhook

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/FrameLink/backend/internal/shared/id"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// ErrRateLimited is returned when a delivery exceeds the frame's rate limit.
var ErrRateLimited = errors.New("webhook: delivery rate limit exceeded")

// Config tunes a webhook frame.
type Config struct {
	Timeout    time.Duration
	MaxRetries int
	// RatePerSecond caps deliveries per second; 0 means unlimited.
	RatePerSecond float64
	Burst         int
}

// DefaultConfig returns production-ready webhook settings.
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		MaxRetries:    3,
		RatePerSecond: 0,
		Burst:         1,
	}
}

// Frame delivers envelopes to an HTTP endpoint.
type Frame struct {
	frameID id.FrameID
	url     string
	origin  string

	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
}

// New creates a webhook frame for rawURL. The frame's origin is derived from
// the URL (scheme://host), so target-origin constraints apply to webhook
// destinations the same way they apply to connected frames.
func New(rawURL string, cfg Config) (*Frame, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("webhook: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("webhook: unsupported url %q", rawURL)
	}

	frameID := id.NewFrameID()

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("User-Agent", "FrameLink-Webhook/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	// Retry on transient server errors, not just network failures.
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	breaker := resilience.New("webhook-"+frameID.String(), resilience.Settings{
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Frame{
		frameID: frameID,
		url:     rawURL,
		origin:  strings.ToLower(u.Scheme + "://" + u.Host),
		client:  client,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		breaker: breaker,
	}, nil
}

// ID implements transport.Frame.
func (f *Frame) ID() string { return f.frameID.String() }

// Origin implements transport.Frame.
func (f *Frame) Origin() string { return f.origin }

// URL returns the destination endpoint.
func (f *Frame) URL() string { return f.url }

// Deliver POSTs the serialized envelope to the endpoint. A non-matching
// target-origin constraint drops the payload without error.
func (f *Frame) Deliver(payload []byte, targetOrigin string) error {
	if !transport.OriginMatches(targetOrigin, f.origin) {
		return nil
	}
	if !f.limiter.Allow() {
		return ErrRateLimited
	}

	return f.breaker.Do(func() error {
		resp, err := f.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(f.url)
		if err != nil {
			return fmt.Errorf("webhook: post to %s: %w", f.url, err)
		}
		if resp.IsError() {
			return fmt.Errorf("webhook: %s responded %d", f.url, resp.StatusCode())
		}
		return nil
	})
}
