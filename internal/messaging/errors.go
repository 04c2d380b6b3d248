package messaging

import "errors"

var (
	// ErrNilCallback is returned when a subscription is requested without a
	// callback.
	ErrNilCallback = errors.New("messaging: callback cannot be nil")

	// ErrEmptyType is returned for send or subscribe calls with an empty
	// message type.
	ErrEmptyType = errors.New("messaging: message type cannot be empty")

	// ErrNilTarget is returned when posting to a nil frame.
	ErrNilTarget = errors.New("messaging: target frame cannot be nil")

	// ErrNoDestinations is returned when a proxy is registered without any
	// destination frames.
	ErrNoDestinations = errors.New("messaging: proxy requires at least one destination")
)
