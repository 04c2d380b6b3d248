// Package resilience provides a circuit breaker for delivery to unreliable
// destinations.
//
// The gateway uses it around webhook deliveries: a destination that keeps
// failing is cut off for a cooldown period instead of being hammered with
// retries for every proxied message.
package resilience
