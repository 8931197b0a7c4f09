// Package circuitbreaker wraps sony/gobreaker with typed results and
// project defaults.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config mirrors gobreaker.Settings with project defaults applied.
type Config = gobreaker.Settings

// CircuitBreaker is a typed circuit breaker around an upstream call.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// DefaultConfig returns the settings used for upstream aggregator calls:
// trip after 5 consecutive failures, half-open probe after 30s.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// New creates a circuit breaker from the given settings.
func New[T any](cfg Config) *CircuitBreaker[T] {
	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](cfg)}
}

// Execute runs op through the breaker.
func (c *CircuitBreaker[T]) Execute(op func() (T, error)) (T, error) {
	return c.cb.Execute(op)
}

// State returns the current breaker state.
func (c *CircuitBreaker[T]) State() gobreaker.State {
	return c.cb.State()
}

// IsOpen reports whether the breaker currently rejects calls.
func (c *CircuitBreaker[T]) IsOpen() bool {
	return c.cb.State() == gobreaker.StateOpen
}
