// Package resilience wraps outbound calls in a circuit breaker.
// This is part of the platform layer and contains no business logic.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/sony/gobreaker"
)

var (
	// ErrCircuitOpen indicates the breaker is rejecting calls.
	ErrCircuitOpen = gobreaker.ErrOpenState
	// ErrTooManyRequests indicates the half-open probe budget is used up.
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// BreakerConfig holds configuration for a circuit breaker.
type BreakerConfig struct {
	Name          string
	MaxFailures   int
	OpenTimeout   time.Duration
	HalfOpenLimit int
	ResetInterval time.Duration
}

// Breaker is a named circuit breaker.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a breaker that opens after MaxFailures consecutive failures
// and probes again after OpenTimeout.
func NewBreaker(cfg BreakerConfig, log *logger.Logger) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = 1
	}
	if cfg.ResetInterval <= 0 {
		cfg.ResetInterval = 60 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: uint32(cfg.HalfOpenLimit),
		Interval:    cfg.ResetInterval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.MaxFailures)
		},
		// A caller giving up is not a failure of the dependency.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	if log != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		}
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// State returns the breaker state as a lower-case string.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Call runs fn through the breaker. When the breaker is open fn is not called
// and the error matches IsOpen.
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

// IsOpen reports whether err came from a breaker refusing the call.
func IsOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests)
}
