package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes when the breaker opens and how long it stays open
type BreakerConfig struct {
	// ConsecutiveFailures opens the breaker; 5 when zero
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker rejects calls; 30s when zero
	OpenTimeout time.Duration
}

// Breaker wraps a Client in a circuit breaker. While open, calls fail
// immediately instead of waiting for the API timeout. Nothing is retried.
type Breaker struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next
func NewBreaker(next Client, config BreakerConfig, logger *slog.Logger) *Breaker {
	if config.ConsecutiveFailures == 0 {
		config.ConsecutiveFailures = 5
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("system", "breaker")

	threshold := config.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// missing keys are a configuration problem, not an unhealthy API
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMissingCredentials)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "client", name, "from", from.String(), "to", to.String())
		},
	})

	return &Breaker{next: next, cb: cb}
}

// Name returns the wrapped client's name
func (b *Breaker) Name() string { return b.next.Name() }

// State reports the breaker state
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// Translate forwards to the wrapped client unless the breaker is open
func (b *Breaker) Translate(ctx context.Context, req Request) (Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Response{}, fmt.Errorf("%s unavailable: %w", b.next.Name(), err)
		}
		return Response{}, err
	}
	return out.(Response), nil
}
