package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	domrepo "FinSight/internal/domain/repository"
	applogger "FinSight/pkg/logger"
)

// BreakerConfig tunes the circuit breaker in front of storage reads.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func newBreaker(name string, cfg BreakerConfig, l *applogger.Logger) *gobreaker.CircuitBreaker {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= failures },
		IsSuccessful: func(err error) bool {
			// A symbol with no data is an answer, not an outage.
			return err == nil || errors.Is(err, domrepo.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				l.Warn("circuit breaker opened", applogger.String("breaker", name), applogger.String("from", from.String()))
				return
			}
			l.Info("circuit breaker state", applogger.String("breaker", name), applogger.String("state", to.String()))
		},
	})
}

// guarded runs fn through cb. A rejected call surfaces as ErrUnavailable so
// callers can map it without importing gobreaker.
func guarded[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	out, err := cb.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", cb.Name(), domrepo.ErrUnavailable)
		}
		return zero, err
	}
	return out.(T), nil
}
