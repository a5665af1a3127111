// Package circuitbreaker puts sony/gobreaker in front of the database pool
// and the digest webhooks. Every breaker exports its state as the
// circuit_breaker_state gauge.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"sportsdesk/internal/observability/metrics"
)

// Config describes when a breaker opens and how it recovers.
type Config struct {
	Name string
	// Probes is how many calls are let through while half-open.
	Probes uint32
	// Window resets the closed-state counts periodically; zero never resets.
	Window time.Duration
	// Cooldown is how long the breaker stays open.
	Cooldown time.Duration
	// MinRequests and FailureRatio together decide when to open.
	MinRequests  uint32
	FailureRatio float64
	// Ignore marks errors that are not the dependency's fault.
	Ignore func(error) bool
}

// Database opens after five straight failures. Client cancellations do
// not count.
func Database() Config {
	return Config{
		Name:         "database",
		Probes:       3,
		Window:       time.Minute,
		Cooldown:     30 * time.Second,
		MinRequests:  5,
		FailureRatio: 1.0,
		Ignore: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	}
}

// Webhook is tuned for a low-volume digest channel: three calls with half
// of them failing is enough, and the breaker stays open for ten minutes.
func Webhook(channel string) Config {
	return Config{
		Name:         "webhook_" + channel,
		Probes:       1,
		Window:       5 * time.Minute,
		Cooldown:     10 * time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

func New(cfg Config) *Breaker {
	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.Probes,
		Interval:    cfg.Window,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= cfg.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	if cfg.Ignore != nil {
		st.IsSuccessful = func(err error) bool { return err == nil || cfg.Ignore(err) }
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *Breaker) Name() string           { return b.cb.Name() }
func (b *Breaker) State() gobreaker.State { return b.cb.State() }
func (b *Breaker) IsOpen() bool           { return b.cb.State() == gobreaker.StateOpen }

// Do runs fn through b. While open it returns gobreaker.ErrOpenState
// without calling fn.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	v, err := b.cb.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}
