package translation

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ResilienceConfig bounds calls to a translation backend.
type ResilienceConfig struct {
	Timeout         time.Duration // per attempt
	Retries         uint          // additional attempts after the first
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	RateLimit       float64 // requests per second, 0 disables limiting
	RateBurst       int
	BreakerFailures uint32        // consecutive failures that open the breaker
	BreakerCooldown time.Duration // open state duration before a trial request
}

// DefaultResilienceConfig returns the settings used by the CLI.
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		Timeout:         15 * time.Second,
		Retries:         2,
		InitialBackoff:  500 * time.Millisecond,
		MaxBackoff:      5 * time.Second,
		RateLimit:       2,
		RateBurst:       5,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// ResilientBackend wraps a Backend with a timeout per attempt, a rate
// limiter, retries with exponential backoff and a circuit breaker.
type ResilientBackend struct {
	next    Backend
	config  ResilienceConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewResilientBackend wraps next with the given limits.
func NewResilientBackend(next Backend, config ResilienceConfig) *ResilientBackend {
	b := &ResilientBackend{
		next:   next,
		config: config,
	}

	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	failures := config.BreakerFailures
	if failures == 0 {
		failures = DefaultResilienceConfig().BreakerFailures
	}
	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about backend health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("backend", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Translation backend circuit breaker changed state")
		},
	})

	return b
}

// Translate implements Backend.
func (b *ResilientBackend) Translate(ctx context.Context, text string) (string, error) {
	var result string
	err := retry.Do(
		func() error {
			translated, err := b.attempt(ctx, text)
			if err != nil {
				return err
			}
			result = translated
			return nil
		},
		retry.Context(ctx),
		retry.RetryIf(IsRetryable),
		retry.Attempts(b.config.Retries+1),
		retry.Delay(b.config.InitialBackoff),
		retry.MaxDelay(b.config.MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Info().
				Err(err).
				Uint("attempt", n+1).
				Str("backend", b.next.Name()).
				Msg("Retrying translation backend call")
		}),
	)
	if err != nil {
		return "", err
	}
	return result, nil
}

func (b *ResilientBackend) attempt(ctx context.Context, text string) (string, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	out, err := b.breaker.Execute(func() (interface{}, error) {
		attemptCtx := ctx
		if b.config.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, b.config.Timeout)
			defer cancel()
		}
		return b.next.Translate(attemptCtx, text)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State returns the circuit breaker state.
func (b *ResilientBackend) State() gobreaker.State {
	return b.breaker.State()
}

// Name returns the wrapped backend name
func (b *ResilientBackend) Name() string {
	return b.next.Name()
}
