package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/fdg312/skin-hub/internal/metrics"
)

type BreakerSettings struct {
	MaxFailures int           // consecutive failures before opening
	Cooldown    time.Duration // open -> half-open delay
}

// BreakerProvider guards a provider with a circuit breaker so a failing
// upstream is skipped quickly instead of costing every request its timeout.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[RecommendResponse]
}

func NewBreakerProvider(next Provider, s BreakerSettings) *BreakerProvider {
	if s.MaxFailures <= 0 {
		s.MaxFailures = 5
	}
	if s.Cooldown <= 0 {
		s.Cooldown = time.Minute
	}

	name := "ai-" + next.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	maxFailures := uint32(s.MaxFailures)
	cb := gobreaker.NewCircuitBreaker[RecommendResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Caller cancellation says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("ai.breaker: name=%s from=%s to=%s", name, from, to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerProvider{next: next, cb: cb}
}

func (b *BreakerProvider) Name() string { return b.next.Name() }

func (b *BreakerProvider) Recommend(ctx context.Context, req RecommendRequest) (RecommendResponse, error) {
	resp, err := b.cb.Execute(func() (RecommendResponse, error) {
		return b.next.Recommend(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return RecommendResponse{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return resp, err
}

// State reports the breaker state; /healthz exposes it as ai_breaker.
func (b *BreakerProvider) State() string {
	return b.cb.State().String()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
