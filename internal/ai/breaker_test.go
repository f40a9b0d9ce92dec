package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	calls int
	err   error
	resp  RecommendResponse
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Recommend(ctx context.Context, req RecommendRequest) (RecommendResponse, error) {
	s.calls++
	return s.resp, s.err
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubProvider{err: errors.New("upstream down")}
	b := NewBreakerProvider(stub, BreakerSettings{MaxFailures: 3, Cooldown: time.Hour})

	for i := 0; i < 3; i++ {
		if _, err := b.Recommend(context.Background(), RecommendRequest{}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := b.Recommend(context.Background(), RecommendRequest{})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if stub.calls != 3 {
		t.Fatalf("expected open breaker to skip upstream, calls=%d", stub.calls)
	}
	if b.State() != "open" {
		t.Fatalf("expected open state, got %s", b.State())
	}
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	stub := &stubProvider{err: context.Canceled}
	b := NewBreakerProvider(stub, BreakerSettings{MaxFailures: 1, Cooldown: time.Hour})

	for i := 0; i < 3; i++ {
		_, err := b.Recommend(context.Background(), RecommendRequest{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled passthrough, got %v", err)
		}
	}
	if b.State() != "closed" {
		t.Fatalf("expected closed state, got %s", b.State())
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	stub := &stubProvider{resp: RecommendResponse{Recommendations: []string{"ok"}}}
	b := NewBreakerProvider(stub, BreakerSettings{})

	resp, err := b.Recommend(context.Background(), RecommendRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Recommendations) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if b.Name() != "stub" {
		t.Fatalf("expected wrapped name, got %s", b.Name())
	}
}
