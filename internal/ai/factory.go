package ai

import (
	"context"
	"strings"

	"github.com/fdg312/skin-hub/internal/config"
)

// NewProvider builds the provider selected by AI_MODE and wraps it in a
// circuit breaker. Off mode is not wrapped: it never reaches the network.
func NewProvider(cfg config.AIConfig) Provider {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = config.AIModeMock
	}

	switch mode {
	case config.AIModeOff:
		return DisabledProvider{}
	case config.AIModeOpenAI:
		return NewBreakerProvider(NewOpenAIProvider(cfg), BreakerSettings{
			MaxFailures: cfg.BreakerMaxFailures,
			Cooldown:    cfg.BreakerCooldown,
		})
	default:
		return NewBreakerProvider(NewMockProvider(), BreakerSettings{
			MaxFailures: cfg.BreakerMaxFailures,
			Cooldown:    cfg.BreakerCooldown,
		})
	}
}

// DisabledProvider always fails, forcing the deterministic path.
type DisabledProvider struct{}

func (DisabledProvider) Name() string { return config.AIModeOff }

func (DisabledProvider) Recommend(ctx context.Context, req RecommendRequest) (RecommendResponse, error) {
	return RecommendResponse{}, ErrProviderDisabled
}
