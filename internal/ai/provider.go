package ai

import (
	"context"
	"errors"
)

var (
	ErrEmptyResponse     = errors.New("provider returned no recommendations")
	ErrMalformedResponse = errors.New("provider returned a malformed payload")
	ErrCircuitOpen       = errors.New("provider circuit is open")
	ErrProviderDisabled  = errors.New("generative provider is disabled")
)

// Provider produces topical skincare recommendations. A nil error means the
// response is the success variant; any error is the failure variant.
type Provider interface {
	Name() string
	Recommend(ctx context.Context, req RecommendRequest) (RecommendResponse, error)
}

// FocusArea is one of the features the request should target.
type FocusArea struct {
	Key         string
	DisplayName string
	Score       float64
	Severity    string
	Guidance    string
}

type RecommendRequest struct {
	Prompt          string
	Focus           []FocusArea
	SleepScore      float64
	SkinHealthScore float64
}

type RecommendResponse struct {
	Recommendations        []string
	NaturalRemedies        []string
	ProductRecommendations []string
	LifestyleTip           string
	Model                  string
}
