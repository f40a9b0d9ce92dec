package ai

import (
	"context"
	"fmt"
)

type mockRemedy struct {
	natural string
	product string
}

var mockRemedies = map[string]mockRemedy{
	"dark_circles": {"Place chilled green tea bags under the eyes for 10 minutes each morning.", "Use a caffeine eye serum (5%) morning and night."},
	"puffiness":    {"Roll a refrigerated jade roller outward from the inner eye for 2 minutes.", "Apply an eye gel with caffeine and peptides every morning."},
	"brightness":   {"Apply a thin honey and yogurt mask for 15 minutes twice a week.", "Try a vitamin C serum at 15-20% before sunscreen."},
	"wrinkles":     {"Massage rosehip oil into fine lines with upward strokes for 3 minutes nightly.", "Start retinol 0.3% three nights a week, then increase."},
	"texture":      {"Use a diluted apple cider vinegar toner (1:4) once a week.", "Use a 5% glycolic acid toner three evenings a week."},
	"pore_size":    {"Apply a bentonite clay mask for 10 minutes twice a week.", "Use a 2% salicylic acid cleanser once daily."},
}

// MockProvider returns canned recommendations for the requested focus areas.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Recommend(ctx context.Context, req RecommendRequest) (RecommendResponse, error) {
	if err := ctx.Err(); err != nil {
		return RecommendResponse{}, err
	}

	natural := make([]string, 0, 2)
	products := make([]string, 0, 2)
	for _, area := range req.Focus {
		r, ok := mockRemedies[area.Key]
		if !ok {
			r = mockRemedy{
				natural: fmt.Sprintf("Apply pure aloe vera gel to areas affected by %s for 20 minutes.", area.DisplayName),
				product: fmt.Sprintf("Try a niacinamide 5%% serum to support %s.", area.DisplayName),
			}
		}
		natural = append(natural, r.natural)
		products = append(products, r.product)
	}

	recs := make([]string, 0, len(natural)+len(products))
	recs = append(recs, natural...)
	recs = append(recs, products...)
	if len(recs) == 0 {
		return RecommendResponse{}, ErrEmptyResponse
	}

	return RecommendResponse{
		Recommendations:        recs,
		NaturalRemedies:        natural,
		ProductRecommendations: products,
		Model:                  "mock",
	}, nil
}
