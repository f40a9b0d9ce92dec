package insights

import (
	"context"
	"time"

	"github.com/fdg312/skin-hub/internal/ai"
)

func ptr(v float64) *float64 { return &v }

// series builds ascending daily samples where each feature takes the
// corresponding value from its slice.
func series(values map[string][]float64) []FeatureSample {
	n := 0
	for _, v := range values {
		n = max(n, len(v))
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]FeatureSample, n)
	for i := 0; i < n; i++ {
		features := make(map[string]float64, len(values))
		for k, v := range values {
			if i < len(v) {
				features[k] = v[i]
			}
		}
		out[i] = FeatureSample{
			Date:            start.AddDate(0, 0, i).Format("2006-01-02"),
			Features:        features,
			SleepScore:      70,
			SkinHealthScore: 65,
		}
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func current(features map[string]float64) FeatureSample {
	return FeatureSample{Date: "2026-02-01", Features: features, SleepScore: 72, SkinHealthScore: 68}
}

type stubProvider struct {
	resp  ai.RecommendResponse
	err   error
	block bool
	calls int
	last  ai.RecommendRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Recommend(ctx context.Context, req ai.RecommendRequest) (ai.RecommendResponse, error) {
	s.calls++
	s.last = req
	if s.block {
		<-ctx.Done()
		return ai.RecommendResponse{}, ctx.Err()
	}
	return s.resp, s.err
}

func generativeResponse() ai.RecommendResponse {
	return ai.RecommendResponse{
		Recommendations: []string{
			"Apply aloe vera gel for 20 minutes",
			"Use cold spoons on eyes",
			"Try vitamin C serum 15-20%",
			"Use caffeine eye cream",
			"An extra fifth item",
		},
		NaturalRemedies:        []string{"Apply aloe vera gel for 20 minutes", "Use cold spoons on eyes", "third"},
		ProductRecommendations: []string{"Try vitamin C serum 15-20%", "Use caffeine eye cream"},
		Model:                  "stub-model",
	}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.GenerativeTimeout = time.Second
	return cfg
}

func newTestOrchestrator(p ai.Provider) *RecommendationOrchestrator {
	return NewRecommendationOrchestrator(testConfig(), p, FixedVariation("Focus on innovative skincare"), discardLogger{})
}

func texts(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Text
	}
	return out
}

