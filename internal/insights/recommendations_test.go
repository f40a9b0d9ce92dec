package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/skin-hub/internal/ai"
)

func TestLifestyleTipLadder(t *testing.T) {
	tests := []struct {
		name    string
		routine Routine
		want    string
	}{
		{"short sleep beats low water", Routine{SleepHours: ptr(5), WaterIntake: ptr(8)},
			"Prioritize getting 7-9 hours of quality sleep each night for optimal skin repair and regeneration."},
		{"missing sleep counts as none", Routine{},
			"Prioritize getting 7-9 hours of quality sleep each night for optimal skin repair and regeneration."},
		{"six and a half hours", Routine{SleepHours: ptr(6.5)},
			"Aim for an additional hour of sleep to reach the optimal 7-9 hours for better skin health."},
		{"seven hours", Routine{SleepHours: ptr(7), WaterIntake: ptr(2)},
			"Great sleep routine! Continue maintaining 7 hours nightly to support your skin's natural recovery."},
		{"nine hours truncates", Routine{SleepHours: ptr(9)},
			"Great sleep routine! Continue maintaining 9 hours nightly to support your skin's natural recovery."},
		{"long sleep low water", Routine{SleepHours: ptr(10), WaterIntake: ptr(4)},
			"Increase water intake to 8+ glasses daily to improve skin hydration and flush out toxins."},
		{"long sleep enough water", Routine{SleepHours: ptr(10), WaterIntake: ptr(8)},
			"Keep up your healthy lifestyle habits – they're supporting your skin's natural glow!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LifestyleTip(tt.routine); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecommendGenerativePath(t *testing.T) {
	stub := &stubProvider{resp: generativeResponse()}
	o := newTestOrchestrator(stub)

	cur := current(map[string]float64{"brightness": 80, "texture": 20, "dark_circles": 55})
	got := o.Recommend(context.Background(), cur, Routine{SleepHours: ptr(5), WaterIntake: ptr(8)}, nil, nil)

	if got.Path != PathGenerative || got.FallbackReason != "" {
		t.Fatalf("expected generative path, got %s (%s)", got.Path, got.FallbackReason)
	}
	if len(got.Recommendations) != 5 {
		t.Fatalf("expected 4 generative + 1 lifestyle, got %d: %v", len(got.Recommendations), texts(got.Recommendations))
	}
	for i, rec := range got.Recommendations[:4] {
		if rec.Origin != OriginGenerative {
			t.Fatalf("recommendation %d: expected generative origin, got %s", i, rec.Origin)
		}
	}
	wantCategories := []RecommendationCategory{CategoryNaturalRemedy, CategoryNaturalRemedy, CategoryProduct, CategoryProduct, CategoryLifestyle}
	for i, c := range wantCategories {
		if got.Recommendations[i].Category != c {
			t.Fatalf("recommendation %d: expected %s, got %s", i, c, got.Recommendations[i].Category)
		}
	}
	last := got.Recommendations[4]
	if last.Origin != OriginDeterministic || !strings.HasPrefix(last.Text, "Prioritize getting 7-9 hours") {
		t.Fatalf("expected sleep lifestyle tip last, got %+v", last)
	}
	if got.LifestyleTip != last.Text {
		t.Fatalf("expected lifestyle tip %q, got %q", last.Text, got.LifestyleTip)
	}
	if len(got.NaturalRemedies) != 2 || len(got.ProductRecommendations) != 2 {
		t.Fatalf("expected split lists capped at 2, got %d/%d", len(got.NaturalRemedies), len(got.ProductRecommendations))
	}
	if got.Model != "stub-model" || got.Provider != "stub" {
		t.Fatalf("unexpected provenance %s/%s", got.Provider, got.Model)
	}

	if len(stub.last.Focus) != 2 || stub.last.Focus[0].Key != "texture" || stub.last.Focus[1].Key != "dark_circles" {
		t.Fatalf("expected focus on texture then dark_circles, got %+v", stub.last.Focus)
	}
	if !strings.HasPrefix(stub.last.Prompt, "Focus on innovative skincare for Skin Texture (20/100) and Dark Circles (55/100).") {
		t.Fatalf("unexpected prompt opening: %q", strings.SplitN(stub.last.Prompt, "\n", 2)[0])
	}
	for _, rule := range []string{"NO sleep advice", "NO water/hydration advice", "NO food/diet suggestions"} {
		if !strings.Contains(stub.last.Prompt, rule) {
			t.Fatalf("prompt is missing %q", rule)
		}
	}
}

func TestRecommendPositionalCategoriesWithoutSplit(t *testing.T) {
	stub := &stubProvider{resp: ai.RecommendResponse{Recommendations: []string{"a", "b", "c"}}}
	got := newTestOrchestrator(stub).Recommend(context.Background(), current(map[string]float64{"texture": 30}), Routine{}, nil, nil)

	want := []RecommendationCategory{CategoryNaturalRemedy, CategoryNaturalRemedy, CategoryProduct, CategoryLifestyle}
	for i, c := range want {
		if got.Recommendations[i].Category != c {
			t.Fatalf("recommendation %d: expected %s, got %s", i, c, got.Recommendations[i].Category)
		}
	}
	if len(got.NaturalRemedies) != 0 || len(got.ProductRecommendations) != 0 {
		t.Fatal("split lists must stay empty when the provider does not split")
	}
}

func TestRecommendFallsBackOnFailure(t *testing.T) {
	trends := []FeatureTrend{
		{FeatureName: "texture", Trend: TrendDeclining, Significance: SignificanceSignificant},
		{FeatureName: "brightness", Trend: TrendDeclining, Significance: SignificanceModerate},
		{FeatureName: "puffiness", Trend: TrendDeclining, Significance: SignificanceModerate},
	}
	stagnant := []StagnationRecord{{FeatureName: "wrinkles"}, {FeatureName: "pore_size"}, {FeatureName: "dark_circles"}}
	routine := Routine{SleepHours: ptr(5), WaterIntake: ptr(4)}
	cur := current(map[string]float64{"texture": 40, "brightness": 50, "puffiness": 45, "wrinkles": 35, "pore_size": 30, "dark_circles": 50})

	tests := []struct {
		name       string
		provider   *stubProvider
		wantReason string
	}{
		{"provider error", &stubProvider{err: errors.New("boom")}, ReasonProviderError},
		{"empty recommendations", &stubProvider{resp: ai.RecommendResponse{Recommendations: []string{" ", ""}}}, ReasonEmptyResponse},
		{"absent recommendations", &stubProvider{resp: ai.RecommendResponse{NaturalRemedies: []string{"x"}}}, ReasonEmptyResponse},
		{"malformed payload", &stubProvider{err: fmt.Errorf("%w: bad json", ai.ErrMalformedResponse)}, ReasonMalformedResponse},
		{"circuit open", &stubProvider{err: ai.ErrCircuitOpen}, ReasonCircuitOpen},
		{"disabled", &stubProvider{err: ai.ErrProviderDisabled}, ReasonProviderDisabled},
	}

	want := []string{
		"🧽 Skin Texture declining - use AHA/BHA exfoliant, add hyaluronic acid",
		"✨ Skin Brightness declining - add vitamin C serum, use SPF 50+ daily",
		"📏 Fine Lines stagnant - try peptide serum or increase retinol strength",
		"🔍 Pore Size stagnant - try niacinamide serum, double cleanse",
		"🛏️ Increase sleep to 7-8 hours (currently 5h) - critical for skin recovery and repair",
		"💧 Drink 8+ glasses of water daily (currently 4) for optimal skin hydration",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestOrchestrator(tt.provider).Recommend(context.Background(), cur, routine, trends, stagnant)

			if got.Path != PathDeterministic || got.FallbackReason != tt.wantReason {
				t.Fatalf("expected deterministic/%s, got %s/%s", tt.wantReason, got.Path, got.FallbackReason)
			}
			if len(got.Recommendations) > 8 {
				t.Fatalf("fallback exceeds cap: %d", len(got.Recommendations))
			}
			for _, rec := range got.Recommendations {
				if rec.Origin != OriginDeterministic {
					t.Fatalf("fallback contains non-deterministic entry %+v", rec)
				}
			}
			if len(got.NaturalRemedies) != 0 || len(got.ProductRecommendations) != 0 || got.LifestyleTip != "" {
				t.Fatalf("fallback must not populate split lists or lifestyle tip: %+v", got)
			}
			gotTexts := texts(got.Recommendations)
			if strings.Join(gotTexts, "\n") != strings.Join(want, "\n") {
				t.Fatalf("unexpected fallback list:\n got %q\nwant %q", gotTexts, want)
			}
		})
	}
}

func TestRecommendTimesOut(t *testing.T) {
	cfg := testConfig()
	cfg.GenerativeTimeout = 20 * time.Millisecond
	stub := &stubProvider{block: true}
	o := NewRecommendationOrchestrator(cfg, stub, FixedVariation("x"), discardLogger{})

	started := time.Now()
	got := o.Recommend(context.Background(), current(map[string]float64{"texture": 30}), Routine{}, nil, nil)

	if time.Since(started) > time.Second {
		t.Fatal("timeout was not enforced")
	}
	if got.Path != PathDeterministic || got.FallbackReason != ReasonTimeout {
		t.Fatalf("expected timeout fallback, got %s/%s", got.Path, got.FallbackReason)
	}
	if stub.calls != 1 {
		t.Fatalf("generative call must not be retried, calls=%d", stub.calls)
	}
}

func TestFallbackDefaultsAndUnknownFeatures(t *testing.T) {
	o := newTestOrchestrator(&stubProvider{err: errors.New("down")})
	trends := []FeatureTrend{{FeatureName: "redness", Trend: TrendDeclining, Significance: SignificanceSignificant}}

	got := o.Recommend(context.Background(), current(map[string]float64{"redness": 20}), Routine{}, trends, nil)

	if len(got.Recommendations) != 0 {
		t.Fatalf("expected no recommendations for unknown feature and default routine, got %q", texts(got.Recommendations))
	}
}

func TestRecommendWithoutProvider(t *testing.T) {
	o := NewRecommendationOrchestrator(testConfig(), nil, FixedVariation("x"), discardLogger{})
	got := o.Recommend(context.Background(), current(nil), Routine{SleepHours: ptr(6)}, nil, nil)
	if got.FallbackReason != ReasonNoProvider || len(got.Recommendations) != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestFocusAreasDefaults(t *testing.T) {
	areas := focusAreas(nil, DefaultCatalog())
	if areas[0].Key != "skin_health" || areas[1].Key != "texture" {
		t.Fatalf("expected generic focus areas, got %+v", areas)
	}
	if areas[0].Guidance != "Focus on overall skin health" || areas[0].Score != 0 {
		t.Fatalf("unexpected generic area %+v", areas[0])
	}

	areas = focusAreas(map[string]float64{"puffiness": 44}, DefaultCatalog())
	if areas[0].Key != "puffiness" || areas[1].Key != "texture" {
		t.Fatalf("expected puffiness then texture, got %+v", areas)
	}
}

func TestRandomVariationIsSeeded(t *testing.T) {
	a := NewRandomVariation(42, nil)
	b := NewRandomVariation(42, nil)
	allowed := toSet(DefaultVariations)

	for i := 0; i < 20; i++ {
		va, vb := a.Variation(), b.Variation()
		if va != vb {
			t.Fatalf("draw %d: same seed produced %q and %q", i, va, vb)
		}
		if !allowed[va] {
			t.Fatalf("unexpected variation %q", va)
		}
	}
}
