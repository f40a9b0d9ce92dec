package insights

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/skin-hub/internal/ai"
	"github.com/fdg312/skin-hub/internal/metrics"
)

type Logger interface {
	Printf(format string, v ...any)
}

// RecommendationSet is the orchestrator's output. On the deterministic path
// only Recommendations is populated.
type RecommendationSet struct {
	Recommendations        []Recommendation
	NaturalRemedies        []string
	ProductRecommendations []string
	LifestyleTip           string

	Path           Path
	Provider       string
	Model          string
	FallbackReason string
}

// RecommendationOrchestrator makes one bounded call to the generative
// provider and replaces its output entirely with rule-based
// recommendations when that call fails.
type RecommendationOrchestrator struct {
	provider  ai.Provider
	variation VariationSource
	cfg       Config
	logger    Logger
}

func NewRecommendationOrchestrator(cfg Config, provider ai.Provider, variation VariationSource, logger Logger) *RecommendationOrchestrator {
	if variation == nil {
		variation = NewRandomVariation(0, nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RecommendationOrchestrator{
		provider:  provider,
		variation: variation,
		cfg:       cfg,
		logger:    logger,
	}
}

// Recommend never fails; provider errors are reported via FallbackReason.
func (o *RecommendationOrchestrator) Recommend(ctx context.Context, current FeatureSample, routine Routine, trends []FeatureTrend, stagnant []StagnationRecord) RecommendationSet {
	if o.provider == nil {
		return o.fallback(current, routine, trends, stagnant, ReasonNoProvider, "")
	}

	areas := focusAreas(current.Features, o.cfg.Catalog)
	req := ai.RecommendRequest{
		Prompt:          buildPrompt(o.variation.Variation(), areas),
		Focus:           areas,
		SleepScore:      current.SleepScore,
		SkinHealthScore: current.SkinHealthScore,
	}

	callCtx := ctx
	if o.cfg.GenerativeTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.cfg.GenerativeTimeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := o.provider.Recommend(callCtx, req)
	if err == nil && len(nonBlank(resp.Recommendations)) == 0 {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		reason := failureReason(err)
		metrics.RecordGenerativeCall(time.Since(started), reason)
		o.logger.Printf("WARN insights: generative recommendations failed reason=%s err=%v, using rule-based fallback", reason, err)
		return o.fallback(current, routine, trends, stagnant, reason, o.provider.Name())
	}
	metrics.RecordGenerativeCall(time.Since(started), "")

	return o.merge(resp, routine)
}

func (o *RecommendationOrchestrator) merge(resp ai.RecommendResponse, routine Routine) RecommendationSet {
	natural := capList(nonBlank(resp.NaturalRemedies), o.cfg.MaxSplitRecs)
	products := capList(nonBlank(resp.ProductRecommendations), o.cfg.MaxSplitRecs)
	generated := capList(nonBlank(resp.Recommendations), o.cfg.MaxGenerativeRecs)

	naturalSet := toSet(natural)
	productSet := toSet(products)

	recs := make([]Recommendation, 0, len(generated)+1)
	for i, text := range generated {
		category := CategoryProduct
		switch {
		case naturalSet[text]:
			category = CategoryNaturalRemedy
		case productSet[text]:
			category = CategoryProduct
		case i < 2:
			category = CategoryNaturalRemedy
		}
		recs = append(recs, Recommendation{Text: text, Origin: OriginGenerative, Category: category})
	}

	tip := LifestyleTip(routine)
	recs = append(recs, Recommendation{Text: tip, Origin: OriginDeterministic, Category: CategoryLifestyle})

	return RecommendationSet{
		Recommendations:        recs,
		NaturalRemedies:        natural,
		ProductRecommendations: products,
		LifestyleTip:           tip,
		Path:                   PathGenerative,
		Provider:               o.provider.Name(),
		Model:                  resp.Model,
	}
}

// fallback builds the rule-based recommendation list: declining features,
// stagnant features, then sleep and water.
func (o *RecommendationOrchestrator) fallback(current FeatureSample, routine Routine, trends []FeatureTrend, stagnant []StagnationRecord, reason, provider string) RecommendationSet {
	catalog := o.cfg.Catalog
	recs := make([]Recommendation, 0, o.cfg.MaxFallbackRecs)
	add := func(text string, category RecommendationCategory) {
		if len(recs) < o.cfg.MaxFallbackRecs {
			recs = append(recs, Recommendation{Text: text, Origin: OriginDeterministic, Category: category})
		}
	}

	declining := 0
	for _, t := range trends {
		if t.Trend != TrendDeclining || declining >= 2 {
			continue
		}
		declining++
		if r, ok := catalog.remedy(t.FeatureName); ok {
			add(fmt.Sprintf(r.declining, catalog.DisplayName(t.FeatureName)), CategoryProduct)
		}
	}

	for i, s := range stagnant {
		if i >= 2 {
			break
		}
		if r, ok := catalog.remedy(s.FeatureName); ok {
			add(fmt.Sprintf(r.stagnant, catalog.DisplayName(s.FeatureName)), CategoryProduct)
		}
	}

	if sleep := valueOr(routine.SleepHours, 8); sleep < 7 {
		add(fmt.Sprintf("🛏️ Increase sleep to 7-8 hours (currently %sh) - critical for skin recovery and repair", formatNumber(sleep)), CategoryLifestyle)
	}
	if water := valueOr(routine.WaterIntake, 8); water < 6 {
		add(fmt.Sprintf("💧 Drink 8+ glasses of water daily (currently %s) for optimal skin hydration", formatNumber(water)), CategoryLifestyle)
	}

	return RecommendationSet{
		Recommendations: recs,
		Path:            PathDeterministic,
		Provider:        provider,
		FallbackReason:  reason,
	}
}

// LifestyleTip picks the single deterministic lifestyle tip; sleep outranks water.
func LifestyleTip(routine Routine) string {
	sleep := valueOr(routine.SleepHours, 0)
	water := valueOr(routine.WaterIntake, 0)

	switch {
	case sleep < 6:
		return "Prioritize getting 7-9 hours of quality sleep each night for optimal skin repair and regeneration."
	case sleep < 7:
		return "Aim for an additional hour of sleep to reach the optimal 7-9 hours for better skin health."
	case sleep <= 9:
		return fmt.Sprintf("Great sleep routine! Continue maintaining %d hours nightly to support your skin's natural recovery.", int(sleep))
	case water < 6:
		return "Increase water intake to 8+ glasses daily to improve skin hydration and flush out toxins."
	default:
		return "Keep up your healthy lifestyle habits – they're supporting your skin's natural glow!"
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, ai.ErrCircuitOpen):
		return ReasonCircuitOpen
	case errors.Is(err, ai.ErrEmptyResponse):
		return ReasonEmptyResponse
	case errors.Is(err, ai.ErrMalformedResponse):
		return ReasonMalformedResponse
	case errors.Is(err, ai.ErrProviderDisabled):
		return ReasonProviderDisabled
	default:
		return ReasonProviderError
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, strings.TrimSpace(item))
		}
	}
	return out
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
