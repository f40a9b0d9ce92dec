package insights

import (
	"context"
	"fmt"

	"github.com/fdg312/skin-hub/internal/ai"
	"github.com/fdg312/skin-hub/internal/metrics"
)

const (
	summaryModel    = "Hybrid (Local + AI)"
	summaryProvider = "internal + LLM"
)

// firstTimeTips fill an empty baseline recommendation list.
var firstTimeTips = []string{
	"📊 Take daily selfies to track trends and see what works for you",
	"💤 Aim for 7-8 hours of quality sleep each night",
	"💧 Stay hydrated with 8+ glasses of water daily",
}

type Option func(*Composer)

// WithVariationSource replaces the prompt variation source.
func WithVariationSource(v VariationSource) Option {
	return func(c *Composer) { c.variation = v }
}

func WithLogger(l Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// Composer is the entry point of the summary engine. It is safe for
// concurrent use.
type Composer struct {
	cfg          Config
	analyzer     TrendAnalyzer
	detector     StagnationDetector
	generator    InsightGenerator
	orchestrator *RecommendationOrchestrator

	variation VariationSource
	logger    Logger
}

func NewComposer(cfg Config, provider ai.Provider, opts ...Option) *Composer {
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	c := &Composer{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}

	c.analyzer = NewTrendAnalyzer(cfg.Thresholds)
	c.detector = NewStagnationDetector(cfg.Thresholds, cfg.Catalog)
	c.generator = NewInsightGenerator(cfg.Catalog, cfg.MaxInsights)
	c.orchestrator = NewRecommendationOrchestrator(cfg, provider, c.variation, c.logger)
	return c
}

// Compose builds the summary for current given ascending history. It always
// returns a usable result.
func (c *Composer) Compose(ctx context.Context, current FeatureSample, routine Routine, history []FeatureSample) SummaryResult {
	var result SummaryResult
	if len(history) < 2 {
		result = c.composeBaseline(ctx, current, routine, len(history))
	} else {
		result = c.composeFull(ctx, current, routine, history)
	}
	metrics.RecordSummary(string(result.Provenance.Variant), string(result.Provenance.Path))
	return result
}

func (c *Composer) composeBaseline(ctx context.Context, current FeatureSample, routine Routine, points int) SummaryResult {
	insights := c.generator.Baseline(current.Features, c.cfg.MaxBaselineInsights)
	recs := c.orchestrator.Recommend(ctx, current, routine, nil, nil)

	recommendations := recs.Recommendations
	if len(recommendations) > c.cfg.MaxBaselineRecs {
		recommendations = recommendations[:c.cfg.MaxBaselineRecs]
	}
	if len(recommendations) == 0 {
		for _, tip := range firstTimeTips {
			recommendations = append(recommendations, Recommendation{Text: tip, Origin: OriginDeterministic, Category: CategoryLifestyle})
		}
	}

	return SummaryResult{
		DailySummary: fmt.Sprintf("Welcome! Your baseline Sleep Score is %s and Skin Health Score is %s. Keep taking daily selfies to track your progress! 🌟",
			formatNumber(current.SleepScore), formatNumber(current.SkinHealthScore)),
		Status:                 "Welcome",
		KeyInsights:            insights,
		Recommendations:        recommendations,
		NaturalRemedies:        nonNil(recs.NaturalRemedies),
		ProductRecommendations: nonNil(recs.ProductRecommendations),
		LifestyleTip:           recs.LifestyleTip,
		TrendAnalysis: TrendBuckets{
			Improving: []string{},
			Declining: []string{},
			Stagnant:  []string{},
			Stable:    sortedKeys(current.Features),
		},
		Provenance: c.provenance(recs, points, VariantBaseline),
	}
}

func (c *Composer) composeFull(ctx context.Context, current FeatureSample, routine Routine, history []FeatureSample) SummaryResult {
	trends := c.analyzer.Analyze(history, current)
	stagnant := c.detector.Detect(history, current)
	insights := c.generator.Generate(trends, stagnant)
	recs := c.orchestrator.Recommend(ctx, current, routine, trends, stagnant)

	buckets := bucketTrends(trends, stagnant)
	status, message := c.dailySummary(current, len(buckets.Improving), len(buckets.Declining), len(stagnant))

	return SummaryResult{
		DailySummary:           message,
		Status:                 status,
		KeyInsights:            insights,
		Recommendations:        recs.Recommendations,
		NaturalRemedies:        nonNil(recs.NaturalRemedies),
		ProductRecommendations: nonNil(recs.ProductRecommendations),
		LifestyleTip:           recs.LifestyleTip,
		TrendAnalysis:          buckets,
		FeatureTrends:          trends,
		Provenance:             c.provenance(recs, len(history), VariantFull),
	}
}

// dailySummary returns the status label and the full message; the first
// matching rule wins.
func (c *Composer) dailySummary(current FeatureSample, improving, declining, stagnant int) (string, string) {
	sleep := formatNumber(current.SleepScore)
	skin := formatNumber(current.SkinHealthScore)

	switch {
	case improving >= 3 && declining == 0:
		return "Excellent progress", fmt.Sprintf("Excellent progress! Your Sleep Score is %s and Skin Health is %s. Multiple features are improving—your routine is working beautifully! Keep going! 🌟", sleep, skin)
	case improving >= 2 && declining <= 1:
		return "Good progress", fmt.Sprintf("Good progress! Sleep Score: %s, Skin Health: %s. You're seeing positive changes in %d areas. Stay consistent with your routine! 💪", sleep, skin, improving)
	case stagnant >= 3:
		return "Time for changes", fmt.Sprintf("Time for changes. Sleep Score: %s, Skin Health: %s. Some features have plateaued for 2+ weeks. Consider adjusting your routine for better results. 🔄", sleep, skin)
	case declining >= 2:
		return "Needs attention", fmt.Sprintf("Needs attention. Sleep Score: %s, Skin Health: %s. %d features are declining. Review your sleep and skincare routine—something may need adjustment. ⚠️", sleep, skin, declining)
	default:
		return "Steady progress", fmt.Sprintf("Steady progress. Sleep Score: %s, Skin Health: %s. Your routine is maintaining stability. Stay consistent for continued results! ✨", sleep, skin)
	}
}

func (c *Composer) provenance(recs RecommendationSet, points int, variant Variant) Provenance {
	model := recs.Model
	if model == "" {
		model = summaryModel
	}
	provider := summaryProvider
	if recs.Provider != "" {
		provider = summaryProvider + " (" + recs.Provider + ")"
	}
	return Provenance{
		DataPointsAnalyzed: points,
		Variant:            variant,
		Path:               recs.Path,
		Provider:           provider,
		Model:              model,
		FallbackReason:     recs.FallbackReason,
	}
}

// bucketTrends groups feature names by trend. Stagnant holds the detector's
// flags plus any feature whose trend is flat, without duplicates.
func bucketTrends(trends []FeatureTrend, stagnant []StagnationRecord) TrendBuckets {
	b := TrendBuckets{
		Improving: []string{},
		Declining: []string{},
		Stagnant:  stagnantNames(stagnant),
		Stable:    []string{},
	}
	seen := toSet(b.Stagnant)
	for _, t := range trends {
		switch t.Trend {
		case TrendImproving:
			b.Improving = append(b.Improving, t.FeatureName)
		case TrendDeclining:
			b.Declining = append(b.Declining, t.FeatureName)
		case TrendStable:
			b.Stable = append(b.Stable, t.FeatureName)
		case TrendStagnant:
			if !seen[t.FeatureName] {
				b.Stagnant = append(b.Stagnant, t.FeatureName)
				seen[t.FeatureName] = true
			}
		}
	}
	return b
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
