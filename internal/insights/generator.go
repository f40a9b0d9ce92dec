package insights

import (
	"fmt"
	"math"
	"sort"
)

// InsightGenerator turns trends and stagnation flags into a capped,
// priority-ordered list of insights.
type InsightGenerator struct {
	catalog *Catalog
	max     int
}

func NewInsightGenerator(catalog *Catalog, max int) InsightGenerator {
	return InsightGenerator{catalog: catalog, max: max}
}

// Generate emits improvements, then declines, then stagnation alerts, then
// excellent features. Excellence never takes the last free slot.
func (g InsightGenerator) Generate(trends []FeatureTrend, stagnant []StagnationRecord) []Insight {
	out := make([]Insight, 0, g.max)
	add := func(text string, category InsightCategory) bool {
		if len(out) >= g.max {
			return false
		}
		out = append(out, Insight{Text: text, Category: category})
		return true
	}

	for _, t := range trends {
		if t.Trend == TrendImproving && notable(t) {
			name := g.catalog.DisplayName(t.FeatureName)
			if !add(fmt.Sprintf("🎉 %s improved by %.1f points (%.0f%%) - your efforts are paying off!",
				name, math.Abs(t.Change), math.Abs(t.ChangePercentage)), InsightImprovement) {
				return out
			}
		}
	}

	for _, t := range trends {
		if t.Trend == TrendDeclining && notable(t) {
			name := g.catalog.DisplayName(t.FeatureName)
			if !add(fmt.Sprintf("⚠️ %s declined by %.1f points - may need immediate attention",
				name, math.Abs(t.Change)), InsightDecline) {
				return out
			}
		}
	}

	for _, s := range stagnant {
		name := g.catalog.DisplayName(s.FeatureName)
		if !add(fmt.Sprintf("🔄 %s hasn't improved in 2+ weeks - consider trying different products or methods",
			name), InsightStagnation) {
			return out
		}
	}

	for _, t := range trends {
		if len(out) >= g.max-1 {
			break
		}
		if t.CurrentValue >= g.catalog.Band(t.FeatureName).Excellent {
			name := g.catalog.DisplayName(t.FeatureName)
			if !add(fmt.Sprintf("✨ %s is excellent (%.0f/100) - maintain your current routine!",
				name, t.CurrentValue), InsightExcellence) {
				return out
			}
		}
	}

	return out
}

// Baseline describes the lowest-scoring features of a first sample,
// ascending by score.
func (g InsightGenerator) Baseline(features map[string]float64, limit int) []Insight {
	lowest := lowestFeatures(features, 2)
	out := make([]Insight, 0, len(lowest))
	for _, f := range lowest {
		if len(out) >= limit {
			break
		}
		out = append(out, Insight{
			Text:     fmt.Sprintf("%s: %.0f/100 - looks good but can improve", g.catalog.DisplayName(f.key), f.score),
			Category: InsightBaseline,
		})
	}
	return out
}

func notable(t FeatureTrend) bool {
	return t.Significance == SignificanceSignificant || t.Significance == SignificanceModerate
}

type scoredFeature struct {
	key   string
	score float64
}

// lowestFeatures returns up to n features ascending by score, ties by key.
func lowestFeatures(features map[string]float64, n int) []scoredFeature {
	all := make([]scoredFeature, 0, len(features))
	for k, v := range features {
		all = append(all, scoredFeature{key: k, score: v})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score < all[j].score
		}
		return all[i].key < all[j].key
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
