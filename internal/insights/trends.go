package insights

import (
	"math"
	"sort"
)

// TrendAnalyzer compares a feature's recent window against an earlier window.
type TrendAnalyzer struct {
	th Thresholds
}

func NewTrendAnalyzer(th Thresholds) TrendAnalyzer {
	return TrendAnalyzer{th: th}
}

// Analyze returns one trend per feature of current, in sorted key order.
// history must be ascending by date.
func (a TrendAnalyzer) Analyze(history []FeatureSample, current FeatureSample) []FeatureTrend {
	recent, comparison := a.windows(history)

	keys := sortedKeys(current.Features)
	trends := make([]FeatureTrend, 0, len(keys))
	for _, key := range keys {
		value := current.Features[key]

		recentAvg := value
		if len(recent) > 0 {
			recentAvg = windowMean(recent, key)
		}
		previousAvg := value
		if len(comparison) > 0 {
			previousAvg = windowMean(comparison, key)
		}

		change := recentAvg - previousAvg
		pct := 0.0
		if previousAvg != 0 {
			pct = change / math.Abs(previousAvg) * 100
		}

		trend, significance := a.Classify(change)
		trends = append(trends, FeatureTrend{
			FeatureName:      key,
			CurrentValue:     value,
			PreviousValue:    previousAvg,
			Change:           change,
			ChangePercentage: pct,
			Trend:            trend,
			Significance:     significance,
			DurationDays:     len(recent),
		})
	}
	return trends
}

// Classify applies the trend ladder to a change; the first matching rung wins.
func (a TrendAnalyzer) Classify(change float64) (Trend, Significance) {
	switch {
	case change >= a.th.Improvement:
		return TrendImproving, a.magnitude(change)
	case change <= a.th.Decline:
		return TrendDeclining, a.magnitude(change)
	case math.Abs(change) <= a.th.Stagnation:
		return TrendStagnant, SignificanceNone
	default:
		return TrendStable, SignificanceMinor
	}
}

func (a TrendAnalyzer) magnitude(change float64) Significance {
	if math.Abs(change) >= a.th.Significant {
		return SignificanceSignificant
	}
	return SignificanceModerate
}

// windows splits history into the recent tail and the comparison window.
func (a TrendAnalyzer) windows(history []FeatureSample) (recent, comparison []FeatureSample) {
	n := len(history)
	if n == 0 {
		return nil, nil
	}

	recentSize := min(a.th.RecentWindow, n)
	recent = history[n-recentSize:]

	switch {
	case n >= a.th.RecentWindow+a.th.ComparisonWindow:
		comparison = history[n-recentSize-a.th.ComparisonWindow : n-recentSize]
	case n == 1:
		comparison = history[:1]
	default:
		comparison = history[:n/2]
	}
	return recent, comparison
}

// windowMean averages a feature across samples; a missing value counts as 0.
func windowMean(samples []FeatureSample, key string) float64 {
	var sum float64
	for _, s := range samples {
		sum += s.Features[key]
	}
	return sum / float64(len(samples))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
