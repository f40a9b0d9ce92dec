package insights

import (
	"fmt"
	"math"
	"strings"
)

const (
	minWeeklyPoints  = 2
	weeklyTrendBand  = 5.0
	weeklyStrongMove = 10.0
)

type Consistency string

const (
	ConsistencyVery         Consistency = "very_consistent"
	ConsistencyConsistent   Consistency = "consistent"
	ConsistencyVariable     Consistency = "variable"
	ConsistencyInconsistent Consistency = "inconsistent"
	ConsistencyUnknown      Consistency = "insufficient_data"
)

const (
	weeklyNoDataSummary = "Take more selfies this week to get your weekly analysis!"
	weeklyNoDataInsight = "Take more selfies this week to get personalized insights!"
	weeklyNoDataAdvice  = "Take more selfies this week to get personalized recommendations!"
)

var weeklyFeatureRemedies = map[string]string{
	"dark_circles": "try adding a vitamin C serum or eye cream with caffeine",
	"puffiness":    "try a niacinamide serum or caffeine-based eye treatment",
	"brightness":   "try a vitamin C serum or AHA exfoliant",
	"wrinkles":     "try a retinol serum or peptide treatment",
	"texture":      "try an AHA or BHA exfoliant",
	"pore_size":    "try a BHA cleanser or niacinamide serum",
}

// WeeklyFeatureTrend compares the last value of a feature in the window with the first.
type WeeklyFeatureTrend struct {
	Feature     string  `json:"feature"`
	Improvement float64 `json:"improvement"`
	Current     float64 `json:"current"`
	Average     float64 `json:"average"`
	Trend       Trend   `json:"trend"`
}

type WeeklyTrends struct {
	SleepImprovement float64              `json:"sleep_improvement"`
	SkinImprovement  float64              `json:"skin_improvement"`
	AverageSleep     float64              `json:"avg_sleep_score"`
	AverageSkin      float64              `json:"avg_skin_score"`
	Features         []WeeklyFeatureTrend `json:"feature_trends"`
	TotalDays        int                  `json:"total_days"`
	Consistency      Consistency          `json:"score_consistency"`
}

// WeeklyAnalysis combines the score trends of a short window with the
// routine and correlation reports computed over the same samples.
type WeeklyAnalysis struct {
	InsufficientData bool               `json:"insufficient_data"`
	Summary          string             `json:"weekly_summary"`
	Insights         []string           `json:"weekly_insights"`
	Recommendations  []string           `json:"weekly_recommendations"`
	Trends           *WeeklyTrends      `json:"trends,omitempty"`
	Routine          *RoutineAnalysis   `json:"routine_effectiveness,omitempty"`
	Correlations     *CorrelationReport `json:"smart_analysis,omitempty"`
	Period           string             `json:"analysis_period"`
	DataPoints       int                `json:"data_points"`
}

type WeeklyAnalyzer struct {
	catalog     *Catalog
	correlation CorrelationAnalyzer
}

func NewWeeklyAnalyzer(catalog *Catalog) WeeklyAnalyzer {
	return WeeklyAnalyzer{catalog: catalog, correlation: NewCorrelationAnalyzer(catalog)}
}

// Analyze expects samples ascending by date.
func (a WeeklyAnalyzer) Analyze(samples []FeatureSample) WeeklyAnalysis {
	if len(samples) < minWeeklyPoints {
		return WeeklyAnalysis{
			InsufficientData: true,
			Summary:          weeklyNoDataSummary,
			Insights:         []string{weeklyNoDataInsight},
			Recommendations:  []string{weeklyNoDataAdvice},
			Period:           "Insufficient data",
		}
	}

	trends := a.trends(samples)
	routine := AnalyzeRoutine(samples)
	correlations := a.correlation.Analyze(samples)

	return WeeklyAnalysis{
		Summary:         weeklySummary(trends),
		Insights:        a.insights(trends, routine, correlations),
		Recommendations: a.recommendations(trends, correlations),
		Trends:          &trends,
		Routine:         &routine,
		Correlations:    &correlations,
		Period:          fmt.Sprintf("Last %d days", len(samples)),
		DataPoints:      len(samples),
	}
}

func (a WeeklyAnalyzer) trends(samples []FeatureSample) WeeklyTrends {
	sleep, skin := sleepScores(samples), skinScores(samples)
	out := WeeklyTrends{
		SleepImprovement: round1(sleep[len(sleep)-1] - sleep[0]),
		SkinImprovement:  round1(skin[len(skin)-1] - skin[0]),
		AverageSleep:     round1(mean(sleep)),
		AverageSkin:      round1(mean(skin)),
		Features:         []WeeklyFeatureTrend{},
		TotalDays:        len(samples),
		Consistency:      consistency(sleep, skin),
	}

	for _, f := range a.catalog.Features() {
		values := featureValues(samples, f)
		if len(values) < 2 {
			continue
		}
		change := values[len(values)-1] - values[0]
		out.Features = append(out.Features, WeeklyFeatureTrend{
			Feature:     f,
			Improvement: round1(change),
			Current:     values[len(values)-1],
			Average:     round1(mean(values)),
			Trend:       direction(change, weeklyTrendBand),
		})
	}
	return out
}

// consistency grades the mean population variance of the two score series.
func consistency(sleep, skin []float64) Consistency {
	if len(sleep) < 3 {
		return ConsistencyUnknown
	}
	v := (populationVariance(sleep) + populationVariance(skin)) / 2
	switch {
	case v < 50:
		return ConsistencyVery
	case v < 100:
		return ConsistencyConsistent
	case v < 200:
		return ConsistencyVariable
	default:
		return ConsistencyInconsistent
	}
}

func populationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return ss / float64(len(values))
}

func weeklySummary(t WeeklyTrends) string {
	sleep, skin := t.SleepImprovement, t.SkinImprovement

	var parts []string
	switch {
	case sleep > 5 && skin > 5:
		parts = append(parts, fmt.Sprintf("Great week! Your sleep improved by %.1f points and skin health by %.1f points.", sleep, skin))
	case sleep > 0 || skin > 0:
		parts = append(parts, fmt.Sprintf("Positive progress this week - sleep improved by %.1f points, skin by %.1f points.", sleep, skin))
	case sleep < -5 || skin < -5:
		parts = append(parts, fmt.Sprintf("Challenging week - sleep declined by %.1f points, skin by %.1f points.", math.Abs(sleep), math.Abs(skin)))
	default:
		parts = append(parts, "Stable week with consistent scores.")
	}

	switch t.Consistency {
	case ConsistencyVery:
		parts = append(parts, "Your routine is very consistent - keep it up!")
	case ConsistencyInconsistent:
		parts = append(parts, "Your scores are quite variable - consider establishing a more consistent routine.")
	}
	return strings.Join(parts, " ")
}

func (a WeeklyAnalyzer) insights(t WeeklyTrends, routine RoutineAnalysis, c CorrelationReport) []string {
	var out []string

	if !c.InsufficientData {
		for _, p := range c.Products {
			if p.Confidence <= 0.6 {
				continue
			}
			switch {
			case p.Effectiveness > 15:
				if best := a.strongFeatures(p.FeatureImpacts); len(best) > 0 {
					out = append(out, fmt.Sprintf("• %s is working great! It's improving your %s", p.Name, strings.Join(best, ", ")))
				} else {
					out = append(out, fmt.Sprintf("• %s is showing excellent results - keep using it!", p.Name))
				}
			case p.Effectiveness > 5:
				out = append(out, fmt.Sprintf("• %s is helping your skin - consider using it more consistently", p.Name))
			case p.Effectiveness < -5:
				out = append(out, fmt.Sprintf("• %s might not be the right fit for your skin - consider switching", p.Name))
			}
		}
		for _, in := range c.Insights {
			if in.Confidence > 0.7 {
				out = append(out, "• "+in.Description)
			}
		}
	}

	for _, f := range t.Features {
		name := a.catalog.DisplayName(f.Feature)
		switch {
		case f.Trend == TrendImproving && f.Improvement > weeklyStrongMove:
			if related := relatedProducts(c, f.Feature); len(related) > 0 {
				out = append(out, fmt.Sprintf("• %s improved by %.1f points - your %s is working!", name, f.Improvement, strings.Join(related, ", ")))
			} else {
				out = append(out, fmt.Sprintf("• %s improved significantly this week (+%.1f points)", name, f.Improvement))
			}
		case f.Trend == TrendDeclining && f.Improvement < -weeklyStrongMove:
			out = append(out, fmt.Sprintf("• %s declined this week (%.1f points) - consider adjusting your routine", name, f.Improvement))
		}
	}

	if routine.Overall != nil {
		switch routine.Overall.SkinTrend {
		case TrendImproving:
			out = append(out, "• Your overall routine is showing positive results - keep it up!")
		case TrendDeclining:
			out = append(out, "• Your routine needs adjustment - consider trying different products or habits")
		}
	}

	switch t.Consistency {
	case ConsistencyVery:
		out = append(out, "• Your routine is very consistent - this is great for long-term results!")
	case ConsistencyInconsistent:
		out = append(out, "• Your scores vary a lot - try to maintain a more consistent routine")
	}

	if len(out) == 0 {
		return []string{"Keep tracking your routine to get more insights!"}
	}
	return out
}

func (a WeeklyAnalyzer) recommendations(t WeeklyTrends, c CorrelationReport) []string {
	var out []string

	if !c.InsufficientData {
		for _, p := range c.Products {
			if p.Confidence <= 0.6 {
				continue
			}
			switch {
			case p.Effectiveness > 15:
				if best := a.strongFeatures(p.FeatureImpacts); len(best) > 0 {
					out = append(out, fmt.Sprintf("Keep using %s - it's great for your %s", p.Name, strings.Join(best, ", ")))
				} else {
					out = append(out, fmt.Sprintf("Continue using %s - it's showing excellent results", p.Name))
				}
			case p.Effectiveness > 5:
				out = append(out, fmt.Sprintf("Use %s more consistently - it's helping your skin", p.Name))
			case p.Effectiveness < -5:
				out = append(out, fmt.Sprintf("Consider switching from %s - it may not be right for your skin type", p.Name))
			}
		}
		for _, in := range c.Insights {
			if in.Confidence > 0.7 {
				out = append(out, in.Description)
			}
		}
	}

	switch {
	case t.SleepImprovement < -5:
		out = append(out, "Focus on improving sleep quality - your sleep scores declined this week")
	case t.SleepImprovement > 5:
		out = append(out, "Great sleep progress! Continue your current sleep routine")
	}
	switch {
	case t.SkinImprovement < -5:
		out = append(out, "Your skin health declined - consider adjusting your skincare routine")
	case t.SkinImprovement > 5:
		out = append(out, "Excellent skin progress! Your current routine is working well")
	}

	for _, f := range t.Features {
		if f.Trend != TrendDeclining || f.Improvement >= -weeklyStrongMove {
			continue
		}
		name := a.catalog.DisplayName(f.Feature)
		if remedy, ok := weeklyFeatureRemedies[f.Feature]; ok {
			out = append(out, fmt.Sprintf("Address %s - %s", name, remedy))
		} else {
			out = append(out, fmt.Sprintf("Address %s - it declined significantly this week", name))
		}
	}

	if len(out) == 0 {
		return []string{"Keep up your current routine and track progress!"}
	}
	return out
}

// strongFeatures names the features a product moved by more than ten points.
func (a WeeklyAnalyzer) strongFeatures(impacts map[string]float64) []string {
	var out []string
	for _, f := range sortedKeys(impacts) {
		if impacts[f] > weeklyStrongMove {
			out = append(out, a.catalog.DisplayName(f))
		}
	}
	return out
}

func relatedProducts(c CorrelationReport, feature string) []string {
	if c.InsufficientData {
		return nil
	}
	var out []string
	for _, p := range c.Products {
		if p.FeatureImpacts[feature] > 5 {
			out = append(out, p.Name)
		}
	}
	return out
}
