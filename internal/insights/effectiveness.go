package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	minAnalysisPoints   = 3
	scoreTrendBand      = 5.0
	maxRoutineAdvice    = 5
	overallEdgeSamples  = 4
	minProductUsageDays = 2
)

// ProductEffectiveness measures one product by comparing the scores of the
// later half of its usage days with the earlier half.
type ProductEffectiveness struct {
	Product        string  `json:"product_id"`
	Name           string  `json:"product_name"`
	UsageDays      int     `json:"usage_days"`
	SkinBefore     float64 `json:"avg_skin_score_before"`
	SkinAfter      float64 `json:"avg_skin_score_after"`
	SleepBefore    float64 `json:"avg_sleep_score_before"`
	SleepAfter     float64 `json:"avg_sleep_score_after"`
	Trend          Trend   `json:"improvement_trend"`
	Effectiveness  float64 `json:"effectiveness_score"` // -100..100
	Recommendation string  `json:"recommendation"`
}

type RoutineInsightType string

const (
	RoutineProductWorking    RoutineInsightType = "product_working"
	RoutineProductNotWorking RoutineInsightType = "product_not_working"
	RoutineOptimization      RoutineInsightType = "routine_optimization"
)

type RoutineInsight struct {
	Type        RoutineInsightType `json:"insight_type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Confidence  float64            `json:"confidence"`
	Products    []string           `json:"products_involved"`
}

type OverallTrends struct {
	SkinTrend        Trend   `json:"skin_trend"`
	SleepTrend       Trend   `json:"sleep_trend"`
	AverageSkin      float64 `json:"avg_skin_score"`
	AverageSleep     float64 `json:"avg_sleep_score"`
	SkinImprovement  float64 `json:"skin_improvement"`
	SleepImprovement float64 `json:"sleep_improvement"`
}

type AnalysisPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalDays int    `json:"total_days"`
}

// RoutineAnalysis is the product effectiveness report for a window of samples.
type RoutineAnalysis struct {
	InsufficientData bool                   `json:"insufficient_data"`
	Message          string                 `json:"message,omitempty"`
	Period           *AnalysisPeriod        `json:"analysis_period,omitempty"`
	Products         []ProductEffectiveness `json:"product_effectiveness"`
	Insights         []RoutineInsight       `json:"routine_insights"`
	Overall          *OverallTrends         `json:"overall_trends,omitempty"`
	Recommendations  []string               `json:"recommendations"`
}

// AnalyzeRoutine rates every logged product and the routine as a whole.
// Samples must be ascending by date.
func AnalyzeRoutine(samples []FeatureSample) RoutineAnalysis {
	if len(samples) < minAnalysisPoints {
		return RoutineAnalysis{
			InsufficientData: true,
			Message:          fmt.Sprintf("Need at least %d data points for trend analysis", minAnalysisPoints),
			Products:         []ProductEffectiveness{},
			Insights:         []RoutineInsight{},
			Recommendations:  []string{},
		}
	}

	products := productEffectiveness(samples)
	insights := routineInsights(products)
	overall := overallTrends(samples)

	return RoutineAnalysis{
		Period:          periodOf(samples),
		Products:        products,
		Insights:        insights,
		Overall:         &overall,
		Recommendations: routineAdvice(products, insights),
	}
}

func productEffectiveness(samples []FeatureSample) []ProductEffectiveness {
	order, usage := productUsage(samples)
	out := make([]ProductEffectiveness, 0, len(order))
	for _, p := range order {
		used := usage[p]
		if len(used) < minProductUsageDays {
			continue
		}
		mid := len(used) / 2
		skin, sleep := skinScores(used), sleepScores(used)

		pe := ProductEffectiveness{
			Product:     p,
			Name:        ProductName(p),
			UsageDays:   len(used),
			SkinBefore:  round1(mean(skin[:mid])),
			SkinAfter:   round1(mean(skin[mid:])),
			SleepBefore: round1(mean(sleep[:mid])),
			SleepAfter:  round1(mean(sleep[mid:])),
		}
		change := halfSplit(skin)
		pe.Trend = direction(change, scoreTrendBand)
		pe.Effectiveness = round1(math.Max(-100, math.Min(100, change*2)))
		pe.Recommendation = productAdvice(pe.Name, pe.Trend, pe.Effectiveness)
		out = append(out, pe)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Effectiveness > out[j].Effectiveness })
	return out
}

func productAdvice(name string, trend Trend, score float64) string {
	switch trend {
	case TrendImproving:
		if score > 20 {
			return fmt.Sprintf("Excellent! %s is working very well for you. Keep using it consistently.", name)
		}
		return fmt.Sprintf("Good progress! %s is showing positive results. Continue using it.", name)
	case TrendDeclining:
		if score < -20 {
			return fmt.Sprintf("Consider discontinuing %s - it may not be suitable for your skin.", name)
		}
		return fmt.Sprintf("%s isn't showing expected results. Consider adjusting usage or trying alternatives.", name)
	default:
		switch {
		case score > 10:
			return fmt.Sprintf("%s is maintaining your skin well. Continue using it.", name)
		case score < -10:
			return fmt.Sprintf("%s isn't providing significant benefits. Consider alternatives.", name)
		default:
			return fmt.Sprintf("%s is stable. Monitor for longer-term effects.", name)
		}
	}
}

func routineInsights(products []ProductEffectiveness) []RoutineInsight {
	var working, failing, stable []ProductEffectiveness
	for _, p := range products {
		switch {
		case p.Trend == TrendImproving && p.Effectiveness > 10:
			working = append(working, p)
		case p.Trend == TrendDeclining && p.Effectiveness < -10:
			failing = append(failing, p)
		case p.Trend == TrendStable:
			stable = append(stable, p)
		}
	}

	out := []RoutineInsight{}
	if len(working) > 0 {
		out = append(out, RoutineInsight{
			Type:        RoutineProductWorking,
			Title:       "Products Working Well",
			Description: fmt.Sprintf("Your %s are showing positive results. Keep using them consistently.", joinNames(working)),
			Confidence:  0.8,
			Products:    productKeys(working),
		})
	}
	if len(failing) > 0 {
		out = append(out, RoutineInsight{
			Type:        RoutineProductNotWorking,
			Title:       "Products Not Working",
			Description: fmt.Sprintf("Consider discontinuing %s - they may not be suitable for your skin type.", joinNames(failing)),
			Confidence:  0.7,
			Products:    productKeys(failing),
		})
	}
	if len(stable) > 0 {
		out = append(out, RoutineInsight{
			Type:        RoutineOptimization,
			Title:       "Stable Products",
			Description: fmt.Sprintf("Your %s are maintaining your skin. Consider adding new active ingredients for further improvement.", joinNames(stable)),
			Confidence:  0.6,
			Products:    productKeys(stable),
		})
	}
	return out
}

func routineAdvice(products []ProductEffectiveness, insights []RoutineInsight) []string {
	out := []string{}
	for _, p := range products {
		switch {
		case p.Trend == TrendImproving && p.Effectiveness > 20:
			out = append(out, fmt.Sprintf("Continue using %s - it's showing excellent results!", p.Name))
		case p.Trend == TrendDeclining && p.Effectiveness < -20:
			out = append(out, fmt.Sprintf("Consider replacing %s with a different product", p.Name))
		case p.Trend == TrendStable && p.Effectiveness < 5:
			out = append(out, fmt.Sprintf("Try increasing frequency or concentration of %s", p.Name))
		}
	}
	if len(products) == 0 {
		out = append(out, "Start tracking your skincare routine to see which products work best for you")
	}
	for _, in := range insights {
		out = append(out, in.Description)
	}
	return capList(out, maxRoutineAdvice)
}

func overallTrends(samples []FeatureSample) OverallTrends {
	skin, sleep := skinScores(samples), sleepScores(samples)
	return OverallTrends{
		SkinTrend:        scoreTrend(skin),
		SleepTrend:       scoreTrend(sleep),
		AverageSkin:      round1(mean(skin)),
		AverageSleep:     round1(mean(sleep)),
		SkinImprovement:  round1(edgeChange(skin)),
		SleepImprovement: round1(edgeChange(sleep)),
	}
}

// scoreTrend classifies a score series by its half-split change.
func scoreTrend(scores []float64) Trend {
	if len(scores) < 2 {
		return TrendInsufficientData
	}
	return direction(halfSplit(scores), scoreTrendBand)
}

// edgeChange compares the mean of the last four values with the first four.
func edgeChange(scores []float64) float64 {
	if len(scores) < overallEdgeSamples {
		return 0
	}
	return mean(scores[len(scores)-overallEdgeSamples:]) - mean(scores[:overallEdgeSamples])
}

func periodOf(samples []FeatureSample) *AnalysisPeriod {
	if len(samples) == 0 {
		return nil
	}
	return &AnalysisPeriod{StartDate: samples[0].Date, EndDate: samples[len(samples)-1].Date, TotalDays: len(samples)}
}

func joinNames(products []ProductEffectiveness) string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func productKeys(products []ProductEffectiveness) []string {
	keys := make([]string, len(products))
	for i, p := range products {
		keys[i] = p.Product
	}
	return keys
}
