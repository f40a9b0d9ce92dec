package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type productWeight struct {
	product string
	weight  float64
}

// featureProductWeights rates how strongly a product is expected to move a
// feature. Each list is ordered by descending weight.
var featureProductWeights = map[string][]productWeight{
	"dark_circles": {{"vitamin_c_serum", 0.8}, {"niacinamide_serum", 0.7}, {"retinol", 0.6}, {"sunscreen", 0.3}},
	"puffiness":    {{"caffeine_serum", 0.9}, {"niacinamide_serum", 0.8}, {"retinol", 0.5}, {"sunscreen", 0.2}},
	"brightness":   {{"vitamin_c_serum", 0.9}, {"aha_exfoliant", 0.8}, {"retinol", 0.7}, {"sunscreen", 0.4}},
	"wrinkles":     {{"retinol", 0.9}, {"peptide_serum", 0.8}, {"sunscreen", 0.6}, {"vitamin_c_serum", 0.5}},
	"texture":      {{"aha_exfoliant", 0.9}, {"bha_exfoliant", 0.8}, {"retinol", 0.7}, {"niacinamide_serum", 0.6}},
}

var correlatedFeatures = []string{"dark_circles", "puffiness", "brightness", "wrinkles", "texture"}

const contributingWeight = 0.5

type FeatureImprovement struct {
	Feature        string   `json:"feature"`
	Improvement    float64  `json:"improvement"`
	Confidence     float64  `json:"confidence"`
	Products       []string `json:"products_involved"`
	TimePeriod     string   `json:"time_period"`
	Recommendation string   `json:"recommendation"`
}

type ProductImpact struct {
	Product        string             `json:"product_id"`
	Name           string             `json:"product_name"`
	FeatureImpacts map[string]float64 `json:"feature_impacts"`
	Effectiveness  float64            `json:"overall_effectiveness"`
	Confidence     float64            `json:"confidence_score"`
	UsageDays      int                `json:"usage_days"`
	Recommendation string             `json:"recommendation"`
}

type SmartInsightType string

const (
	SmartProductWorking SmartInsightType = "product_working"
	SmartProductHarming SmartInsightType = "product_harming"
)

type SmartInsight struct {
	Type        SmartInsightType `json:"insight_type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Confidence  float64          `json:"confidence"`
	Evidence    []string         `json:"evidence"`
	Priority    string           `json:"priority"`
}

type TrustMetrics struct {
	TrustScore             float64 `json:"trust_score"`
	DataQuality            float64 `json:"data_quality"`
	AverageConfidence      float64 `json:"avg_confidence"`
	HighConfidenceInsights int     `json:"high_confidence_insights"`
	EffectiveProducts      int     `json:"effective_products"`
	TotalInsights          int     `json:"total_insights"`
}

// CorrelationReport links feature movements to the products logged alongside them.
type CorrelationReport struct {
	InsufficientData bool                 `json:"insufficient_data"`
	Message          string               `json:"message,omitempty"`
	Features         []FeatureImprovement `json:"feature_improvements"`
	Products         []ProductImpact      `json:"product_impacts"`
	Insights         []SmartInsight       `json:"smart_insights"`
	Trust            *TrustMetrics        `json:"trust_metrics,omitempty"`
	Period           *AnalysisPeriod      `json:"analysis_period,omitempty"`
}

// CorrelationAnalyzer is stateless apart from the catalog used for names.
type CorrelationAnalyzer struct {
	catalog *Catalog
}

func NewCorrelationAnalyzer(catalog *Catalog) CorrelationAnalyzer {
	return CorrelationAnalyzer{catalog: catalog}
}

// Analyze expects samples ascending by date.
func (a CorrelationAnalyzer) Analyze(samples []FeatureSample) CorrelationReport {
	if len(samples) < minAnalysisPoints {
		return CorrelationReport{
			InsufficientData: true,
			Message:          fmt.Sprintf("Need at least %d data points for feature correlation analysis", minAnalysisPoints),
			Features:         []FeatureImprovement{},
			Products:         []ProductImpact{},
			Insights:         []SmartInsight{},
		}
	}

	features := a.featureImprovements(samples)
	products := a.productImpacts(samples)
	trust := trustMetrics(len(samples), features, products)

	return CorrelationReport{
		Features: features,
		Products: products,
		Insights: a.smartInsights(features, products),
		Trust:    &trust,
		Period:   periodOf(samples),
	}
}

func (a CorrelationAnalyzer) featureImprovements(samples []FeatureSample) []FeatureImprovement {
	used := make(map[string]bool)
	for _, s := range samples {
		for _, p := range ExtractProducts(s.Routine.ProductNotes) {
			used[p] = true
		}
	}

	out := []FeatureImprovement{}
	for _, f := range correlatedFeatures {
		values := featureValues(samples, f)
		if len(values) < minAnalysisPoints {
			continue
		}
		change := halfSplit(values)

		var contributing []string
		for _, pw := range featureProductWeights[f] {
			if pw.weight > contributingWeight && used[pw.product] {
				contributing = append(contributing, pw.product)
			}
		}

		out = append(out, FeatureImprovement{
			Feature:        f,
			Improvement:    round1(change),
			Confidence:     round2(featureConfidence(values, change)),
			Products:       nonNil(contributing),
			TimePeriod:     fmt.Sprintf("%d days", len(values)),
			Recommendation: a.featureAdvice(f, change, contributing),
		})
	}
	return out
}

// featureConfidence blends day-over-day consistency, magnitude and sample count.
func featureConfidence(values []float64, change float64) float64 {
	if len(values) < minAnalysisPoints {
		return 0
	}
	rising := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			rising++
		}
	}
	consistency := float64(rising) / float64(len(values)-1)
	magnitude := math.Min(1, math.Abs(change)/50)
	quality := math.Min(1, float64(len(values))/10)
	return math.Min(1, consistency*0.4+magnitude*0.4+quality*0.2)
}

func (a CorrelationAnalyzer) featureAdvice(feature string, change float64, products []string) string {
	name := strings.ToLower(a.catalog.DisplayName(feature))
	list := productList(products)
	has := len(products) > 0
	abs := math.Abs(change)

	switch {
	case change > 10 && has:
		return fmt.Sprintf("Excellent! Your %s improved by %.1f points. Your %s routine is working well.", name, change, list)
	case change > 10:
		return fmt.Sprintf("Great progress! Your %s improved by %.1f points. Keep up your current routine.", name, change)
	case change > 5 && has:
		return fmt.Sprintf("Good improvement! Your %s got better by %.1f points. Your %s is helping.", name, change, list)
	case change > 5:
		return fmt.Sprintf("Your %s improved by %.1f points. Consider adding targeted products for better results.", name, change)
	case change < -10 && has:
		return fmt.Sprintf("Your %s got worse by %.1f points. Consider adjusting your %s routine.", name, abs, list)
	case change < -10:
		return fmt.Sprintf("Your %s declined by %.1f points. Consider adding products to address this concern.", name, abs)
	case change < -5 && has:
		return fmt.Sprintf("Your %s slightly declined by %.1f points. Monitor your %s usage.", name, abs, list)
	case change < -5:
		return fmt.Sprintf("Your %s declined by %.1f points. Consider adding targeted treatments.", name, abs)
	case has:
		return fmt.Sprintf("Your %s is stable. Your %s routine is maintaining it well.", name, list)
	default:
		return fmt.Sprintf("Your %s is stable. Consider adding products for improvement.", name)
	}
}

func (a CorrelationAnalyzer) productImpacts(samples []FeatureSample) []ProductImpact {
	order, usage := productUsage(samples)
	out := []ProductImpact{}
	for _, p := range order {
		used := usage[p]
		if len(used) < minProductUsageDays {
			continue
		}

		impacts := make(map[string]float64)
		for _, f := range correlatedFeatures {
			values := featureValues(used, f)
			if len(values) < 2 {
				continue
			}
			impacts[f] = round1(halfSplit(values))
		}
		if len(impacts) == 0 {
			continue
		}

		var total float64
		for _, v := range impacts {
			total += v
		}
		overall := total / float64(len(impacts))

		out = append(out, ProductImpact{
			Product:        p,
			Name:           ProductName(p),
			FeatureImpacts: impacts,
			Effectiveness:  round1(overall),
			Confidence:     round2(productConfidence(len(used), impacts, overall)),
			UsageDays:      len(used),
			Recommendation: a.productAdvice(ProductName(p), impacts, overall),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Effectiveness > out[j].Effectiveness })
	return out
}

func productConfidence(usageDays int, impacts map[string]float64, overall float64) float64 {
	if usageDays < minAnalysisPoints {
		return 0.5
	}
	positive := 0
	for _, v := range impacts {
		if v > 0 {
			positive++
		}
	}
	consistency := float64(positive) / float64(len(impacts))
	magnitude := math.Min(1, math.Abs(overall)/30)
	quality := math.Min(1, float64(usageDays)/7)
	return math.Min(1, consistency*0.4+magnitude*0.4+quality*0.2)
}

func (a CorrelationAnalyzer) productAdvice(name string, impacts map[string]float64, overall float64) string {
	switch {
	case overall > 10:
		var best []string
		for _, f := range sortedKeys(impacts) {
			if impacts[f] > 5 {
				best = append(best, strings.ToLower(a.catalog.DisplayName(f)))
			}
		}
		if len(best) > 0 {
			return fmt.Sprintf("Excellent! %s is working very well for your %s. Keep using it consistently.", name, strings.Join(best, ", "))
		}
		return fmt.Sprintf("Excellent! %s is showing great overall results. Keep using it consistently.", name)
	case overall > 5:
		return fmt.Sprintf("Good results! %s is helping your skin. Continue using it.", name)
	case overall < -10:
		return fmt.Sprintf("Consider discontinuing %s - it may not be suitable for your skin type.", name)
	case overall < -5:
		return fmt.Sprintf("%s isn't showing expected results. Consider adjusting usage or trying alternatives.", name)
	default:
		return fmt.Sprintf("%s is maintaining your skin. Monitor for longer-term effects.", name)
	}
}

func (a CorrelationAnalyzer) smartInsights(features []FeatureImprovement, products []ProductImpact) []SmartInsight {
	out := []SmartInsight{}
	for _, f := range features {
		if f.Confidence <= 0.7 || f.Improvement <= 10 {
			continue
		}
		name := a.catalog.DisplayName(f.Feature)
		out = append(out, SmartInsight{
			Type:        SmartProductWorking,
			Title:       name + " Improvement",
			Description: fmt.Sprintf("Your %s improved by %.1f points. %s", strings.ToLower(name), f.Improvement, f.Recommendation),
			Confidence:  f.Confidence,
			Evidence:    []string{"Data from " + f.TimePeriod, "Products: " + productList(f.Products)},
			Priority:    "high",
		})
	}
	for _, p := range products {
		if p.Effectiveness > 10 && p.Confidence > 0.7 {
			out = append(out, SmartInsight{
				Type:        SmartProductWorking,
				Title:       p.Name + " is Working",
				Description: p.Recommendation,
				Confidence:  p.Confidence,
				Evidence:    productEvidence(p),
				Priority:    "high",
			})
		}
	}
	for _, p := range products {
		if p.Effectiveness < -5 && p.Confidence > 0.6 {
			out = append(out, SmartInsight{
				Type:        SmartProductHarming,
				Title:       p.Name + " Not Working",
				Description: p.Recommendation,
				Confidence:  p.Confidence,
				Evidence:    productEvidence(p),
				Priority:    "high",
			})
		}
	}
	return out
}

func trustMetrics(points int, features []FeatureImprovement, products []ProductImpact) TrustMetrics {
	quality := math.Min(1, float64(points)/10)

	var confSum float64
	high := 0
	for _, f := range features {
		confSum += f.Confidence
		if f.Confidence > 0.7 {
			high++
		}
	}
	var avgConf float64
	if len(features) > 0 {
		avgConf = confSum / float64(len(features))
	}

	effective := 0
	for _, p := range products {
		if p.Effectiveness > 5 {
			effective++
		}
	}

	score := quality*0.4 + avgConf*0.4 + float64(high)/float64(max(1, len(features)))*0.2
	return TrustMetrics{
		TrustScore:             round2(score),
		DataQuality:            round2(quality),
		AverageConfidence:      round2(avgConf),
		HighConfidenceInsights: high,
		EffectiveProducts:      effective,
		TotalInsights:          len(features) + len(products),
	}
}

func productEvidence(p ProductImpact) []string {
	return []string{
		fmt.Sprintf("Used for %d days", p.UsageDays),
		fmt.Sprintf("Overall effectiveness: %s", formatNumber(p.Effectiveness)),
	}
}

func productList(products []string) string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = ProductName(p)
	}
	return strings.Join(names, ", ")
}
