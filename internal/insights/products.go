package insights

import (
	"math"
	"strings"
)

type productKeyword struct {
	keyword string
	product string
}

// productKeywords maps free-text routine notes to product keys. Matching is
// a case-insensitive substring test, evaluated in this order.
var productKeywords = []productKeyword{
	{"vitamin c", "vitamin_c_serum"},
	{"retinol", "retinol"},
	{"sunscreen", "sunscreen"},
	{"moisturizer", "moisturizer"},
	{"hyaluronic", "hyaluronic_acid"},
	{"niacinamide", "niacinamide_serum"},
	{"caffeine", "caffeine_serum"},
	{"aha", "aha_exfoliant"},
	{"bha", "bha_exfoliant"},
	{"peptide", "peptide_serum"},
}

var productNames = map[string]string{
	"vitamin_c_serum":   "Vitamin C Serum",
	"retinol":           "Retinol",
	"sunscreen":         "Sunscreen",
	"moisturizer":       "Moisturizer",
	"hyaluronic_acid":   "Hyaluronic Acid",
	"niacinamide_serum": "Niacinamide Serum",
	"caffeine_serum":    "Caffeine Serum",
	"peptide_serum":     "Peptide Serum",
	"aha_exfoliant":     "AHA Exfoliant",
	"bha_exfoliant":     "BHA Exfoliant",
}

// ExtractProducts returns the distinct product keys mentioned in routine
// notes, in keyword order.
func ExtractProducts(notes string) []string {
	text := strings.ToLower(notes)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, k := range productKeywords {
		if strings.Contains(text, k.keyword) {
			out = append(out, k.product)
		}
	}
	return out
}

// ProductName returns the display name of a product key. Unknown keys are
// title-cased with underscores turned into spaces.
func ProductName(product string) string {
	if name, ok := productNames[product]; ok {
		return name
	}
	return titleKey(product)
}

func titleKey(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// productUsage groups the samples on which each product was logged. The
// product order is first appearance.
func productUsage(samples []FeatureSample) ([]string, map[string][]FeatureSample) {
	var order []string
	usage := make(map[string][]FeatureSample)
	for _, s := range samples {
		for _, p := range ExtractProducts(s.Routine.ProductNotes) {
			if _, seen := usage[p]; !seen {
				order = append(order, p)
			}
			usage[p] = append(usage[p], s)
		}
	}
	return order, usage
}

// halfSplit compares the mean of the second half of values with the first
// half, splitting at len/2.
func halfSplit(values []float64) float64 {
	mid := len(values) / 2
	return mean(values[mid:]) - mean(values[:mid])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// direction labels a change against a symmetric band.
func direction(change, band float64) Trend {
	switch {
	case change > band:
		return TrendImproving
	case change < -band:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func sleepScores(samples []FeatureSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.SleepScore
	}
	return out
}

func skinScores(samples []FeatureSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.SkinHealthScore
	}
	return out
}

// featureValues collects the values of a feature from the samples that carry it.
func featureValues(samples []FeatureSample, feature string) []float64 {
	var out []float64
	for _, s := range samples {
		if v, ok := s.Features[feature]; ok {
			out = append(out, v)
		}
	}
	return out
}
