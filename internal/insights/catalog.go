package insights

import (
	"sort"
	"time"
)

// Band holds the quality cut points for one feature.
type Band struct {
	Excellent float64
	Good      float64
	Fair      float64
	Poor      float64
}

var defaultBand = Band{Excellent: 75, Good: 60, Fair: 45, Poor: 30}

type remedyText struct {
	declining string
	stagnant  string
}

// Catalog is the versioned per-feature reference data: quality bands,
// display names, prompt guidance and deterministic remedy texts.
// It is read-only after construction.
type Catalog struct {
	bands    map[string]Band
	names    map[string]string
	guidance map[string]string
	remedies map[string]remedyText
}

// DefaultCatalog returns the built-in catalog for the six tracked features.
func DefaultCatalog() *Catalog {
	return &Catalog{
		bands: map[string]Band{
			"dark_circles": {Excellent: 75, Good: 60, Fair: 45, Poor: 30},
			"puffiness":    {Excellent: 70, Good: 55, Fair: 40, Poor: 25},
			"brightness":   {Excellent: 80, Good: 65, Fair: 50, Poor: 35},
			"wrinkles":     {Excellent: 75, Good: 60, Fair: 45, Poor: 30},
			"texture":      {Excellent: 75, Good: 60, Fair: 45, Poor: 30},
			"pore_size":    {Excellent: 70, Good: 55, Fair: 40, Poor: 25},
		},
		names: map[string]string{
			"dark_circles": "Dark Circles",
			"puffiness":    "Eye Puffiness",
			"brightness":   "Skin Brightness",
			"wrinkles":     "Fine Lines",
			"texture":      "Skin Texture",
			"pore_size":    "Pore Size",
		},
		guidance: map[string]string{
			"dark_circles": "Consider vitamin K, caffeine, retinol, cold therapy, iron-rich diet, sleep position",
			"puffiness":    "Consider jade roller, lymphatic drainage, cool compress, reduce sodium, elevate head while sleeping",
			"brightness":   "Consider vitamin C serums, chemical exfoliants (AHA/BHA), sunscreen SPF 50+, antioxidants, kojic acid",
			"wrinkles":     "Consider retinol/retinoids, peptides, hyaluronic acid, facial massage, sun protection",
			"texture":      "Consider chemical exfoliants, niacinamide, salicylic acid, clay masks, gentle physical exfoliation",
			"pore_size":    "Consider niacinamide, BHA (salicylic acid), clay masks, retinol, avoid heavy oils",
		},
		remedies: map[string]remedyText{
			"dark_circles": {
				declining: "👁️ %s declining - prioritize 8+ hours sleep, use caffeine eye cream",
				stagnant:  "👁️ %s stagnant - try vitamin K serum or cold compress",
			},
			"puffiness": {
				declining: "💧 %s worsening - reduce sodium, sleep elevated, increase water",
				stagnant:  "💧 %s stagnant - try ice roller, avoid salty foods",
			},
			"brightness": {
				declining: "✨ %s declining - add vitamin C serum, use SPF 50+ daily",
				stagnant:  "✨ %s stagnant - try gentle exfoliation 2x/week",
			},
			"wrinkles": {
				declining: "📏 %s worsening - consider retinol 0.3%%, use SPF, hydrate well",
				stagnant:  "📏 %s stagnant - try peptide serum or increase retinol strength",
			},
			"texture": {
				declining: "🧽 %s declining - use AHA/BHA exfoliant, add hyaluronic acid",
				stagnant:  "🧽 %s stagnant - try niacinamide 5-10%% serum",
			},
			"pore_size": {
				declining: "🔍 %s worsening - use salicylic acid cleanser, clay mask 2x/week",
				stagnant:  "🔍 %s stagnant - try niacinamide serum, double cleanse",
			},
		},
	}
}

// Band returns the quality band for a feature, or the default band when the
// feature is unknown.
func (c *Catalog) Band(feature string) Band {
	if b, ok := c.bands[feature]; ok {
		return b
	}
	return defaultBand
}

// DisplayName returns the human-readable feature name. Unknown features keep
// their key.
func (c *Catalog) DisplayName(feature string) string {
	if name, ok := c.names[feature]; ok {
		return name
	}
	return feature
}

// Guidance returns the prompt guidance line for a feature.
func (c *Catalog) Guidance(feature string) string {
	if g, ok := c.guidance[feature]; ok {
		return g
	}
	if feature == genericFocusPrimary {
		return "Focus on overall skin health"
	}
	return "Maintain consistent skincare routine"
}

// Severity labels a score against the feature band.
func (c *Catalog) Severity(feature string, score float64) string {
	b := c.Band(feature)
	switch {
	case score >= b.Excellent:
		return "Excellent"
	case score >= b.Good:
		return "Good"
	case score >= b.Fair:
		return "Fair"
	case score >= b.Poor:
		return "Poor"
	default:
		return "Needs Attention"
	}
}

func (c *Catalog) remedy(feature string) (remedyText, bool) {
	r, ok := c.remedies[feature]
	return r, ok
}

// Features lists the catalog's known feature keys in sorted order.
func (c *Catalog) Features() []string {
	keys := make([]string, 0, len(c.bands))
	for k := range c.bands {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Thresholds are the numeric constants driving classification.
type Thresholds struct {
	Improvement float64 // change >= this is improving
	Decline     float64 // change <= this is declining
	Stagnation  float64 // |change| <= this is stagnant
	Significant float64 // |change| >= this is significant

	RecentWindow     int
	ComparisonWindow int

	StagnationWindow      int
	StagnationVariance    float64
	StagnationTotalChange float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Improvement:           2.0,
		Decline:               -2.0,
		Stagnation:            0.5,
		Significant:           5.0,
		RecentWindow:          7,
		ComparisonWindow:      7,
		StagnationWindow:      14,
		StagnationVariance:    2.0,
		StagnationTotalChange: 2.0,
	}
}

// Config is the immutable configuration shared by all components.
type Config struct {
	Thresholds Thresholds
	Catalog    *Catalog

	MaxInsights         int
	MaxGenerativeRecs   int
	MaxSplitRecs        int
	MaxFallbackRecs     int
	MaxBaselineRecs     int
	MaxBaselineInsights int

	// GenerativeTimeout bounds the single call to the provider.
	GenerativeTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Thresholds:          DefaultThresholds(),
		Catalog:             DefaultCatalog(),
		MaxInsights:         6,
		MaxGenerativeRecs:   4,
		MaxSplitRecs:        2,
		MaxFallbackRecs:     8,
		MaxBaselineRecs:     6,
		MaxBaselineInsights: 5,
		GenerativeTimeout:   10 * time.Second,
	}
}
