package insights

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/skin-hub/internal/ai"
)

const (
	genericFocusPrimary   = "skin_health"
	genericFocusSecondary = "texture"
)

// DefaultVariations are the openers rotated into each prompt so repeated
// requests for the same features do not read identically.
var DefaultVariations = []string{
	"Focus on innovative skincare",
	"Emphasize dermatologist-approved methods",
	"Prioritize evidence-based approaches",
	"Consider holistic skin wellness",
}

// VariationSource picks the opening phrase of a prompt.
type VariationSource interface {
	Variation() string
}

// FixedVariation always returns the same phrase.
type FixedVariation string

func (f FixedVariation) Variation() string { return string(f) }

type randomVariation struct {
	mu      sync.Mutex
	rng     *rand.Rand
	options []string
}

// NewRandomVariation draws from options with a seeded generator. A zero seed
// uses the clock.
func NewRandomVariation(seed int64, options []string) VariationSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(options) == 0 {
		options = DefaultVariations
	}
	return &randomVariation{
		rng:     rand.New(rand.NewSource(seed)),
		options: append([]string(nil), options...),
	}
}

func (r *randomVariation) Variation() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.options[r.rng.Intn(len(r.options))]
}

// focusAreas picks the two lowest-scoring current features, falling back to
// generic areas when fewer are present.
func focusAreas(features map[string]float64, catalog *Catalog) []ai.FocusArea {
	lowest := lowestFeatures(features, 2)
	defaults := []string{genericFocusPrimary, genericFocusSecondary}

	areas := make([]ai.FocusArea, 0, 2)
	for i := 0; i < 2; i++ {
		f := scoredFeature{key: defaults[i]}
		if i < len(lowest) {
			f = lowest[i]
		}
		areas = append(areas, ai.FocusArea{
			Key:         f.key,
			DisplayName: catalog.DisplayName(f.key),
			Score:       f.score,
			Severity:    catalog.Severity(f.key, f.score),
			Guidance:    catalog.Guidance(f.key),
		})
	}
	return areas
}

func buildPrompt(variation string, areas []ai.FocusArea) string {
	a1, a2 := areas[0], areas[1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s for %s (%s/100) and %s (%s/100).\n\n",
		variation, a1.DisplayName, formatNumber(a1.Score), a2.DisplayName, formatNumber(a2.Score))

	b.WriteString("Severity:\n")
	for _, a := range areas {
		fmt.Fprintf(&b, "- %s: %s\n", a.DisplayName, a.Severity)
	}
	b.WriteString("\nGuidance:\n")
	for _, a := range areas {
		fmt.Fprintf(&b, "For %s: %s\n", a.DisplayName, a.Guidance)
	}

	b.WriteString(`
STRICT RULES:
- NO sleep advice (we handle that separately)
- NO water/hydration advice
- NO food/diet suggestions
- Give ONLY topical skincare solutions

`)
	b.WriteString("Give 4 recommendations IN THIS ORDER:\n")
	fmt.Fprintf(&b, "1. Natural/DIY remedy for %s (e.g., \"Apply aloe vera gel for 20 minutes\")\n", a1.DisplayName)
	fmt.Fprintf(&b, "2. Natural/DIY remedy for %s (e.g., \"Use cold spoons on eyes\")\n", a2.DisplayName)
	fmt.Fprintf(&b, "3. Product with ingredient for %s (e.g., \"Try vitamin C serum 15-20%%\")\n", a1.DisplayName)
	fmt.Fprintf(&b, "4. Product with ingredient for %s (e.g., \"Use caffeine eye cream\")\n\n", a2.DisplayName)
	b.WriteString("Be specific with ingredients, percentages, times. Write as short direct sentences.")
	return b.String()
}

// formatNumber prints a score without a trailing ".0".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
