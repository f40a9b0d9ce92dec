package insights

// Trend classifies a feature's recent window against its comparison window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendStagnant  Trend = "stagnant"
)

// Significance buckets the magnitude of a trend.
type Significance string

const (
	SignificanceSignificant Significance = "significant"
	SignificanceModerate    Significance = "moderate"
	SignificanceMinor       Significance = "minor"
	SignificanceNone        Significance = "none"
)

type InsightCategory string

const (
	InsightImprovement InsightCategory = "improvement"
	InsightDecline     InsightCategory = "decline"
	InsightStagnation  InsightCategory = "stagnation"
	InsightExcellence  InsightCategory = "excellence"
	InsightBaseline    InsightCategory = "baseline"
)

type Origin string

const (
	OriginGenerative    Origin = "generative"
	OriginDeterministic Origin = "deterministic"
)

type RecommendationCategory string

const (
	CategoryNaturalRemedy RecommendationCategory = "natural_remedy"
	CategoryProduct       RecommendationCategory = "product"
	CategoryLifestyle     RecommendationCategory = "lifestyle"
)

// Path records which pipeline produced the recommendations.
type Path string

const (
	PathGenerative    Path = "generative"
	PathDeterministic Path = "deterministic"
)

type Variant string

const (
	VariantBaseline Variant = "baseline"
	VariantFull     Variant = "full"
)

// Fallback reasons reported in Provenance.FallbackReason.
const (
	ReasonProviderError     = "provider_error"
	ReasonTimeout           = "timeout"
	ReasonCircuitOpen       = "circuit_open"
	ReasonEmptyResponse     = "empty_response"
	ReasonMalformedResponse = "malformed_response"
	ReasonProviderDisabled  = "provider_disabled"
	ReasonNoProvider        = "no_provider"
)

// Routine is the self-reported routine for a day. Nil pointers mean "not logged".
type Routine struct {
	SleepHours   *float64 `json:"sleep_hours,omitempty"`
	WaterIntake  *float64 `json:"water_intake,omitempty"`
	ProductNotes string   `json:"product_used,omitempty"`
}

// FeatureSample is one measured day. Features maps feature key to a 0-100 score.
type FeatureSample struct {
	Date            string             `json:"date"`
	Features        map[string]float64 `json:"features"`
	SleepScore      float64            `json:"sleep_score"`
	SkinHealthScore float64            `json:"skin_health_score"`
	Routine         Routine            `json:"routine"`
}

type FeatureTrend struct {
	FeatureName      string       `json:"feature_name"`
	CurrentValue     float64      `json:"current_value"`
	PreviousValue    float64      `json:"previous_value"`
	Change           float64      `json:"change"`
	ChangePercentage float64      `json:"change_percentage"`
	Trend            Trend        `json:"trend"`
	Significance     Significance `json:"significance"`
	DurationDays     int          `json:"duration_days"`
}

type StagnationRecord struct {
	FeatureName  string  `json:"feature_name"`
	CurrentValue float64 `json:"current_value"`
	Variance     float64 `json:"variance"`
	TotalChange  float64 `json:"total_change"`
}

type Insight struct {
	Text     string          `json:"text"`
	Category InsightCategory `json:"category"`
}

type Recommendation struct {
	Text     string                 `json:"text"`
	Origin   Origin                 `json:"origin"`
	Category RecommendationCategory `json:"category"`
}

// TrendBuckets lists feature names grouped by trend.
type TrendBuckets struct {
	Improving []string `json:"improving_features"`
	Declining []string `json:"declining_features"`
	Stagnant  []string `json:"stagnant_features"`
	Stable    []string `json:"stable_features"`
}

type Provenance struct {
	DataPointsAnalyzed int     `json:"data_points_analyzed"`
	Variant            Variant `json:"variant"`
	Path               Path    `json:"path"`
	Provider           string  `json:"provider,omitempty"`
	Model              string  `json:"model,omitempty"`
	FallbackReason     string  `json:"fallback_reason,omitempty"`
}

type SummaryResult struct {
	DailySummary           string           `json:"daily_summary"`
	Status                 string           `json:"status"`
	KeyInsights            []Insight        `json:"key_insights"`
	Recommendations        []Recommendation `json:"recommendations"`
	NaturalRemedies        []string         `json:"natural_remedies"`
	ProductRecommendations []string         `json:"product_recommendations"`
	LifestyleTip           string           `json:"lifestyle_tip,omitempty"`
	TrendAnalysis          TrendBuckets     `json:"trend_analysis"`
	FeatureTrends          []FeatureTrend   `json:"feature_trends,omitempty"`
	Provenance             Provenance       `json:"provenance"`
}

// RecommendationTexts returns the recommendation texts in order.
func (r SummaryResult) RecommendationTexts() []string {
	texts := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		texts = append(texts, rec.Text)
	}
	return texts
}
