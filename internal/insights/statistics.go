package insights

const (
	TrendInsufficientData Trend = "insufficient_data"
	TrendNoData           Trend = "no_data"
)

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ProfileStatistics aggregates the sleep and skin health scores of a window.
type ProfileStatistics struct {
	TotalEntries int        `json:"total_entries"`
	AverageSleep float64    `json:"avg_sleep_score"`
	AverageSkin  float64    `json:"avg_skin_score"`
	BestSleep    float64    `json:"best_sleep_score"`
	BestSkin     float64    `json:"best_skin_score"`
	SleepTrend   Trend      `json:"sleep_trend"`
	SkinTrend    Trend      `json:"skin_trend"`
	DateRange    *DateRange `json:"date_range,omitempty"`
}

// Statistics summarizes ascending samples. An empty window reports no_data.
func Statistics(samples []FeatureSample) ProfileStatistics {
	if len(samples) == 0 {
		return ProfileStatistics{SleepTrend: TrendNoData, SkinTrend: TrendNoData}
	}

	sleep, skin := sleepScores(samples), skinScores(samples)
	return ProfileStatistics{
		TotalEntries: len(samples),
		AverageSleep: round1(mean(sleep)),
		AverageSkin:  round1(mean(skin)),
		BestSleep:    maxOf(sleep),
		BestSkin:     maxOf(skin),
		SleepTrend:   edgeTrend(sleep),
		SkinTrend:    edgeTrend(skin),
		DateRange:    &DateRange{Start: samples[0].Date, End: samples[len(samples)-1].Date},
	}
}

// edgeTrend classifies the change between the first and last four scores.
func edgeTrend(scores []float64) Trend {
	if len(scores) < overallEdgeSamples {
		return TrendInsufficientData
	}
	return direction(edgeChange(scores), scoreTrendBand)
}

func maxOf(values []float64) float64 {
	var best float64
	for i, v := range values {
		if i == 0 || v > best {
			best = v
		}
	}
	return best
}
