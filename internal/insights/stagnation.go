package insights

import "math"

// StagnationDetector flags features that have stayed flat below their good
// band for the whole stagnation window.
type StagnationDetector struct {
	th      Thresholds
	catalog *Catalog
}

func NewStagnationDetector(th Thresholds, catalog *Catalog) StagnationDetector {
	return StagnationDetector{th: th, catalog: catalog}
}

// Detect returns nothing until history holds a full window.
func (d StagnationDetector) Detect(history []FeatureSample, current FeatureSample) []StagnationRecord {
	window := d.th.StagnationWindow
	if window <= 0 || len(history) < window {
		return nil
	}
	tail := history[len(history)-window:]

	var records []StagnationRecord
	for _, key := range sortedKeys(current.Features) {
		values := make([]float64, len(tail))
		for i, s := range tail {
			values[i] = s.Features[key]
		}

		variance := sampleVariance(values)
		totalChange := math.Abs(values[len(values)-1] - values[0])
		if variance >= d.th.StagnationVariance || totalChange >= d.th.StagnationTotalChange {
			continue
		}

		value := current.Features[key]
		if value >= d.catalog.Band(key).Good {
			continue
		}

		records = append(records, StagnationRecord{
			FeatureName:  key,
			CurrentValue: value,
			Variance:     variance,
			TotalChange:  totalChange,
		})
	}
	return records
}

// sampleVariance uses the n-1 denominator; fewer than two values have zero variance.
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return ss / float64(len(values)-1)
}

func stagnantNames(records []StagnationRecord) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.FeatureName)
	}
	return names
}
