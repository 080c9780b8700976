package stats

import (
	"math"
	"sort"
)

func percentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 || math.IsNaN(p) {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	p = math.Max(0, math.Min(100, p))
	last := len(sorted) - 1
	k := float64(last) * p / 100.0
	f := int(math.Floor(k))
	c := f + 1
	if c > last {
		c = last
	}
	if f == c {
		return sorted[f], true
	}
	return sorted[f] + (sorted[c]-sorted[f])*(k-float64(f)), true
}

func summarize(series Series, bucketSeconds float64) (
	result Summary, ok bool) {
	if series.IsEmpty() {
		return
	}
	var sum, totalBits float64
	for _, avg := range series.Avg {
		sum += avg
		totalBits += avg * bucketSeconds
	}
	result.Mean = sum / float64(len(series.Avg))
	result.Min = minOf(series.Min)
	result.Max = maxOf(series.Max)
	result.P95, _ = percentile(series.Avg, P95)
	result.TotalBytes = totalBits / 8.0
	result.Buckets = series.Len()
	return result, true
}

func minOf(values []float64) float64 {
	result := values[0]
	for _, v := range values[1:] {
		if v < result {
			result = v
		}
	}
	return result
}

func maxOf(values []float64) float64 {
	result := values[0]
	for _, v := range values[1:] {
		if v > result {
			result = v
		}
	}
	return result
}
