// Package stats reduces hourly trend buckets of interface traffic into
// summary statistics.
//
// All values are in bits per second except Summary.TotalBytes.
package stats

const (
	// HourSeconds is the duration of one trend bucket.
	HourSeconds = 3600.0
	// P95 is the percentile reported for each direction.
	P95 = 95.0
)

// Series contains the parallel average, minimum and maximum sequences of
// the buckets that carried data. Avg, Min and Max always have the same
// length.
type Series struct {
	Avg []float64
	Min []float64
	Max []float64
}

// Add appends the values of one bucket.
func (s *Series) Add(avg, min, max float64) {
	s.Avg = append(s.Avg, avg)
	s.Min = append(s.Min, min)
	s.Max = append(s.Max, max)
}

// IsEmpty returns true if no bucket had data.
func (s Series) IsEmpty() bool {
	return len(s.Avg) == 0
}

// Len returns the number of buckets.
func (s Series) Len() int {
	return len(s.Avg)
}

// Summary is the reduction of one direction of one interface.
type Summary struct {
	// Mean of the bucket averages
	Mean float64
	// Lowest value seen in any bucket, not the lowest average
	Min float64
	// Highest value seen in any bucket, not the highest average
	Max float64
	// 95th percentile of the bucket averages
	P95 float64
	// Estimated bytes transferred assuming constant rate per bucket
	TotalBytes float64
	// Number of buckets reduced
	Buckets int
}

// Aggregate is the IN+OUT view of an interface.
type Aggregate struct {
	Mean float64
	// Sum of the two directional 95th percentiles. Percentiles are not
	// additive so this only approximates the joint percentile.
	P95 float64
}

// Percentile returns the p-th percentile of values using linear
// interpolation between the closest ranks. p is clamped to [0, 100].
// Percentile returns false if values is empty or p is NaN. values is not
// modified.
func Percentile(values []float64, p float64) (float64, bool) {
	return percentile(values, p)
}

// Summarize reduces series treating each bucket as bucketSeconds long.
// Summarize returns false if series is empty.
func Summarize(series Series, bucketSeconds float64) (Summary, bool) {
	return summarize(series, bucketSeconds)
}

// Combine returns the aggregate of the inbound and outbound summaries.
func Combine(in, out Summary) Aggregate {
	return Aggregate{
		Mean: in.Mean + out.Mean,
		P95:  in.P95 + out.P95,
	}
}
