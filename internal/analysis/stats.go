package analysis

import "math"

// CurveStats summarises a sampled curve.
type CurveStats struct {
	Samples int
	Min     float64
	Max     float64
	Mean    float64
	RMS     float64
}

// PeakToPeak is Max - Min, twice K for a pure Keplerian curve sampled
// densely enough.
func (s CurveStats) PeakToPeak() float64 { return s.Max - s.Min }

// Summarize returns the zero value for an empty series.
func Summarize(vs []float64) CurveStats {
	if len(vs) == 0 {
		return CurveStats{}
	}
	s := CurveStats{Samples: len(vs), Min: vs[0], Max: vs[0]}
	var sum, sumSq float64
	for _, v := range vs {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
		sumSq += v * v
	}
	n := float64(len(vs))
	s.Mean = sum / n
	s.RMS = math.Sqrt(sumSq / n)
	return s
}
