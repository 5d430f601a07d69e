package pulse

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary holds standard short-term variability statistics over a raw IBI
// series. Intervals are reported in seconds.
type Summary struct {
	Beats   int     // entries in the series
	MeanIBI float64 // mean interval
	SDNN    float64 // standard deviation of intervals
	RMSSD   float64 // root mean square of successive interval differences
}

// Summarize computes variability statistics for a raw IBI series. Statistics
// that need more data than the series holds are reported as NaN.
func Summarize(s Series) Summary {
	sum := Summary{Beats: s.Len(), MeanIBI: math.NaN(), SDNN: math.NaN(), RMSSD: math.NaN()}
	if s.Len() == 0 {
		return sum
	}
	sum.MeanIBI = stat.Mean(s.Intervals, nil)
	if s.Len() >= 2 {
		sum.SDNN = stat.StdDev(s.Intervals, nil)
		var ss float64
		for i := 1; i < len(s.Intervals); i++ {
			d := s.Intervals[i] - s.Intervals[i-1]
			ss += d * d
		}
		sum.RMSSD = math.Sqrt(ss / float64(len(s.Intervals)-1))
	}
	return sum
}
