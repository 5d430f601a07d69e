package pulse

// Series is an inter-beat-interval time series. Timestamps are seconds from
// the start of the recording, strictly increasing; Intervals hold the elapsed
// time since the previous beat in seconds. The two slices are always the same
// length. A raw series carries one entry per detected beat after the first;
// a resampled series carries one entry per grid point.
type Series struct {
	Timestamps []float64
	Intervals  []float64
}

// Len returns the number of entries in the series.
func (s Series) Len() int { return len(s.Timestamps) }

// ComputeIBI derives the raw interval series from peak sample indices. Each
// adjacent pair of peaks contributes one entry, stamped at the later peak.
// Fewer than two peaks yield an empty series.
func ComputeIBI(peaks []int, samplingRate float64) Series {
	if len(peaks) < 2 || samplingRate <= 0 {
		return Series{}
	}
	s := Series{
		Timestamps: make([]float64, 0, len(peaks)-1),
		Intervals:  make([]float64, 0, len(peaks)-1),
	}
	for i := 1; i < len(peaks); i++ {
		s.Timestamps = append(s.Timestamps, float64(peaks[i])/samplingRate)
		s.Intervals = append(s.Intervals, float64(peaks[i]-peaks[i-1])/samplingRate)
	}
	return s
}

// FilterPlausible drops entries whose interval lies outside [min, max]
// seconds. Detected peaks sometimes imply physiologically impossible rates
// (missed or doubled beats); callers choose the bounds. Non-positive min and
// max disable filtering.
func (s Series) FilterPlausible(min, max float64) Series {
	if min <= 0 && max <= 0 {
		return s
	}
	out := Series{}
	for i, iv := range s.Intervals {
		if min > 0 && iv < min {
			continue
		}
		if max > 0 && iv > max {
			continue
		}
		out.Timestamps = append(out.Timestamps, s.Timestamps[i])
		out.Intervals = append(out.Intervals, iv)
	}
	return out
}
