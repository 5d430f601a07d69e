package pulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DetectorOptions tune the systolic peak detector. The zero value selects
// defaults suitable for wrist or finger PPG.
type DetectorOptions struct {
	// BaselineWindow is the moving-mean window used to remove the slow
	// (respiratory and motion) component, in seconds.
	BaselineWindow float64

	// Refractory is the minimum spacing between accepted peaks, in seconds.
	// When two candidates fall closer than this, the taller one wins.
	Refractory float64

	// MinHeightSigma rejects candidate peaks whose detrended amplitude is
	// below this many standard deviations of the detrended signal.
	MinHeightSigma float64
}

const (
	defaultBaselineWindow = 1.0
	defaultRefractory     = 0.3
	defaultMinHeightSigma = 0.5
)

func (o DetectorOptions) withDefaults() DetectorOptions {
	if o.BaselineWindow <= 0 {
		o.BaselineWindow = defaultBaselineWindow
	}
	if o.Refractory <= 0 {
		o.Refractory = defaultRefractory
	}
	if o.MinHeightSigma <= 0 {
		o.MinHeightSigma = defaultMinHeightSigma
	}
	return o
}

// DetectPeaks finds systolic peaks in a PPG waveform and returns their
// sample indices, strictly increasing and within bounds.
//
// The detector removes the baseline with a centred moving mean, then scans
// the detrended signal for positive excursions. Each excursion contributes
// its tallest sample as a candidate peak; candidates below the amplitude
// floor are dropped, and candidates inside the refractory window of the
// previous peak are merged, keeping the taller one.
func DetectPeaks(w Waveform, opts DetectorOptions) ([]int, error) {
	if w.SamplingRate <= 0 {
		return nil, ErrBadRate
	}
	opts = opts.withDefaults()

	win := int(math.Round(opts.BaselineWindow * w.SamplingRate))
	if win < 1 {
		win = 1
	}
	if len(w.Values) < 2*win {
		return nil, fmt.Errorf("%w: %d samples at %g Hz", ErrInsufficientSignal, len(w.Values), w.SamplingRate)
	}

	ac := detrend(w.Values, win)

	sigma := stat.StdDev(ac, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: constant signal", ErrInsufficientSignal)
	}
	floor := opts.MinHeightSigma * sigma

	refractory := int(math.Round(opts.Refractory * w.SamplingRate))

	var peaks []int
	inExcursion := false
	argmax := 0
	for i, v := range ac {
		switch {
		case v > 0 && !inExcursion:
			inExcursion = true
			argmax = i
		case v > 0 && inExcursion:
			if v > ac[argmax] {
				argmax = i
			}
		case v <= 0 && inExcursion:
			inExcursion = false
			peaks = appendPeak(peaks, ac, argmax, floor, refractory)
		}
	}
	if inExcursion {
		peaks = appendPeak(peaks, ac, argmax, floor, refractory)
	}

	return peaks, nil
}

// appendPeak applies the amplitude floor and the refractory rule before
// accepting a candidate.
func appendPeak(peaks []int, ac []float64, cand int, floor float64, refractory int) []int {
	if ac[cand] < floor {
		return peaks
	}
	if n := len(peaks); n > 0 && cand-peaks[n-1] < refractory {
		if ac[cand] > ac[peaks[n-1]] {
			peaks[n-1] = cand
		}
		return peaks
	}
	return append(peaks, cand)
}

// detrend subtracts a centred moving mean of width win from every sample.
func detrend(values []float64, win int) []float64 {
	// prefix[i] holds the sum of values[:i]
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	half := win / 2
	out := make([]float64, len(values))
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(values) {
			hi = len(values)
		}
		mean := (prefix[hi] - prefix[lo]) / float64(hi-lo)
		out[i] = values[i] - mean
	}
	return out
}
