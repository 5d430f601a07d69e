// Package pulse extracts heartbeats from photoplethysmogram (PPG) waveforms
// and derives inter-beat-interval (IBI) time series from them.
//
// The pipeline is three pure stages applied per recording:
// DetectPeaks finds systolic peaks, ComputeIBI turns adjacent peaks into a
// non-uniform interval series, and Resample projects that series onto a
// fixed-rate grid.
package pulse

import "errors"

var (
	// ErrInsufficientSignal marks a waveform the detector cannot work with:
	// empty, shorter than the baseline window, or flat.
	ErrInsufficientSignal = errors.New("insufficient signal for peak detection")

	// ErrInsufficientPoints marks an IBI series with fewer than two beats,
	// which cannot be interpolated.
	ErrInsufficientPoints = errors.New("too few beats to interpolate")

	// ErrBadRate marks a non-positive sampling rate.
	ErrBadRate = errors.New("sampling rate must be positive")
)

// Waveform is one continuous signal: amplitude samples at a fixed rate.
// Waveforms are treated as immutable inputs.
type Waveform struct {
	Values       []float64
	SamplingRate float64 // Hz
}

// Duration returns the length of the waveform in seconds.
func (w Waveform) Duration() float64 {
	if w.SamplingRate <= 0 {
		return 0
	}
	return float64(len(w.Values)) / w.SamplingRate
}
