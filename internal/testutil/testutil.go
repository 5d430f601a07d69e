// Package testutil provides shared test fixtures.
//
// The main fixture is a synthetic PPG generator producing a pulse train with
// known beat positions, so detector and pipeline tests can assert against
// ground truth.
package testutil

import (
	"math"
	"testing"
)

// SyntheticPPG builds a PPG-like waveform: one Gaussian systolic pulse per
// beat on top of a slow sinusoidal baseline drift. Beats are spaced by
// interval seconds; the returned indices are the exact pulse centres.
func SyntheticPPG(fs, duration, interval float64) (values []float64, beats []int) {
	n := int(fs * duration)
	values = make([]float64, n)

	sigma := 0.05 // pulse width in seconds
	for t := interval; t < duration-interval/2; t += interval {
		beats = append(beats, int(math.Round(t*fs)))
	}

	for i := range values {
		t := float64(i) / fs
		// baseline drift, small against unit pulse amplitude
		v := 0.2 * math.Sin(2*math.Pi*0.2*t)
		for _, b := range beats {
			tb := float64(b) / fs
			d := t - tb
			v += math.Exp(-(d * d) / (2 * sigma * sigma))
		}
		values[i] = v
	}
	return values, beats
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
