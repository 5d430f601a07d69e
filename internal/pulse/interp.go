package pulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Interpolation methods accepted by Resample.
const (
	MethodLinear = "linear"
	MethodAkima  = "akima"
)

// ValidMethods lists the accepted interpolation method names.
var ValidMethods = []string{MethodLinear, MethodAkima}

// ValidMethod reports whether name is an accepted interpolation method.
func ValidMethod(name string) bool {
	for _, m := range ValidMethods {
		if name == m {
			return true
		}
	}
	return false
}

// Resample projects a raw IBI series onto a uniform grid at fsInterp Hz.
// The grid starts at the first raw timestamp and steps by 1/fsInterp up to
// (and never past) the last raw timestamp: interpolation only, no
// extrapolation. The result is deterministic for a given series and rate.
func Resample(s Series, fsInterp float64, method string) (Series, error) {
	if fsInterp <= 0 {
		return Series{}, fmt.Errorf("%w: fs-interp %g", ErrBadRate, fsInterp)
	}
	if s.Len() < 2 {
		return Series{}, fmt.Errorf("%w: %d", ErrInsufficientPoints, s.Len())
	}

	var p interp.FittablePredictor
	switch method {
	case MethodLinear, "":
		p = &interp.PiecewiseLinear{}
	case MethodAkima:
		p = &interp.AkimaSpline{}
	default:
		return Series{}, fmt.Errorf("unknown interpolation method %q", method)
	}
	if err := p.Fit(s.Timestamps, s.Intervals); err != nil {
		return Series{}, fmt.Errorf("fit %s interpolant: %w", method, err)
	}

	t0 := s.Timestamps[0]
	t1 := s.Timestamps[s.Len()-1]
	step := 1 / fsInterp
	// Tolerance keeps a grid point that lands on t1 up to float rounding.
	n := int(math.Floor((t1-t0)/step+1e-9)) + 1

	out := Series{
		Timestamps: make([]float64, n),
		Intervals:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		t := t0 + float64(i)*step
		out.Timestamps[i] = t
		out.Intervals[i] = p.Predict(t)
	}
	return out, nil
}
