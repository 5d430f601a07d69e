package pulse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestComputeIBI(t *testing.T) {
	fs := 100.0
	peaks := []int{100, 180, 270, 380}

	s := ComputeIBI(peaks, fs)
	want := Series{
		Timestamps: []float64{1.8, 2.7, 3.8},
		Intervals:  []float64{0.8, 0.9, 1.1},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("ComputeIBI mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeIBILength(t *testing.T) {
	tests := []struct {
		name  string
		peaks []int
		want  int
	}{
		{"no peaks", nil, 0},
		{"one peak", []int{50}, 0},
		{"two peaks", []int{50, 150}, 1},
		{"five peaks", []int{10, 20, 30, 40, 50}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeIBI(tt.peaks, 100)
			assert.Equal(t, tt.want, s.Len())
			for i := range s.Intervals {
				assert.Positive(t, s.Intervals[i])
				if i > 0 {
					assert.Greater(t, s.Timestamps[i], s.Timestamps[i-1])
				}
			}
		})
	}
}

func TestFilterPlausible(t *testing.T) {
	s := Series{
		Timestamps: []float64{1, 1.2, 3.0, 3.8},
		Intervals:  []float64{0.9, 0.2, 1.8, 0.8},
	}

	filtered := s.FilterPlausible(0.3, 1.5)
	assert.Equal(t, []float64{1, 3.8}, filtered.Timestamps)
	assert.Equal(t, []float64{0.9, 0.8}, filtered.Intervals)

	// disabled bounds pass everything through
	assert.Equal(t, s, s.FilterPlausible(0, 0))
}
