package pulse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Series{
		Timestamps: []float64{1.0, 1.8, 2.7, 3.5},
		Intervals:  []float64{0.8, 0.8, 0.9, 0.8},
	}

	sum := Summarize(s)
	assert.Equal(t, 4, sum.Beats)
	assert.InDelta(t, 0.825, sum.MeanIBI, 1e-9)
	assert.InDelta(t, 0.05, sum.SDNN, 1e-9)
	// successive diffs: 0, 0.1, -0.1
	assert.InDelta(t, math.Sqrt(0.02/3), sum.RMSSD, 1e-9)
}

func TestSummarizeDegenerate(t *testing.T) {
	empty := Summarize(Series{})
	assert.Equal(t, 0, empty.Beats)
	assert.True(t, math.IsNaN(empty.MeanIBI))
	assert.True(t, math.IsNaN(empty.SDNN))
	assert.True(t, math.IsNaN(empty.RMSSD))

	one := Summarize(Series{Timestamps: []float64{1}, Intervals: []float64{0.8}})
	assert.Equal(t, 1, one.Beats)
	assert.InDelta(t, 0.8, one.MeanIBI, 1e-9)
	assert.True(t, math.IsNaN(one.SDNN))
	assert.True(t, math.IsNaN(one.RMSSD))
}
