package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageAndSum(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.InDelta(t, 2.0, Average([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 6.0, Sum([]float64{1, 2, 3}), 1e-9)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestPearson(t *testing.T) {
	// Too few pairs
	assert.Equal(t, 0.0, Pearson([]float64{1, 2}, []float64{2, 4}))
	// Mismatched lengths
	assert.Equal(t, 0.0, Pearson([]float64{1, 2, 3}, []float64{1, 2}))
	// Perfect positive and negative correlation
	assert.InDelta(t, 1.0, Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}), 1e-9)
	assert.InDelta(t, -1.0, Pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}), 1e-9)
	// Zero variance
	assert.Equal(t, 0.0, Pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
}

func TestEMA(t *testing.T) {
	assert.Nil(t, EMA(nil, 7))

	out := EMA([]float64{10, 10, 10}, 7)
	assert.Equal(t, []float64{10, 10, 10}, out)

	// alpha = 2/(1+1) = 1 -> series follows input exactly
	out = EMA([]float64{1, 5, 9}, 1)
	assert.Equal(t, []float64{1, 5, 9}, out)
}

func TestLinearSlope(t *testing.T) {
	assert.Equal(t, 0.0, LinearSlope([]Point{{X: 1, Y: 1}}))
	pts := []Point{{0, 1}, {1, 3}, {2, 5}, {3, 7}}
	assert.InDelta(t, 2.0, LinearSlope(pts), 1e-9)
	// Degenerate x range
	assert.Equal(t, 0.0, LinearSlope([]Point{{1, 1}, {1, 5}}))
}

func TestSmallSamplePenalty(t *testing.T) {
	assert.Equal(t, 0.8, SmallSamplePenalty(0.8, 10, 7))
	assert.Equal(t, 0.8, SmallSamplePenalty(0.8, 7, 7))
	assert.InDelta(t, 0.4, SmallSamplePenalty(0.8, 5, 10), 1e-9)
	assert.Equal(t, 0.0, SmallSamplePenalty(0.8, 0, 10))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(120, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}
