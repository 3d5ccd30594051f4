package seriesmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulationStdDev(t *testing.T) {
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{3, 3, 3}))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, Correlation(x, []float64{2, 4, 6, 8, 10}), 1e-12)
	assert.InDelta(t, -1.0, Correlation(x, []float64{5, 4, 3, 2, 1}), 1e-12)

	// degenerate inputs fall back to 0
	assert.Equal(t, 0.0, Correlation(x, []float64{1, 2}))
	assert.Equal(t, 0.0, Correlation(x, []float64{7, 7, 7, 7, 7}))
	assert.Equal(t, 0.0, Correlation([]float64{1}, []float64{1}))
}

func TestCovariance(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{2, 4, 6}
	// population: mean products of deviations
	assert.InDelta(t, 4.0/3.0, Covariance(x, y), 1e-12)
	assert.InDelta(t, Variance(x), Covariance(x, x), 1e-12)
	assert.Equal(t, 0.0, Covariance(x, []float64{1}))
}

func TestSlope(t *testing.T) {
	assert.InDelta(t, 2.0, Slope([]float64{1, 3, 5, 7}), 1e-12)
	assert.InDelta(t, 0.0, Slope([]float64{4, 4, 4}), 1e-12)
	assert.Equal(t, 0.0, Slope([]float64{1}))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Normalize([]float64{10, 15, 20}))
	assert.Equal(t, []float64{0, 0, 0}, Normalize([]float64{5, 5, 5}))
}

func TestPercentile(t *testing.T) {
	s := Sorted([]float64{5, 1, 4, 2, 3})
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, s)
	assert.InDelta(t, 3.0, Percentile(s, 50), 1e-12)
	assert.InDelta(t, 1.0, Percentile(s, 0), 1e-12)
	assert.InDelta(t, 5.0, Percentile(s, 100), 1e-12)
	assert.InDelta(t, 1.2, Percentile(s, 5), 1e-12)
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestFinite(t *testing.T) {
	assert.Equal(t, 1.0, Finite(math.NaN(), 1))
	assert.Equal(t, 0.0, Finite(math.Inf(1), 0))
	assert.Equal(t, 2.5, Finite(2.5, 0))
}
