package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

func TestMonteCarloSeededIsReproducible(t *testing.T) {
	a, err := New(WithSeed(42)).MonteCarlo(100, 0.08, 0.25, 30, 500)
	require.NoError(t, err)
	b, err := New(WithSeed(42)).MonteCarlo(100, 0.08, 0.25, 30, 500)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.Equal(t, 500, a.Paths)
	assert.Len(t, a.Scenarios, 100)
	for _, p := range a.Scenarios {
		require.Len(t, p, 31)
		assert.Equal(t, 100.0, p[0])
	}
	assert.LessOrEqual(t, a.Percentiles["p5"], a.Percentiles["p50"])
	assert.LessOrEqual(t, a.Percentiles["p50"], a.Percentiles["p95"])
	assert.Len(t, a.Percentiles, 7)
}

func TestMonteCarloZeroVolatility(t *testing.T) {
	res, err := New(WithSeed(7)).MonteCarlo(100, 0.252, 0, 10, 20)
	require.NoError(t, err)
	want := 100 * math.Pow(1.001, 10)
	for _, v := range res.Percentiles {
		assert.InDelta(t, want, v, 1e-9)
	}
	assert.InDelta(t, want, res.MeanTerminal, 1e-9)
	assert.InDelta(t, want/100-1, res.ExpectedReturn, 1e-12)
	assert.Equal(t, 0.0, res.RiskMetrics.ProbabilityOfLoss)
	assert.Equal(t, 0.0, res.RiskMetrics.VaR95)
	assert.Equal(t, 0.0, res.RiskMetrics.ExpectedMaxDrawdown)
	assert.Len(t, res.Scenarios, 20)
}

func TestMonteCarloMeanConverges(t *testing.T) {
	res, err := New(WithSeed(2024)).MonteCarlo(100, 0.10, 0.20, 252, 20000)
	require.NoError(t, err)
	want := 100 * math.Pow(1+0.10/252, 252)
	assert.InDelta(t, want, res.MeanTerminal, 1.0)
	assert.Less(t, res.Percentiles["p5"], res.Percentiles["p50"])
	assert.Less(t, res.Percentiles["p50"], res.Percentiles["p95"])
	assert.Greater(t, res.RiskMetrics.ProbabilityOfLoss, 0.0)
	assert.Less(t, res.RiskMetrics.ProbabilityOfLoss, 0.5)
	assert.GreaterOrEqual(t, res.RiskMetrics.CVaR95, res.RiskMetrics.VaR95)
	assert.Greater(t, res.RiskMetrics.ExpectedMaxDrawdown, 0.0)
}

func TestMonteCarloParallel(t *testing.T) {
	a, err := New(WithSeed(9)).MonteCarloParallel(50, 0.05, 0.3, 20, 1001, 4)
	require.NoError(t, err)
	b, err := New(WithSeed(9)).MonteCarloParallel(50, 0.05, 0.3, 20, 1001, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1001, a.Paths)
	assert.Len(t, a.Scenarios, 100)

	few, err := New(WithSeed(9)).MonteCarloParallel(50, 0.05, 0.3, 5, 3, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, few.Paths)
	assert.Len(t, few.Scenarios, 3)
}

func TestMonteCarloMaxScenarios(t *testing.T) {
	res, err := New(WithSeed(1), WithMaxScenarios(0)).MonteCarlo(10, 0, 0.1, 5, 50)
	require.NoError(t, err)
	assert.Empty(t, res.Scenarios)
	assert.Equal(t, 50, res.Paths)
}

func TestMonteCarloValidation(t *testing.T) {
	e := New()
	cases := []struct {
		name                  string
		price, vol            float64
		horizon, paths, works int
	}{
		{"zero price", 0, 0.2, 10, 10, 1},
		{"negative vol", 100, -0.1, 10, 10, 1},
		{"zero horizon", 100, 0.2, 0, 10, 1},
		{"zero paths", 100, 0.2, 10, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.MonteCarlo(tc.price, 0.05, tc.vol, tc.horizon, tc.paths)
			assert.True(t, models.IsInvalidParameter(err))
			_, err = e.MonteCarloParallel(tc.price, 0.05, tc.vol, tc.horizon, tc.paths, tc.works)
			assert.True(t, models.IsInvalidParameter(err))
		})
	}
	_, err := e.MonteCarloParallel(100, 0.05, 0.2, 10, 10, 0)
	assert.True(t, models.IsInvalidParameter(err))
}
