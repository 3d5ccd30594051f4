package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

func ladder() []float64 {
	out := make([]float64, 20)
	for i := range out {
		out[i] = float64(i)/100 - 0.1
	}
	return out
}

func TestCalculateReturns(t *testing.T) {
	got := CalculateReturns([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 0.1, got[0], 1e-12)
	assert.InDelta(t, -0.1, got[1], 1e-12)
	assert.Empty(t, CalculateReturns([]float64{100}))
}

func TestVaRHistorical(t *testing.T) {
	r := ladder()

	v95, err := VaR(r, 0.95, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.09, v95, 1e-12)

	v99, err := VaR(r, 0.99, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, v99, 1e-12)

	scaled, err := VaR(r, 0.95, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.18, scaled, 1e-12)

	cv, err := CVaR(r, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.095, cv, 1e-12)
	assert.GreaterOrEqual(t, cv, v95)
}

func TestVaRGainsOnlyIsZero(t *testing.T) {
	v, err := VaR([]float64{0.01, 0.02, 0.03}, 0.95, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = VaR(nil, 0.95, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestVaRRejectsBadParameters(t *testing.T) {
	for _, c := range []float64{0, 1, 1.5, -0.1} {
		_, err := VaR(ladder(), c, 1)
		assert.True(t, models.IsInvalidParameter(err), "confidence %g", c)
		_, err = CVaR(ladder(), c)
		assert.True(t, models.IsInvalidParameter(err), "confidence %g", c)
	}
	_, err := VaR(ladder(), 0.95, 0)
	assert.True(t, models.IsInvalidParameter(err))
}

func TestSharpeRatio(t *testing.T) {
	r := []float64{0.01, 0.03}
	assert.InDelta(t, 2.0, SharpeRatio(r, 0), 1e-9)
	assert.InDelta(t, 1.9, SharpeRatio(r, 0.252), 1e-9)
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.01, 0.01}, 0))
}

func TestBeta(t *testing.T) {
	market := []float64{0.01, -0.02, 0.015, 0.005, -0.01}
	asset := make([]float64, len(market))
	for i, m := range market {
		asset[i] = 2 * m
	}
	assert.InDelta(t, 2.0, Beta(asset, market), 1e-9)
	assert.Equal(t, 1.0, Beta(asset[:3], market))
	assert.Equal(t, 1.0, Beta(asset, []float64{0.01, 0.01, 0.01, 0.01, 0.01}))
	assert.Equal(t, 1.0, Beta(nil, nil))
}

func TestVolatilityAndDrawdown(t *testing.T) {
	r := repeat([]float64{0.01, -0.01}, 10)
	assert.InDelta(t, 0.01*math.Sqrt(252), Volatility(r), 1e-12)

	assert.InDelta(t, 0.5, MaxDrawdown([]float64{100, 120, 90, 130, 65}), 1e-12)
	assert.Equal(t, 0.0, MaxDrawdown([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, MaxDrawdown(nil))
}

func TestAssessStockRiskFlat(t *testing.T) {
	m := New(WithSeed(1)).AssessStockRisk(flat(30, 50), nil, 0.02)
	assert.Equal(t, models.RiskMetrics{Beta: 1}, m)
}

func TestAssessStockRiskWithMarket(t *testing.T) {
	mret := repeat([]float64{0.01, -0.02, 0.015, 0.005, -0.01}, 60)
	aret := make([]float64, len(mret))
	for i, r := range mret {
		aret[i] = 2 * r
	}
	market := compound(100, mret)
	asset := compound(50, aret)

	m := New().AssessStockRisk(asset, market, 0)
	assert.InDelta(t, 2.0, m.Beta, 1e-9)
	assert.Greater(t, m.VaR95, 0.0)
	assert.GreaterOrEqual(t, m.VaR99, m.VaR95)
	assert.GreaterOrEqual(t, m.CVaR95, m.VaR95)
	assert.Greater(t, m.Volatility, 0.0)
	assert.Greater(t, m.MaxDrawdown, 0.0)
	assert.Equal(t, 0.0, m.LiquidityRisk)
	assert.InDelta(t, 0.5*m.MaxDrawdown+0.5*math.Min(1, m.Volatility), m.CreditRisk, 1e-12)

	// market bars missing for half the asset history still align by timestamp
	partial := New().AssessStockRisk(asset, market[100:], 0)
	assert.InDelta(t, 2.0, partial.Beta, 1e-9)
}

func TestLiquidityRisk(t *testing.T) {
	s := flat(25, 10)
	for i := range s {
		s[i].Volume = 250_000
	}
	assert.InDelta(t, 0.75, LiquidityRisk(s), 1e-12)
	assert.Equal(t, 1.0, LiquidityRisk(nil))
}
