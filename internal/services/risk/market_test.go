package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FinSight/internal/domain/models"
)

func TestAssessMarketRiskRegimes(t *testing.T) {
	e := New()

	bull := e.AssessMarketRisk(compound(100, repeat([]float64{0.01}, 60)), nil)
	assert.Equal(t, models.RegimeBull, bull.Regime)
	assert.Equal(t, models.RiskLow, bull.Level)
	assert.Empty(t, bull.Factors)

	bear := e.AssessMarketRisk(compound(100, repeat([]float64{-0.01}, 60)), nil)
	assert.Equal(t, models.RegimeBear, bear.Regime)
	assert.Equal(t, models.RiskHigh, bear.Level)
	assert.Len(t, bear.Factors, 2)

	vol := e.AssessMarketRisk(compound(100, repeat([]float64{0.05, -0.05}, 60)), nil)
	assert.Equal(t, models.RegimeVolatile, vol.Regime)
	assert.Equal(t, models.RiskHigh, vol.Level)

	quiet := e.AssessMarketRisk(flat(30, 100), nil)
	assert.Equal(t, models.RegimeQuiet, quiet.Regime)
	assert.Equal(t, models.RiskLow, quiet.Level)
}

func TestAssessMarketRiskCorrelation(t *testing.T) {
	rets := repeat([]float64{0.01, -0.005, 0.002, -0.004}, 40)
	market := compound(100, rets)
	asset := compound(20, rets)
	r := New().AssessMarketRisk(market, asset)
	assert.InDelta(t, 1, r.Correlation, 1e-9)
	assert.Contains(t, r.Factors, "high correlation 1.00 with market")
}

func TestAssessMarketRiskShort(t *testing.T) {
	r := New().AssessMarketRisk(flat(1, 10), nil)
	assert.Equal(t, models.RegimeQuiet, r.Regime)
	assert.Contains(t, r.Factors[0], "insufficient data")
}
