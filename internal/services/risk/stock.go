package risk

import (
	"math"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const (
	liquidityWindow    = 20
	liquidityReference = 1e6
)

// AssessStockRisk computes per-asset metrics. market is optional; beta is
// computed over bars present in both series.
func (e *Engine) AssessStockRisk(series, market models.Series, riskFreeRate float64) models.RiskMetrics {
	closes := series.Closes()
	returns := CalculateReturns(closes)

	m := models.RiskMetrics{
		SharpeRatio: SharpeRatio(returns, riskFreeRate),
		Beta:        1,
		Volatility:  Volatility(returns),
		MaxDrawdown: MaxDrawdown(closes),
	}
	m.VaR95, _ = VaR(returns, 0.95, 1)
	m.VaR99, _ = VaR(returns, 0.99, 1)
	m.CVaR95, _ = CVaR(returns, 0.95)

	if len(market) > 1 {
		a, b := alignCloses(series, market)
		m.Beta = Beta(CalculateReturns(a), CalculateReturns(b))
	}
	m.LiquidityRisk = LiquidityRisk(series)
	m.CreditRisk = seriesmath.Clamp(0.5*m.MaxDrawdown+0.5*math.Min(1, m.Volatility), 0, 1)
	return m
}

// LiquidityRisk falls from 1 toward 0 as the recent average volume approaches
// one million shares.
func LiquidityRisk(series models.Series) float64 {
	if len(series) == 0 {
		return 1
	}
	avg := seriesmath.Mean(series.Tail(liquidityWindow).Volumes())
	return 1 - math.Min(1, avg/liquidityReference)
}
