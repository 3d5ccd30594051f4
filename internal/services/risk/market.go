package risk

import (
	"fmt"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const (
	regimeVolatility = 0.30
	regimeTrend      = 0.05
	marketTrendBars  = 50
)

// AssessMarketRisk classifies the benchmark regime. asset is optional and
// only feeds the correlation factor.
func (e *Engine) AssessMarketRisk(market, asset models.Series) models.MarketRisk {
	if len(market) < 2 {
		return models.MarketRisk{
			Regime:  models.RegimeQuiet,
			Level:   models.RiskLow,
			Factors: []string{fmt.Sprintf("insufficient data: market needs 2 bars, have %d", len(market))},
		}
	}
	closes := market.Closes()
	returns := CalculateReturns(closes)
	window := market.Tail(marketTrendBars + 1).Closes()

	r := models.MarketRisk{
		Volatility: Volatility(returns),
		Factors:    []string{},
	}
	if first := window[0]; first != 0 {
		r.Trend = window[len(window)-1]/first - 1
	}
	peak := closes[0]
	for _, c := range closes {
		if c > peak {
			peak = c
		}
	}
	if peak > 0 {
		r.Drawdown = (peak - closes[len(closes)-1]) / peak
	}
	if len(asset) > 1 {
		a, b := alignCloses(asset, market)
		r.Correlation = seriesmath.Correlation(CalculateReturns(a), CalculateReturns(b))
	}

	switch {
	case r.Volatility > regimeVolatility:
		r.Regime = models.RegimeVolatile
	case r.Trend > regimeTrend:
		r.Regime = models.RegimeBull
	case r.Trend < -regimeTrend:
		r.Regime = models.RegimeBear
	default:
		r.Regime = models.RegimeQuiet
	}

	if r.Volatility > regimeVolatility {
		r.Factors = append(r.Factors, fmt.Sprintf("elevated volatility %.1f%%", r.Volatility*100))
	}
	if r.Trend < -regimeTrend {
		r.Factors = append(r.Factors, fmt.Sprintf("downtrend %.1f%% over %d bars", r.Trend*100, len(window)-1))
	}
	if r.Drawdown > 0.10 {
		r.Factors = append(r.Factors, fmt.Sprintf("drawdown %.1f%% from peak", r.Drawdown*100))
	}
	if r.Correlation > 0.8 {
		r.Factors = append(r.Factors, fmt.Sprintf("high correlation %.2f with market", r.Correlation))
	}

	switch {
	case r.Volatility > 0.40 || r.Drawdown > 0.20:
		r.Level = models.RiskHigh
	case r.Volatility > 0.20 || r.Drawdown > 0.10 || r.Regime == models.RegimeBear:
		r.Level = models.RiskMedium
	default:
		r.Level = models.RiskLow
	}
	return r
}
