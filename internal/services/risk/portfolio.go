package risk

import (
	"math"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const minInverseVol = 1e-6

// AssessPortfolioRisk weights are normalized to sum to 1. Return series are
// trimmed to their shortest common trailing length. Optimal weights follow an
// inverse-volatility heuristic and ignore correlations.
func (e *Engine) AssessPortfolioRisk(holdings []models.Holding) (models.PortfolioRisk, error) {
	if len(holdings) == 0 {
		return models.PortfolioRisk{
			Symbols:           []string{},
			CorrelationMatrix: [][]float64{},
			RiskContribution:  map[string]float64{},
			OptimalWeights:    map[string]float64{},
		}, nil
	}
	weights, err := normalizedWeights(holdings)
	if err != nil {
		return models.PortfolioRisk{}, err
	}

	n := len(holdings)
	rets := make([][]float64, n)
	minLen := -1
	for i, h := range holdings {
		rets[i] = CalculateReturns(h.Series.Closes())
		if minLen < 0 || len(rets[i]) < minLen {
			minLen = len(rets[i])
		}
	}
	sigmas := make([]float64, n)
	for i := range rets {
		rets[i] = rets[i][len(rets[i])-minLen:]
		sigmas[i] = seriesmath.StdDev(rets[i])
	}
	corr := CorrelationMatrix(rets)

	variance := PortfolioVariance(weights, sigmas, corr)
	out := models.PortfolioRisk{
		Symbols:           make([]string, n),
		TotalRisk:         math.Sqrt(variance) * sqrtTradingDays,
		CorrelationMatrix: corr,
		RiskContribution:  make(map[string]float64, n),
		OptimalWeights:    make(map[string]float64, n),
	}
	weightedVol := 0.0
	for i, h := range holdings {
		out.Symbols[i] = h.Symbol
		weightedVol += weights[i] * sigmas[i] * sqrtTradingDays
	}
	if weightedVol > 0 {
		out.DiversificationBenefit = (weightedVol - out.TotalRisk) / weightedVol
	}

	for i, h := range holdings {
		if variance == 0 {
			out.RiskContribution[h.Symbol] = weights[i]
			continue
		}
		marginal := 0.0
		for j := range holdings {
			marginal += sigmas[i] * sigmas[j] * corr[i][j] * weights[j]
		}
		out.RiskContribution[h.Symbol] = weights[i] * marginal / variance
	}

	inv := make([]float64, n)
	invSum, anyVol := 0.0, false
	for i, s := range sigmas {
		if s > 0 {
			anyVol = true
		}
		inv[i] = 1 / math.Max(s*sqrtTradingDays, minInverseVol)
		invSum += inv[i]
	}
	for i, h := range holdings {
		if !anyVol {
			out.OptimalWeights[h.Symbol] = 1 / float64(n)
			continue
		}
		out.OptimalWeights[h.Symbol] = inv[i] / invSum
	}
	return out, nil
}

func normalizedWeights(holdings []models.Holding) ([]float64, error) {
	seen := make(map[string]struct{}, len(holdings))
	sum := 0.0
	for _, h := range holdings {
		if h.Symbol == "" {
			return nil, models.InvalidParameterf("holding symbol is required")
		}
		if _, dup := seen[h.Symbol]; dup {
			return nil, models.InvalidParameterf("duplicate holding %q", h.Symbol)
		}
		seen[h.Symbol] = struct{}{}
		if h.Weight < 0 || math.IsNaN(h.Weight) {
			return nil, models.InvalidParameterf("weight for %s must be non-negative, got %g", h.Symbol, h.Weight)
		}
		sum += h.Weight
	}
	if sum == 0 {
		return nil, models.InvalidParameterf("portfolio weights sum to zero")
	}
	out := make([]float64, len(holdings))
	for i, h := range holdings {
		out[i] = h.Weight / sum
	}
	return out, nil
}

// CorrelationMatrix returns pairwise Pearson correlations with a unit diagonal.
func CorrelationMatrix(returns [][]float64) [][]float64 {
	n := len(returns)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := seriesmath.Correlation(returns[i], returns[j])
			m[i][j], m[j][i] = c, c
		}
	}
	return m
}

// PortfolioVariance is the quadratic form Σ Σ wᵢwⱼσᵢσⱼρᵢⱼ over daily returns.
func PortfolioVariance(weights, sigmas []float64, corr [][]float64) float64 {
	v := 0.0
	for i := range weights {
		for j := range weights {
			v += weights[i] * weights[j] * sigmas[i] * sigmas[j] * corr[i][j]
		}
	}
	return math.Max(0, v)
}
