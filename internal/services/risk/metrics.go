package risk

import (
	"math"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

// CalculateReturns returns simple period-over-period returns. A zero price
// yields a zero return for the following period.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			out[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return out
}

func tailIndex(n int, confidence float64) int {
	idx := int(math.Floor((1 - confidence) * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func checkConfidence(confidence float64) error {
	if !(confidence > 0 && confidence < 1) {
		return models.InvalidParameterf("confidence must be in (0,1), got %g", confidence)
	}
	return nil
}

// VaR is historical-simulation value at risk expressed as a positive loss
// fraction, scaled to horizonDays by the square root of time.
func VaR(returns []float64, confidence float64, horizonDays int) (float64, error) {
	if err := checkConfidence(confidence); err != nil {
		return 0, err
	}
	if horizonDays <= 0 {
		return 0, models.InvalidParameterf("horizon must be positive, got %d", horizonDays)
	}
	if len(returns) == 0 {
		return 0, nil
	}
	sorted := seriesmath.Sorted(returns)
	v := -sorted[tailIndex(len(sorted), confidence)] * math.Sqrt(float64(horizonDays))
	return math.Max(0, v), nil
}

// CVaR is the mean loss over the tail up to and including the VaR rank.
func CVaR(returns []float64, confidence float64) (float64, error) {
	if err := checkConfidence(confidence); err != nil {
		return 0, err
	}
	if len(returns) == 0 {
		return 0, nil
	}
	sorted := seriesmath.Sorted(returns)
	tail := sorted[:tailIndex(len(sorted), confidence)+1]
	return math.Max(0, -seriesmath.Mean(tail)), nil
}

// SharpeRatio is the daily ratio against riskFreeRate/252. It is 0 for a
// zero-volatility series.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	sd := seriesmath.StdDev(returns)
	if sd == 0 {
		return 0
	}
	return (seriesmath.Mean(returns) - riskFreeRate/TradingDays) / sd
}

// Beta defaults to 1 for mismatched, empty or constant market returns.
func Beta(asset, market []float64) float64 {
	if len(asset) != len(market) || len(asset) == 0 {
		return 1
	}
	v := seriesmath.Variance(market)
	if v == 0 {
		return 1
	}
	return seriesmath.Covariance(asset, market) / v
}

// Volatility annualizes the daily standard deviation.
func Volatility(returns []float64) float64 {
	return seriesmath.StdDev(returns) * sqrtTradingDays
}

// MaxDrawdown is the largest peak-to-trough decline as a fraction of the peak.
func MaxDrawdown(prices []float64) float64 {
	peak, dd := 0.0, 0.0
	for i, p := range prices {
		if i == 0 || p > peak {
			peak = p
		}
		if peak > 0 {
			dd = math.Max(dd, (peak-p)/peak)
		}
	}
	return dd
}

// alignCloses pairs closes of a and b by timestamp.
func alignCloses(a, b models.Series) ([]float64, []float64) {
	idx := make(map[int64]float64, len(b))
	for _, bar := range b {
		idx[bar.Timestamp] = bar.Close
	}
	xa := make([]float64, 0, len(a))
	xb := make([]float64, 0, len(a))
	for _, bar := range a {
		if c, ok := idx[bar.Timestamp]; ok {
			xa = append(xa, bar.Close)
			xb = append(xb, c)
		}
	}
	return xa, xb
}
