package features

import (
	"math"

	"FinSight/internal/domain/models"
)

// ComputeLogReturns computes r_t = ln(C_t / C_{t-1}).
// It returns a slice of length len(series)-1, or nil if insufficient data.
func ComputeLogReturns(series models.Series) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		cur := series[i].Close
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility annualizes the sample deviation of the latest window of
// log returns using barsPerYear.
func RealizedVolatility(logReturns []float64, window int, barsPerYear float64) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum, sum2 := 0.0, 0.0
	for _, r := range logReturns[len(logReturns)-window:] {
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * barsPerYear)
}

// AnnualizedDrift is the mean log return over the window scaled to a year.
func AnnualizedDrift(logReturns []float64, window int, barsPerYear float64) float64 {
	if window <= 0 || len(logReturns) == 0 {
		return 0
	}
	if window > len(logReturns) {
		window = len(logReturns)
	}
	sum := 0.0
	for _, r := range logReturns[len(logReturns)-window:] {
		sum += r
	}
	return sum / float64(window) * barsPerYear
}
