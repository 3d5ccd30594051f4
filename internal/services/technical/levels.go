package technical

import (
	"math"
	"sort"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const (
	extremaRadius    = 2
	clusterTolerance = 0.02
	minTouches       = 2
)

var fibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// localExtrema returns indices of bars whose high (low) strictly exceeds
// (undercuts) the two bars on either side.
func localExtrema(highs, lows []float64) (peaks, troughs []int) {
	for i := extremaRadius; i < len(highs)-extremaRadius; i++ {
		isPeak, isTrough := true, true
		for j := 1; j <= extremaRadius; j++ {
			if highs[i] <= highs[i-j] || highs[i] <= highs[i+j] {
				isPeak = false
			}
			if lows[i] >= lows[i-j] || lows[i] >= lows[i+j] {
				isTrough = false
			}
		}
		if isPeak {
			peaks = append(peaks, i)
		}
		if isTrough {
			troughs = append(troughs, i)
		}
	}
	return peaks, troughs
}

func (e *Engine) SupportResistance(series models.Series, lookback int) ([]models.Level, error) {
	if err := positive("support/resistance lookback", lookback); err != nil {
		return nil, err
	}
	w := series.Tail(lookback)
	highs, lows := w.Highs(), w.Lows()
	peaks, troughs := localExtrema(highs, lows)

	levels := clusterLevels(pick(highs, peaks), models.LevelResistance)
	levels = append(levels, clusterLevels(pick(lows, troughs), models.LevelSupport)...)
	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Strength != levels[j].Strength {
			return levels[i].Strength > levels[j].Strength
		}
		return levels[i].Price < levels[j].Price
	})
	return levels, nil
}

// clusterLevels groups ascending prices lying within 2% of the running cluster mean.
func clusterLevels(prices []float64, typ models.LevelType) []models.Level {
	out := []models.Level{}
	var cur []float64
	flush := func() {
		if len(cur) >= minTouches {
			out = append(out, models.Level{
				Price:    seriesmath.Mean(cur),
				Type:     typ,
				Touches:  len(cur),
				Strength: math.Min(100, float64(len(cur))*25),
			})
		}
		cur = cur[:0]
	}
	for _, p := range seriesmath.Sorted(prices) {
		if len(cur) > 0 {
			m := seriesmath.Mean(cur)
			if m == 0 || math.Abs(p-m)/math.Abs(m) > clusterTolerance {
				flush()
			}
		}
		cur = append(cur, p)
	}
	flush()
	return out
}

// FibonacciLevels tags ratios below 0.5 as resistance and the rest as support.
func (e *Engine) FibonacciLevels(series models.Series, lookback int) ([]models.FibonacciLevel, error) {
	if err := positive("fibonacci lookback", lookback); err != nil {
		return nil, err
	}
	out := []models.FibonacciLevel{}
	w := series.Tail(lookback)
	if len(w) == 0 {
		return out, nil
	}
	hi, lo := windowRange(w)
	for _, r := range fibRatios {
		typ := models.LevelSupport
		if r < 0.5 {
			typ = models.LevelResistance
		}
		out = append(out, models.FibonacciLevel{Ratio: r, Price: hi - r*(hi-lo), Type: typ})
	}
	return out, nil
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
