package risk

import (
	"FinSight/internal/domain/models"
)

const day = int64(24 * 60 * 60 * 1000)

// compound builds a series starting at start whose period returns are rets.
func compound(start float64, rets []float64) models.Series {
	out := make(models.Series, 0, len(rets)+1)
	price := start
	out = append(out, bar(0, price))
	for i, r := range rets {
		price *= 1 + r
		out = append(out, bar(i+1, price))
	}
	return out
}

func bar(i int, close float64) models.Bar {
	return models.Bar{Timestamp: int64(i+1) * day, Open: close, High: close, Low: close, Close: close, Volume: 1_000_000}
}

func repeat(pattern []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}

func flat(n int, price float64) models.Series {
	out := make(models.Series, n)
	for i := range out {
		out[i] = bar(i, price)
	}
	return out
}
