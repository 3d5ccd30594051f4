package technical

import (
	"math"

	"FinSight/internal/domain/models"
)

const day = int64(24 * 60 * 60 * 1000)

// seriesFromCloses builds bars around closes with a half-point body and
// quarter-point shadows.
func seriesFromCloses(closes []float64) models.Series {
	out := make(models.Series, len(closes))
	for i, c := range closes {
		open := c - 0.5
		out[i] = models.Bar{
			Timestamp: int64(i+1) * day,
			Open:      open,
			High:      c + 0.25,
			Low:       open - 0.25,
			Close:     c,
			Volume:    1_000_000,
		}
	}
	return out
}

func rising(n int) models.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return seriesFromCloses(closes)
}

func falling(n int) models.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 500 - float64(i)
	}
	return seriesFromCloses(closes)
}

func sine(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 8*math.Sin(float64(i)/4) + 3*math.Cos(float64(i)/1.7)
	}
	return out
}

// ohlc builds bars from explicit prices.
func ohlc(rows ...[4]float64) models.Series {
	out := make(models.Series, len(rows))
	for i, r := range rows {
		out[i] = models.Bar{Timestamp: int64(i+1) * day, Open: r[0], High: r[1], Low: r[2], Close: r[3], Volume: 1000}
	}
	return out
}
