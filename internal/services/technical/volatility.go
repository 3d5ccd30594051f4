package technical

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const (
	squeezeWindow    = 10
	squeezeThreshold = 10.0
)

// Bands holds Bollinger bands aligned to input index period-1.
type Bands struct {
	Upper, Middle, Lower seriesmath.Aligned
}

// Bandwidth returns (upper-lower)/middle*100 per aligned index.
func (b Bands) Bandwidth() []float64 {
	out := make([]float64, b.Middle.Len())
	for i, m := range b.Middle.Values {
		if m != 0 {
			out[i] = (b.Upper.Values[i] - b.Lower.Values[i]) / m * 100
		}
	}
	return out
}

// BollingerSeries uses the population standard deviation of each window.
func BollingerSeries(closes []float64, period int, mult float64) Bands {
	off := maxInt(period-1, 0)
	if period <= 0 || len(closes) < period {
		empty := seriesmath.Aligned{Offset: off}
		return Bands{Upper: empty, Middle: empty, Lower: empty}
	}
	up, mid, lo := talib.BBands(closes, period, mult, mult, talib.SMA)
	return Bands{
		Upper:  seriesmath.Aligned{Values: up[off:], Offset: off},
		Middle: seriesmath.Aligned{Values: mid[off:], Offset: off},
		Lower:  seriesmath.Aligned{Values: lo[off:], Offset: off},
	}
}

func (e *Engine) BollingerBands(series models.Series, period int, mult float64) (models.BollingerResult, error) {
	if err := positive("bollinger period", period); err != nil {
		return models.BollingerResult{}, err
	}
	if mult < 0 {
		return models.BollingerResult{}, models.InvalidParameterf("bollinger multiplier must be non-negative, got %g", mult)
	}
	last := series.LastClose()
	if len(series) < period {
		return models.BollingerResult{
			IndicatorResult: insufficient("Bollinger", 0.5, period, len(series)),
			Upper:           last,
			Middle:          last,
			Lower:           last,
			PercentB:        0.5,
		}, nil
	}
	bands := BollingerSeries(series.Closes(), period, mult)
	u, m, l := bands.Upper.LastOr(last), bands.Middle.LastOr(last), bands.Lower.LastOr(last)
	bw := bands.Bandwidth()

	res := models.BollingerResult{
		Upper:     u,
		Middle:    m,
		Lower:     l,
		Bandwidth: bw[len(bw)-1],
		PercentB:  0.5,
		Squeeze:   seriesmath.Mean(tailFloats(bw, squeezeWindow)) < squeezeThreshold,
	}
	width := u - l
	if width > 0 {
		res.PercentB = (last - l) / width
	}
	res.IndicatorResult = models.IndicatorResult{Name: "Bollinger", Value: res.PercentB, Signal: models.SignalNeutral}
	switch {
	case width > 0 && last <= l:
		res.Signal = models.SignalBuy
		res.Strength = clamp100(50 + (l-last)/width*200)
		res.Description = fmt.Sprintf("price %.2f at or below lower band %.2f", last, l)
	case width > 0 && last >= u:
		res.Signal = models.SignalSell
		res.Strength = clamp100(50 + (last-u)/width*200)
		res.Description = fmt.Sprintf("price %.2f at or above upper band %.2f", last, u)
	default:
		res.Description = fmt.Sprintf("price inside bands, bandwidth %.2f%%", res.Bandwidth)
	}
	if res.Squeeze {
		res.Description += ", squeeze"
	}
	return res, nil
}

func tailFloats(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}
