package technical

import (
	"fmt"
	"math"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

// MACDSeries returns the MACD line, signal line and histogram, one value per close.
func MACDSeries(closes []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	if len(closes) == 0 || fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, nil, nil
	}
	f := seriesmath.EMA(closes, fast).Values
	s := seriesmath.EMA(closes, slow).Values
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = f[i] - s[i]
	}
	sig = seriesmath.EMA(macd, signal).Values
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - sig[i]
	}
	return macd, sig, hist
}

// MACD only signals on a histogram zero-crossing at the latest bar.
func (e *Engine) MACD(series models.Series, fast, slow, signal int) (models.MACDResult, error) {
	if err := positive("macd fast", fast); err != nil {
		return models.MACDResult{}, err
	}
	if err := positive("macd slow", slow); err != nil {
		return models.MACDResult{}, err
	}
	if err := positive("macd signal", signal); err != nil {
		return models.MACDResult{}, err
	}
	if fast >= slow {
		return models.MACDResult{}, models.InvalidParameterf("macd fast period %d must be below slow period %d", fast, slow)
	}
	need := slow + signal
	if len(series) < need {
		return models.MACDResult{IndicatorResult: insufficient("MACD", 0, need, len(series))}, nil
	}
	macd, sig, hist := MACDSeries(series.Closes(), fast, slow, signal)
	last := len(hist) - 1
	m, s, h, prev := macd[last], sig[last], hist[last], hist[last-1]

	res := models.MACDResult{
		IndicatorResult: models.IndicatorResult{Name: "MACD", Value: m, Signal: models.SignalNeutral},
		MACD:            m,
		SignalLine:      s,
		Histogram:       h,
	}
	strength := clamp100(math.Abs(h) / math.Max(math.Abs(m), 1e-9) * 100)
	switch {
	case prev <= 0 && h > 0 && m > s:
		res.Signal = models.SignalBuy
		res.Strength = strength
		res.Crossover = true
		res.Description = "bullish histogram crossover"
	case prev >= 0 && h < 0 && m < s:
		res.Signal = models.SignalSell
		res.Strength = strength
		res.Crossover = true
		res.Description = "bearish histogram crossover"
	default:
		res.Description = fmt.Sprintf("no crossover, histogram %.4f", h)
	}
	return res, nil
}

// ADXSeries returns ADX, +DI and -DI aligned to input index 1.
func ADXSeries(series models.Series, period int) (adx, plusDI, minusDI seriesmath.Aligned) {
	n := len(series)
	if period <= 0 || n < 2 {
		return seriesmath.Aligned{Offset: 1}, seriesmath.Aligned{Offset: 1}, seriesmath.Aligned{Offset: 1}
	}
	tr := make([]float64, n-1)
	pdm := make([]float64, n-1)
	mdm := make([]float64, n-1)
	for i := 1; i < n; i++ {
		cur, prev := series[i], series[i-1]
		tr[i-1] = math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
		up := cur.High - prev.High
		down := prev.Low - cur.Low
		if up > down && up > 0 {
			pdm[i-1] = up
		}
		if down > up && down > 0 {
			mdm[i-1] = down
		}
	}
	str := seriesmath.EMA(tr, period).Values
	spdm := seriesmath.EMA(pdm, period).Values
	smdm := seriesmath.EMA(mdm, period).Values

	pdi := make([]float64, n-1)
	mdi := make([]float64, n-1)
	dx := make([]float64, n-1)
	for i := range str {
		if str[i] > 0 {
			pdi[i] = 100 * spdm[i] / str[i]
			mdi[i] = 100 * smdm[i] / str[i]
		}
		if sum := pdi[i] + mdi[i]; sum > 0 {
			dx[i] = math.Abs(pdi[i]-mdi[i]) / sum * 100
		}
	}
	a := seriesmath.EMA(dx, period)
	a.Offset = 1
	return a, seriesmath.Aligned{Values: pdi, Offset: 1}, seriesmath.Aligned{Values: mdi, Offset: 1}
}

// ADX measures trend strength only. Direction comes from +DI versus -DI and
// is reported only while ADX is above 25.
func (e *Engine) ADX(series models.Series, period int) (models.ADXResult, error) {
	if err := positive("adx period", period); err != nil {
		return models.ADXResult{}, err
	}
	need := 2 * period
	if len(series) < need {
		return models.ADXResult{IndicatorResult: insufficient("ADX", 25, need, len(series))}, nil
	}
	adx, pdi, mdi := ADXSeries(series, period)
	v := adx.LastOr(25)
	p, m := pdi.LastOr(0), mdi.LastOr(0)
	res := models.ADXResult{
		IndicatorResult: models.IndicatorResult{Name: "ADX", Value: v, Signal: models.SignalNeutral},
		PlusDI:          p,
		MinusDI:         m,
		Trending:        v > 25,
	}
	switch {
	case res.Trending && p > m:
		res.Signal = models.SignalBuy
		res.Strength = clamp100(v)
		res.Description = fmt.Sprintf("trending up, ADX %.1f (+DI %.1f > -DI %.1f)", v, p, m)
	case res.Trending && m > p:
		res.Signal = models.SignalSell
		res.Strength = clamp100(v)
		res.Description = fmt.Sprintf("trending down, ADX %.1f (-DI %.1f > +DI %.1f)", v, m, p)
	case res.Trending:
		res.Description = fmt.Sprintf("trending without direction, ADX %.1f", v)
	default:
		res.Description = fmt.Sprintf("no trend, ADX %.1f", v)
	}
	return res, nil
}
