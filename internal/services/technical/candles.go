package technical

import (
	"math"

	"FinSight/internal/domain/models"
)

const candleLookback = 10

// CandlestickPatterns evaluates body/shadow rules over the trailing bars.
func (e *Engine) CandlestickPatterns(series models.Series) []models.ChartPattern {
	out := []models.ChartPattern{}
	start := maxInt(0, len(series)-candleLookback)
	for i := start; i < len(series); i++ {
		b := series[i]
		rng := b.High - b.Low
		if rng <= 0 {
			continue
		}
		body := math.Abs(b.Close - b.Open)
		upper := b.High - math.Max(b.Open, b.Close)
		lower := math.Min(b.Open, b.Close) - b.Low

		switch {
		case body <= 0.1*rng:
			out = append(out, candle("doji", models.PatternNeutral, 0.5, i, i, "open and close nearly equal"))
		case lower >= 2*body && upper <= 0.5*body:
			out = append(out, candle("hammer", models.PatternBullish, 0.6, i, i, "long lower shadow, small body near the high"))
		case upper >= 2*body && lower <= 0.5*body:
			out = append(out, candle("shooting_star", models.PatternBearish, 0.6, i, i, "long upper shadow, small body near the low"))
		}

		if i == 0 {
			continue
		}
		p := series[i-1]
		prevBody := math.Abs(p.Close - p.Open)
		switch {
		case p.Close < p.Open && b.Close > b.Open && b.Open <= p.Close && b.Close >= p.Open && body > prevBody:
			out = append(out, candle("bullish_engulfing", models.PatternBullish, 0.7, i-1, i, "bullish body engulfs prior bearish body"))
		case p.Close > p.Open && b.Close < b.Open && b.Open >= p.Close && b.Close <= p.Open && body > prevBody:
			out = append(out, candle("bearish_engulfing", models.PatternBearish, 0.7, i-1, i, "bearish body engulfs prior bullish body"))
		}
	}
	return out
}

func candle(name string, typ models.PatternType, conf float64, start, end int, desc string) models.ChartPattern {
	return models.ChartPattern{Name: name, Type: typ, Confidence: conf, StartIndex: start, EndIndex: end, Description: desc}
}
