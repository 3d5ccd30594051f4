package technical

import (
	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const (
	scoreBuy  = 60.0
	scoreSell = 40.0
)

// TechnicalScore runs the indicators it needs with the configured periods and
// blends them. Invalid configured periods degrade to neutral sub-scores.
func (e *Engine) TechnicalScore(series models.Series) models.TechnicalScore {
	if len(series) < 2 {
		return neutralScore()
	}
	var r models.TechnicalReport
	r.RSI, _ = e.RSI(series, e.p.RSI)
	r.MACD, _ = e.MACD(series, e.p.MACDFast, e.p.MACDSlow, e.p.MACDSignal)
	r.Stochastic, _ = e.Stochastic(series, e.p.StochK, e.p.StochD)
	r.WilliamsR, _ = e.WilliamsR(series, e.p.WilliamsR)
	r.ADX, _ = e.ADX(series, e.p.ADX)
	r.Bollinger, _ = e.BollingerBands(series, e.p.Bollinger, e.p.BollingerMult)
	r.Volume = e.VolumeAnalysis(series)
	return e.score(series, r)
}

func neutralScore() models.TechnicalScore {
	return models.TechnicalScore{Overall: 50, Trend: 50, Momentum: 50, Volatility: 50, Volume: 50, Signal: models.SignalNeutral}
}

func (e *Engine) score(series models.Series, r models.TechnicalReport) models.TechnicalScore {
	if len(series) < 2 {
		return neutralScore()
	}
	s := models.TechnicalScore{
		Trend:      trendScore(series, r),
		Momentum:   momentumScore(r),
		Volatility: 50,
		Volume:     50,
	}
	if len(series) >= e.p.Bollinger && e.p.Bollinger > 0 {
		s.Volatility = clamp100(100 - r.Bollinger.Bandwidth*5)
	}
	switch r.Volume.Signal {
	case models.SignalBuy:
		s.Volume = clamp100(50 + r.Volume.Strength/2)
	case models.SignalSell:
		s.Volume = clamp100(50 - r.Volume.Strength/2)
	}
	s.Overall = clamp100(0.3*s.Trend + 0.3*s.Momentum + 0.2*s.Volatility + 0.2*s.Volume)
	switch {
	case s.Overall >= scoreBuy:
		s.Signal = models.SignalBuy
	case s.Overall <= scoreSell:
		s.Signal = models.SignalSell
	default:
		s.Signal = models.SignalNeutral
	}
	return s
}

func trendScore(series models.Series, r models.TechnicalReport) float64 {
	closes := series.Closes()
	last := closes[len(closes)-1]
	score := 50.0
	sma20, ok20 := seriesmath.SMA(closes, 20).Last()
	if ok20 {
		if last > sma20 {
			score += 15
		} else if last < sma20 {
			score -= 15
		}
	}
	if sma50, ok50 := seriesmath.SMA(closes, 50).Last(); ok20 && ok50 {
		if sma20 > sma50 {
			score += 15
		} else if sma20 < sma50 {
			score -= 15
		}
	}
	if h := r.MACD.Histogram; h > 0 {
		score += 10
	} else if h < 0 {
		score -= 10
	}
	if r.ADX.Trending {
		switch r.ADX.Signal {
		case models.SignalBuy:
			score += 10
		case models.SignalSell:
			score -= 10
		}
	}
	return clamp100(score)
}

func momentumScore(r models.TechnicalReport) float64 {
	return clamp100(0.5*r.RSI.Value + 0.3*r.Stochastic.K + 0.2*(r.WilliamsR.Value+100))
}
