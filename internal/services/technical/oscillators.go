package technical

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

// RSISeries is Wilder's RSI aligned to input index period. Values stay at
// 50 until the first price change.
func RSISeries(closes []float64, period int) seriesmath.Aligned {
	if period <= 0 || len(closes) < period+1 {
		return seriesmath.Aligned{Offset: maxInt(period, 0)}
	}
	var out []float64
	if period == 1 {
		out = make([]float64, len(closes)-1)
		for i := range out {
			ch := closes[i+1] - closes[i]
			switch {
			case ch > 0:
				out[i] = 100
			case ch < 0:
				out[i] = 0
			default:
				out[i] = 50
			}
		}
	} else {
		out = talib.Rsi(closes, period)[period:]
	}
	moved := firstChange(closes)
	for i := range out {
		if i+period >= moved {
			break
		}
		out[i] = 50
	}
	return seriesmath.Aligned{Values: out, Offset: period}
}

// firstChange returns the first index whose value differs from its
// predecessor, or len(values).
func firstChange(values []float64) int {
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			return i
		}
	}
	return len(values)
}

func (e *Engine) RSI(series models.Series, period int) (models.IndicatorResult, error) {
	if err := positive("rsi period", period); err != nil {
		return models.IndicatorResult{}, err
	}
	if len(series) < period+1 {
		return insufficient("RSI", 50, period+1, len(series)), nil
	}
	v := RSISeries(series.Closes(), period).LastOr(50)
	res := models.IndicatorResult{Name: "RSI", Value: v, Signal: models.SignalNeutral}
	switch {
	case v > 70:
		res.Signal = models.SignalSell
		res.Strength = clamp100((v - 70) / 30 * 100)
		res.Description = fmt.Sprintf("overbought at %.1f", v)
	case v < 30:
		res.Signal = models.SignalBuy
		res.Strength = clamp100((30 - v) / 30 * 100)
		res.Description = fmt.Sprintf("oversold at %.1f", v)
	default:
		res.Description = fmt.Sprintf("neutral at %.1f", v)
	}
	return res, nil
}

// StochasticK is the raw %K line aligned to input index k-1.
func StochasticK(series models.Series, k int) seriesmath.Aligned {
	if k <= 0 || len(series) < k {
		return seriesmath.Aligned{Offset: maxInt(k-1, 0)}
	}
	out := make([]float64, 0, len(series)-k+1)
	for i := k - 1; i < len(series); i++ {
		hh, ll := windowRange(series[i-k+1 : i+1])
		if hh == ll {
			out = append(out, 50)
			continue
		}
		out = append(out, (series[i].Close-ll)/(hh-ll)*100)
	}
	return seriesmath.Aligned{Values: out, Offset: k - 1}
}

func (e *Engine) Stochastic(series models.Series, k, d int) (models.StochasticResult, error) {
	if err := positive("stochastic k", k); err != nil {
		return models.StochasticResult{}, err
	}
	if err := positive("stochastic d", d); err != nil {
		return models.StochasticResult{}, err
	}
	need := k + d - 1
	if len(series) < need {
		return models.StochasticResult{IndicatorResult: insufficient("Stochastic", 50, need, len(series)), K: 50, D: 50}, nil
	}
	kLine := StochasticK(series, k)
	kv := kLine.LastOr(50)
	dv := seriesmath.SMA(kLine.Values, d).LastOr(kv)
	res := models.StochasticResult{
		IndicatorResult: models.IndicatorResult{Name: "Stochastic", Value: kv, Signal: models.SignalNeutral},
		K:               kv,
		D:               dv,
	}
	switch {
	case kv > 80:
		res.Signal = models.SignalSell
		res.Strength = clamp100((kv - 80) / 20 * 100)
		res.Description = fmt.Sprintf("overbought %%K=%.1f %%D=%.1f", kv, dv)
	case kv < 20:
		res.Signal = models.SignalBuy
		res.Strength = clamp100((20 - kv) / 20 * 100)
		res.Description = fmt.Sprintf("oversold %%K=%.1f %%D=%.1f", kv, dv)
	default:
		res.Description = fmt.Sprintf("neutral %%K=%.1f %%D=%.1f", kv, dv)
	}
	return res, nil
}

func (e *Engine) WilliamsR(series models.Series, period int) (models.IndicatorResult, error) {
	if err := positive("williams %R period", period); err != nil {
		return models.IndicatorResult{}, err
	}
	if len(series) < period {
		return insufficient("WilliamsR", -50, period, len(series)), nil
	}
	hh, ll := windowRange(series.Tail(period))
	wr := -50.0
	if hh != ll {
		wr = talib.WillR(series.Highs(), series.Lows(), series.Closes(), period)[len(series)-1]
	}
	res := models.IndicatorResult{Name: "WilliamsR", Value: wr, Signal: models.SignalNeutral}
	switch {
	case wr > -20:
		res.Signal = models.SignalSell
		res.Strength = clamp100((wr + 20) / 20 * 100)
		res.Description = fmt.Sprintf("overbought at %.1f", wr)
	case wr < -80:
		res.Signal = models.SignalBuy
		res.Strength = clamp100((-80 - wr) / 20 * 100)
		res.Description = fmt.Sprintf("oversold at %.1f", wr)
	default:
		res.Description = fmt.Sprintf("neutral at %.1f", wr)
	}
	return res, nil
}

// windowRange returns the highest high and lowest low of bars.
func windowRange(bars models.Series) (float64, float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	hh, ll := bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High > hh {
			hh = b.High
		}
		if b.Low < ll {
			ll = b.Low
		}
	}
	return hh, ll
}
