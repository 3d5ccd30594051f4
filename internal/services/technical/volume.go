package technical

import (
	"fmt"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const (
	volumeAvgWindow   = 20
	volumeTrendWindow = 10
)

// OBVSeries is on-balance volume, starting at 0 on the first bar.
func OBVSeries(series models.Series) []float64 {
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		v := float64(series[i].Volume)
		switch {
		case series[i].Close > series[i-1].Close:
			out[i] = out[i-1] + v
		case series[i].Close < series[i-1].Close:
			out[i] = out[i-1] - v
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// VPTSeries is volume-price trend, starting at 0 on the first bar.
func VPTSeries(series models.Series) []float64 {
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		out[i] = out[i-1]
		if prev != 0 {
			out[i] += float64(series[i].Volume) * (series[i].Close - prev) / prev
		}
	}
	return out
}

// VolumeAnalysis confirms price direction with OBV direction.
func (e *Engine) VolumeAnalysis(series models.Series) models.VolumeAnalysis {
	if len(series) < 2 {
		return models.VolumeAnalysis{IndicatorResult: insufficient("Volume", 0, 2, len(series)), VolumeRatio: 1}
	}
	obv := OBVSeries(series)
	vpt := VPTSeries(series)
	vols := series.Volumes()
	avg := seriesmath.Mean(tailFloats(vols, volumeAvgWindow))
	ratio := 1.0
	if avg > 0 {
		ratio = vols[len(vols)-1] / avg
	}
	obvSlope := seriesmath.Slope(tailFloats(obv, volumeTrendWindow))
	priceSlope := seriesmath.Slope(tailFloats(series.Closes(), volumeTrendWindow))

	res := models.VolumeAnalysis{
		IndicatorResult: models.IndicatorResult{Name: "Volume", Value: obv[len(obv)-1], Signal: models.SignalNeutral},
		OBV:             obv[len(obv)-1],
		OBVSlope:        obvSlope,
		VPT:             vpt[len(vpt)-1],
		AverageVolume:   avg,
		VolumeRatio:     ratio,
	}
	switch {
	case obvSlope > 0 && priceSlope > 0:
		res.Signal = models.SignalBuy
		res.Strength = clamp100(ratio * 50)
		res.Description = fmt.Sprintf("volume confirms uptrend, ratio %.2f", ratio)
	case obvSlope < 0 && priceSlope < 0:
		res.Signal = models.SignalSell
		res.Strength = clamp100(ratio * 50)
		res.Description = fmt.Sprintf("volume confirms downtrend, ratio %.2f", ratio)
	default:
		res.Description = fmt.Sprintf("volume divergent or flat, ratio %.2f", ratio)
	}
	return res
}
