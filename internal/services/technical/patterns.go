package technical

import (
	"fmt"
	"math"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

// Pattern detectors are rule-based flags with a fixed confidence per type.
const (
	patternLookback  = 50
	triangleLookback = 30
	flagLookback     = 20

	confHeadShoulders = 0.75
	confDouble        = 0.70
	confTriangle      = 0.65
	confSymTriangle   = 0.50
	confFlag          = 0.60

	flatSlope = 0.001
)

func (e *Engine) ChartPatterns(series models.Series) []models.ChartPattern {
	out := []models.ChartPattern{}
	n := len(series)
	if n < 2*extremaRadius+5 {
		return out
	}
	start := maxInt(0, n-patternLookback)
	w := series[start:]
	highs, lows := w.Highs(), w.Lows()
	peaks, troughs := localExtrema(highs, lows)

	if p, ok := headAndShoulders(highs, lows, peaks, start); ok {
		out = append(out, p)
	}
	if p, ok := inverseHeadAndShoulders(highs, lows, troughs, start); ok {
		out = append(out, p)
	}
	if p, ok := doubleTop(highs, lows, peaks, start); ok {
		out = append(out, p)
	}
	if p, ok := doubleBottom(highs, lows, troughs, start); ok {
		out = append(out, p)
	}
	if p, ok := triangle(series); ok {
		out = append(out, p)
	}
	if p, ok := flag(series); ok {
		out = append(out, p)
	}
	return out
}

func headAndShoulders(highs, lows []float64, peaks []int, offset int) (models.ChartPattern, bool) {
	if len(peaks) < 3 {
		return models.ChartPattern{}, false
	}
	l, h, r := peaks[len(peaks)-3], peaks[len(peaks)-2], peaks[len(peaks)-1]
	ls, head, rs := highs[l], highs[h], highs[r]
	if head <= ls*1.02 || head <= rs*1.02 || math.Abs(ls-rs)/math.Max(ls, rs) > 0.03 {
		return models.ChartPattern{}, false
	}
	neck, _ := seriesmath.MinMax(lows[l : r+1])
	target := neck - (head - neck)
	return models.ChartPattern{
		Name:        "head_and_shoulders",
		Type:        models.PatternBearish,
		Confidence:  confHeadShoulders,
		StartIndex:  offset + l,
		EndIndex:    offset + r,
		TargetPrice: &target,
		Description: fmt.Sprintf("head %.2f over shoulders %.2f/%.2f, neckline %.2f", head, ls, rs, neck),
	}, true
}

func inverseHeadAndShoulders(highs, lows []float64, troughs []int, offset int) (models.ChartPattern, bool) {
	if len(troughs) < 3 {
		return models.ChartPattern{}, false
	}
	l, h, r := troughs[len(troughs)-3], troughs[len(troughs)-2], troughs[len(troughs)-1]
	ls, head, rs := lows[l], lows[h], lows[r]
	if head >= ls*0.98 || head >= rs*0.98 || math.Abs(ls-rs)/math.Max(ls, rs) > 0.03 {
		return models.ChartPattern{}, false
	}
	_, neck := seriesmath.MinMax(highs[l : r+1])
	target := neck + (neck - head)
	return models.ChartPattern{
		Name:        "inverse_head_and_shoulders",
		Type:        models.PatternBullish,
		Confidence:  confHeadShoulders,
		StartIndex:  offset + l,
		EndIndex:    offset + r,
		TargetPrice: &target,
		Description: fmt.Sprintf("head %.2f under shoulders %.2f/%.2f, neckline %.2f", head, ls, rs, neck),
	}, true
}

func doubleTop(highs, lows []float64, peaks []int, offset int) (models.ChartPattern, bool) {
	if len(peaks) < 2 {
		return models.ChartPattern{}, false
	}
	a, b := peaks[len(peaks)-2], peaks[len(peaks)-1]
	ha, hb := highs[a], highs[b]
	top := math.Max(ha, hb)
	if b-a < 5 || math.Abs(ha-hb)/top > 0.02 {
		return models.ChartPattern{}, false
	}
	trough, _ := seriesmath.MinMax(lows[a : b+1])
	if (math.Min(ha, hb)-trough)/math.Min(ha, hb) < 0.03 {
		return models.ChartPattern{}, false
	}
	peak := (ha + hb) / 2
	target := trough - (peak - trough)
	return models.ChartPattern{
		Name:        "double_top",
		Type:        models.PatternBearish,
		Confidence:  confDouble,
		StartIndex:  offset + a,
		EndIndex:    offset + b,
		TargetPrice: &target,
		Description: fmt.Sprintf("two peaks near %.2f with trough %.2f", peak, trough),
	}, true
}

func doubleBottom(highs, lows []float64, troughs []int, offset int) (models.ChartPattern, bool) {
	if len(troughs) < 2 {
		return models.ChartPattern{}, false
	}
	a, b := troughs[len(troughs)-2], troughs[len(troughs)-1]
	la, lb := lows[a], lows[b]
	if b-a < 5 || math.Abs(la-lb)/math.Max(la, lb) > 0.02 {
		return models.ChartPattern{}, false
	}
	_, peak := seriesmath.MinMax(highs[a : b+1])
	bottom := (la + lb) / 2
	if (peak-math.Max(la, lb))/math.Max(la, lb) < 0.03 {
		return models.ChartPattern{}, false
	}
	target := peak + (peak - bottom)
	return models.ChartPattern{
		Name:        "double_bottom",
		Type:        models.PatternBullish,
		Confidence:  confDouble,
		StartIndex:  offset + a,
		EndIndex:    offset + b,
		TargetPrice: &target,
		Description: fmt.Sprintf("two troughs near %.2f with peak %.2f", bottom, peak),
	}, true
}

// triangle compares the regression slopes of recent peaks and troughs.
func triangle(series models.Series) (models.ChartPattern, bool) {
	start := maxInt(0, len(series)-triangleLookback)
	w := series[start:]
	highs, lows := w.Highs(), w.Lows()
	peaks, troughs := localExtrema(highs, lows)
	if len(peaks) < 2 || len(troughs) < 2 {
		return models.ChartPattern{}, false
	}
	avg := seriesmath.Mean(w.Closes())
	if avg == 0 {
		return models.ChartPattern{}, false
	}
	hs := pointSlope(peaks, highs) / avg
	ls := pointSlope(troughs, lows) / avg
	first := minInt(peaks[0], troughs[0])
	last := maxInt(peaks[len(peaks)-1], troughs[len(troughs)-1])

	p := models.ChartPattern{StartIndex: start + first, EndIndex: start + last}
	switch {
	case math.Abs(hs) < flatSlope && ls > flatSlope:
		p.Name, p.Type, p.Confidence = "ascending_triangle", models.PatternBullish, confTriangle
		p.Description = "flat resistance with rising support"
	case math.Abs(ls) < flatSlope && hs < -flatSlope:
		p.Name, p.Type, p.Confidence = "descending_triangle", models.PatternBearish, confTriangle
		p.Description = "flat support with falling resistance"
	case hs < -flatSlope && ls > flatSlope:
		p.Name, p.Type, p.Confidence = "symmetrical_triangle", models.PatternNeutral, confSymTriangle
		p.Description = "converging highs and lows"
	default:
		return models.ChartPattern{}, false
	}
	return p, true
}

// flag looks for a sharp pole followed by a tight counter-trend consolidation.
func flag(series models.Series) (models.ChartPattern, bool) {
	n := len(series)
	if n < flagLookback {
		return models.ChartPattern{}, false
	}
	half := flagLookback / 2
	poleStart, poleEnd := n-flagLookback, n-half-1
	base := series[poleStart].Close
	if base == 0 {
		return models.ChartPattern{}, false
	}
	pole := series[poleEnd].Close - base
	if math.Abs(pole)/base < 0.05 {
		return models.ChartPattern{}, false
	}
	cons := series[n-half:]
	hi, lo := windowRange(cons)
	if hi-lo >= 0.5*math.Abs(pole) {
		return models.ChartPattern{}, false
	}
	drift := seriesmath.Slope(cons.Closes()) / base
	last := series.LastClose()
	target := last + pole
	p := models.ChartPattern{StartIndex: poleStart, EndIndex: n - 1, TargetPrice: &target, Confidence: confFlag}
	switch {
	case pole > 0 && drift <= flatSlope:
		p.Name, p.Type = "bull_flag", models.PatternBullish
		p.Description = fmt.Sprintf("%.1f%% pole then consolidation", pole/base*100)
	case pole < 0 && drift >= -flatSlope:
		p.Name, p.Type = "bear_flag", models.PatternBearish
		p.Description = fmt.Sprintf("%.1f%% pole then consolidation", pole/base*100)
	default:
		return models.ChartPattern{}, false
	}
	return p, true
}

func pointSlope(idx []int, values []float64) float64 {
	if len(idx) < 2 {
		return 0
	}
	xs := make([]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = float64(j)
		ys[i] = values[j]
	}
	vx := seriesmath.Variance(xs)
	if vx == 0 {
		return 0
	}
	return seriesmath.Covariance(xs, ys) / vx
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
