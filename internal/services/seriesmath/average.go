package seriesmath

import "github.com/markcheno/go-talib"

// Aligned is an indicator array right-aligned to its input series:
// Values[0] corresponds to input index Offset.
type Aligned struct {
	Values []float64
	Offset int
}

func (a Aligned) Len() int { return len(a.Values) }

// At returns the value aligned to input index i.
func (a Aligned) At(i int) (float64, bool) {
	j := i - a.Offset
	if j < 0 || j >= len(a.Values) {
		return 0, false
	}
	return a.Values[j], true
}

// Last returns the most recent value.
func (a Aligned) Last() (float64, bool) {
	if len(a.Values) == 0 {
		return 0, false
	}
	return a.Values[len(a.Values)-1], true
}

// LastOr returns the most recent value or def when empty.
func (a Aligned) LastOr(def float64) float64 {
	if v, ok := a.Last(); ok {
		return v
	}
	return def
}

// Tail returns up to n most recent values.
func (a Aligned) Tail(n int) []float64 {
	if n >= len(a.Values) {
		return a.Values
	}
	if n <= 0 {
		return nil
	}
	return a.Values[len(a.Values)-n:]
}

// SMA is the simple moving average. The result is shorter than values by
// period-1 and empty when there is not enough history.
func SMA(values []float64, period int) Aligned {
	if period <= 0 {
		return Aligned{}
	}
	off := period - 1
	if len(values) < period {
		return Aligned{Offset: off}
	}
	return Aligned{Values: talib.Sma(values, period)[off:], Offset: off}
}

// WMA is the linearly weighted moving average, newest value weighted highest.
// Alignment matches SMA.
func WMA(values []float64, period int) Aligned {
	if period <= 0 {
		return Aligned{}
	}
	off := period - 1
	if len(values) < period {
		return Aligned{Offset: off}
	}
	return Aligned{Values: talib.Wma(values, period)[off:], Offset: off}
}

// EMA returns one value per input, unlike talib.Ema which starts at period-1.
// The first output is the mean of the first min(period, len) inputs; the rest
// follow the 2/(period+1) recurrence.
func EMA(values []float64, period int) Aligned {
	if period <= 0 || len(values) == 0 {
		return Aligned{}
	}
	seedN := period
	if len(values) < seedN {
		seedN = len(values)
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(values))
	out[0] = Mean(values[:seedN])
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*k + out[i-1]
	}
	return Aligned{Values: out}
}
