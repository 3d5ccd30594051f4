package seriesmath

import (
	"math"
	"sort"
)

func Sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

// Mean returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Variance is the population variance.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	acc := 0.0
	for _, v := range values {
		d := v - m
		acc += d * d
	}
	return acc / float64(len(values))
}

// StdDev is the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Covariance is the population covariance; mismatched or empty input yields 0.
func Covariance(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}
	mx, my := Mean(x), Mean(y)
	acc := 0.0
	for i := range x {
		acc += (x[i] - mx) * (y[i] - my)
	}
	return acc / float64(len(x))
}

// Correlation is Pearson's r. Mismatched, short or constant input yields 0.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	sx, sy := StdDev(x), StdDev(y)
	if sx == 0 || sy == 0 {
		return 0
	}
	r := Covariance(x, y) / (sx * sy)
	return Clamp(r, -1, 1)
}

// Slope is the least-squares slope of values against their index.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mx := float64(n-1) / 2
	my := Mean(values)
	num, den := 0.0, 0.0
	for i, v := range values {
		dx := float64(i) - mx
		num += dx * (v - my)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// MinMax returns the extremes of values, or (0, 0) when empty.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize min-max scales values into [0,1]. A zero-range input maps to zeros.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	lo, hi := MinMax(values)
	rng := hi - lo
	if rng == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / rng
	}
	return out
}

// Percentile uses linear interpolation over an ascending-sorted slice; p in [0,100].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	p = Clamp(p, 0, 100)
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Sorted returns an ascending copy.
func Sorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite replaces NaN and ±Inf with fallback.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
