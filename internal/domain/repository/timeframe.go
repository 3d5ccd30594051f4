package repository

import "time"

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF1m, TF1h, TF1d:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF1d }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// Duration returns the bar width for tf.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TF1m:
		return time.Minute
	case TF1h:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// BarsPerYear approximates the number of bars in a year at tf for a market
// trading 252 sessions of 6.5 hours.
func (tf Timeframe) BarsPerYear() float64 {
	switch tf {
	case TF1m:
		return 252 * 390
	case TF1h:
		return 252 * 6.5
	default:
		return 252
	}
}

// Align truncates a query range to bar boundaries.
func (tf Timeframe) Align(from, to time.Time) (time.Time, time.Time) {
	d := tf.Duration()
	return from.Truncate(d), to.Truncate(d)
}
