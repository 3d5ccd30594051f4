package models

import (
	"math"
	"time"
)

// Bar is one OHLCV period. Timestamp is unix milliseconds.
type Bar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// Time returns the bar timestamp as time.Time.
func (b Bar) Time() time.Time { return time.UnixMilli(b.Timestamp).UTC() }

// Series is a time-ascending sequence of bars without duplicate timestamps.
type Series []Bar

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = float64(b.Volume)
	}
	return out
}

// Tail returns the last n bars (or the whole series when shorter).
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s Series) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Validate checks the invariants every indicator relies on: strictly
// ascending timestamps, finite prices and non-negative volume.
func (s Series) Validate() error {
	for i, b := range s {
		if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) {
			return InvalidParameterf("non-finite price at index %d", i)
		}
		if b.Volume < 0 {
			return InvalidParameterf("negative volume %d at index %d", b.Volume, i)
		}
		if i > 0 && b.Timestamp <= s[i-1].Timestamp {
			return InvalidParameterf("series not strictly ascending at index %d (%d after %d)", i, b.Timestamp, s[i-1].Timestamp)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
